package model

// User-facing copy. These strings are part of the page contract.
const (
	LoadingText        = "Loading Emergent Labs..."
	EmptyText          = "No portfolio data available"
	ContactSuccessText = "Thank you! Your message has been sent."
	ContactErrorText   = "Error sending message. Please try again."
	SubmitLabel        = "Send Message"
	SubmittingLabel    = "Sending..."
)

// Field names of the contact form, as posted by the browser.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// ContactForm is the payload of the contact endpoint.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Missing returns the names of required fields that are empty.
func (f ContactForm) Missing() []string {
	var out []string
	if f.Name == "" {
		out = append(out, FieldName)
	}
	if f.Email == "" {
		out = append(out, FieldEmail)
	}
	if f.Message == "" {
		out = append(out, FieldMessage)
	}
	return out
}

// StatusKind is the phase of a contact submission.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// SubmitStatus drives the submit button and the status line under the form.
type SubmitStatus struct {
	Kind    StatusKind
	Message string
}

// Submitting reports whether a submission is in flight.
func (s SubmitStatus) Submitting() bool { return s.Kind == StatusSubmitting }

// ButtonLabel is the text of the submit control.
func (s SubmitStatus) ButtonLabel() string {
	if s.Submitting() {
		return SubmittingLabel
	}
	return SubmitLabel
}

// IsError reports whether the status line should be styled as an error.
func (s SubmitStatus) IsError() bool { return s.Kind == StatusFailed }
