package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gsivak487/emrgent-labs/internal/logging"
	"github.com/gsivak487/emrgent-labs/internal/model"
)

var (
	// ErrSubmitting is returned by Submit while another submit is in flight.
	ErrSubmitting = errors.New("contact: submit already in progress")
	// ErrMissingField is returned by Submit when a required field is empty.
	ErrMissingField = errors.New("contact: required field is empty")
	// ErrUnknownField is returned by Set for names other than name/email/message.
	ErrUnknownField = errors.New("contact: unknown field")
)

// Sender delivers a contact message. The backend client implements it.
type Sender interface {
	SendContact(ctx context.Context, form model.ContactForm) error
}

// ContactSnapshot is what the contact section renders.
type ContactSnapshot struct {
	Form   model.ContactForm
	Status model.SubmitStatus
}

// Contact is the controller behind the contact form. Field values are held
// here, not in the browser: the page re-renders them from the snapshot.
type Contact struct {
	sender Sender
	logger *slog.Logger

	mu       sync.Mutex
	form     model.ContactForm
	status   model.SubmitStatus
	disposed bool
}

func NewContact(sender Sender, logger *slog.Logger) *Contact {
	return &Contact{sender: sender, logger: logging.OrDiscard(logger)}
}

// Set replaces one field's value.
func (c *Contact) Set(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch field {
	case model.FieldName:
		c.form.Name = value
	case model.FieldEmail:
		c.form.Email = value
	case model.FieldMessage:
		c.form.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Snapshot returns the current fields and status.
func (c *Contact) Snapshot() ContactSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ContactSnapshot{Form: c.form, Status: c.status}
}

// Submit sends the current field values once. On success the fields are
// cleared and the status carries the confirmation copy; on any failure the
// fields are kept and the status carries the error copy. The submitting flag
// is set before the send and cleared after it, whatever the outcome.
//
// The returned error is the delivery failure, or ErrSubmitting /
// ErrMissingField when nothing was sent.
func (c *Contact) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.status.Submitting() {
		c.mu.Unlock()
		return ErrSubmitting
	}
	if missing := c.form.Missing(); len(missing) > 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	form := c.form
	prev := c.status
	c.status = model.SubmitStatus{Kind: model.StatusSubmitting, Message: prev.Message}
	c.mu.Unlock()

	err := c.sender.SendContact(ctx, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		c.logger.Debug("contact submit completed after dispose, ignored")
		return err
	}
	if err != nil {
		c.logger.Warn("error sending contact message", "error", err)
		c.status = model.SubmitStatus{Kind: model.StatusFailed, Message: model.ContactErrorText}
		return err
	}
	c.status = model.SubmitStatus{Kind: model.StatusSucceeded, Message: model.ContactSuccessText}
	c.form = model.ContactForm{}
	return nil
}

// Dispose ends the controller's lifetime; a submit completing afterwards
// leaves the state untouched.
func (c *Contact) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()
}
