package model

// Section is one named block of the portfolio page. Every field is optional;
// the renderer skips whatever is missing.
type Section struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// ContentDocument is the payload served by the backend's portfolio endpoint.
// A nil section pointer means the section is absent.
type ContentDocument struct {
	Hero            *Section `json:"hero,omitempty" yaml:"hero,omitempty"`
	Services        *Section `json:"services,omitempty" yaml:"services,omitempty"`
	Users           *Section `json:"users,omitempty" yaml:"users,omitempty"`
	Differentiators *Section `json:"differentiators,omitempty" yaml:"differentiators,omitempty"`
	Capabilities    *Section `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Features        *Section `json:"features,omitempty" yaml:"features,omitempty"`
}

// Section returns the section stored under kind, or nil when it is absent.
func (d *ContentDocument) Section(kind SectionKind) *Section {
	if d == nil {
		return nil
	}
	switch kind {
	case KindHero:
		return d.Hero
	case KindServices:
		return d.Services
	case KindUsers:
		return d.Users
	case KindDifferentiators:
		return d.Differentiators
	case KindCapabilities:
		return d.Capabilities
	case KindFeatures:
		return d.Features
	}
	return nil
}

// PlacedSection is a feature section together with its layout decision.
type PlacedSection struct {
	Kind    SectionKind
	Data    *Section
	Reverse bool
}

// Anchor is the DOM id of the rendered section. It is derived from the
// section's own id, not from the slot it was loaded into.
func (p PlacedSection) Anchor() string {
	if p.Data == nil {
		return ""
	}
	return AnchorFor(p.Data.ID)
}

// Sections returns the present feature sections in page order. The hero is
// rendered by its own variant and is not included.
func (d *ContentDocument) Sections() []PlacedSection {
	var out []PlacedSection
	for _, kind := range Kinds() {
		desc := kind.Descriptor()
		if desc.Variant != VariantFeature {
			continue
		}
		s := d.Section(kind)
		if s == nil {
			continue
		}
		out = append(out, PlacedSection{Kind: kind, Data: s, Reverse: desc.Reverse})
	}
	return out
}
