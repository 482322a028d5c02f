package model

import "fmt"

// SectionKind enumerates the sections a ContentDocument can carry.
type SectionKind int

const (
	KindHero SectionKind = iota
	KindServices
	KindUsers
	KindDifferentiators
	KindCapabilities
	KindFeatures

	numKinds
)

// Variant selects the layout used to render a section.
type Variant int

const (
	VariantHero Variant = iota
	VariantFeature
)

// KindDescriptor is everything the page needs to know about a kind.
// Anchor is empty for kinds that are not addressable from feature content.
type KindDescriptor struct {
	Key     string
	Anchor  string
	Variant Variant
	Reverse bool
}

// descriptors must hold one entry per kind, in page order.
var descriptors = [numKinds]KindDescriptor{
	KindHero:            {Key: "hero", Variant: VariantHero},
	KindServices:        {Key: "services", Anchor: "services", Variant: VariantFeature},
	KindUsers:           {Key: "users", Anchor: "users", Variant: VariantFeature, Reverse: true},
	KindDifferentiators: {Key: "differentiators", Anchor: "differentiators", Variant: VariantFeature},
	KindCapabilities:    {Key: "capabilities", Anchor: "capabilities", Variant: VariantFeature, Reverse: true},
	KindFeatures:        {Key: "features", Anchor: "features", Variant: VariantFeature},
}

// Kinds returns every kind in page order.
func Kinds() []SectionKind {
	out := make([]SectionKind, 0, numKinds)
	for k := SectionKind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Descriptor returns the static description of k. It panics on a kind
// outside the enumeration.
func (k SectionKind) Descriptor() KindDescriptor {
	if k < 0 || k >= numKinds {
		panic(fmt.Sprintf("model: unknown section kind %d", int(k)))
	}
	return descriptors[k]
}

func (k SectionKind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
	return descriptors[k].Key
}

// ParseKind maps a document key back to its kind.
func ParseKind(key string) (SectionKind, bool) {
	for k, d := range descriptors {
		if d.Key == key {
			return SectionKind(k), true
		}
	}
	return 0, false
}

// AnchorFor maps a section id to the in-page anchor used for it. Ids that
// are not one of the known feature sections map to "", which leaves the
// section without an anchor.
func AnchorFor(id string) string {
	k, ok := ParseKind(id)
	if !ok {
		return ""
	}
	return descriptors[k].Anchor
}
