package render

import (
	"github.com/gsivak487/emrgent-labs/internal/model"
	"github.com/gsivak487/emrgent-labs/internal/view"
)

// DefaultFormAction is where the contact form posts: the page route itself,
// landing back on the contact section.
const DefaultFormAction = "/#contact"

// Page is everything one rendering of the portfolio page needs.
type Page struct {
	Site       model.SiteData
	Load       view.LoadSnapshot
	Contact    view.ContactSnapshot
	Nav        view.NavSnapshot
	FormAction string
}

// Loading reports whether only the loading placeholder is shown.
func (p Page) Loading() bool { return p.Load.State == view.Loading }

// Empty reports whether only the empty placeholder is shown.
func (p Page) Empty() bool {
	return p.Load.State == view.Empty || (p.Load.State == view.Ready && p.Load.Doc == nil)
}

// Doc is the loaded document; nil unless the page is ready.
func (p Page) Doc() *model.ContentDocument {
	if p.Load.State != view.Ready {
		return nil
	}
	return p.Load.Doc
}

// PlaceholderText is the copy of the terminal placeholder, if one is shown.
func (p Page) PlaceholderText() string {
	switch {
	case p.Loading():
		return model.LoadingText
	case p.Empty():
		return model.EmptyText
	}
	return ""
}

// Action is the contact form's target.
func (p Page) Action() string {
	if p.FormAction == "" {
		return DefaultFormAction
	}
	return p.FormAction
}
