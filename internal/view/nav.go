package view

import (
	"sync"

	"github.com/gsivak487/emrgent-labs/internal/model"
)

// MenuAnchor is the fragment that opens the mobile menu without scripts.
const MenuAnchor = "menu"

// NavLinks are the in-page links of the navigation bar, in display order.
var NavLinks = []model.Link{
	{Label: "Home", Href: "#hero"},
	{Label: "Services", Href: "#services"},
	{Label: "Users", Href: "#users"},
	{Label: "Technology", Href: "#capabilities"},
	{Label: "Contact", Href: "#contact"},
}

// Nav is the mobile menu: closed or open, closed initially. The desktop
// link list does not depend on it.
type Nav struct {
	mu   sync.Mutex
	open bool
}

// NewNav returns a closed menu.
func NewNav() *Nav { return &Nav{} }

// Toggle flips the menu.
func (n *Nav) Toggle() {
	n.mu.Lock()
	n.open = !n.open
	n.mu.Unlock()
}

// Follow records a click on any navigation link, which always closes the
// menu.
func (n *Nav) Follow(string) {
	n.mu.Lock()
	n.open = false
	n.mu.Unlock()
}

// Open reports whether the mobile menu is expanded.
func (n *Nav) Open() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.open
}

// NavSnapshot is what the navigation bar renders.
type NavSnapshot struct {
	Open  bool
	Links []model.Link
}

// ToggleHref is where the menu button points: following it moves the menu
// to its other state. A menu rendered open is closed by reloading the page
// without the open query.
func (s NavSnapshot) ToggleHref() string {
	if s.Open {
		return "/"
	}
	return "#" + MenuAnchor
}

// LinkHref is the target of a mobile menu link. While the menu is rendered
// open a bare fragment would leave it open, so the link goes through the
// page route instead.
func (s NavSnapshot) LinkHref(href string) string {
	if s.Open {
		return "/" + href
	}
	return href
}

func (n *Nav) Snapshot() NavSnapshot {
	return NavSnapshot{Open: n.Open(), Links: NavLinks}
}
