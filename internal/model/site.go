package model

import "time"

// Link is an anchor in the navigation bar or footer.
type Link struct {
	Label string
	Href  string
}

// FooterColumn is one titled list of links in the footer.
type FooterColumn struct {
	Title string
	Links []Link
}

// SiteData is the chrome around the portfolio content: branding and footer.
// It does not come from the backend.
type SiteData struct {
	Brand         string
	LogoURL       string
	Tagline       string
	FooterColumns []FooterColumn
	Year          int
}

// DefaultLogoURL is the brand avatar shown in the navigation bar and footer.
const DefaultLogoURL = "https://avatars.githubusercontent.com/in/1201222?s=120&u=2686cf91179bbafbc7a71bfbc43004cf9ae1acea&v=4"

// DefaultSite returns the chrome of the Emergent Labs site.
func DefaultSite() SiteData {
	return SiteData{
		Brand:   "Emergent Labs",
		LogoURL: DefaultLogoURL,
		Tagline: "Building the future of application development with AI-powered tools and platforms.",
		FooterColumns: []FooterColumn{
			{Title: "Platform", Links: []Link{
				{Label: "Documentation", Href: "#"},
				{Label: "API Reference", Href: "#"},
				{Label: "Pricing", Href: "#"},
				{Label: "Support", Href: "#"},
			}},
			{Title: "Company", Links: []Link{
				{Label: "About", Href: "#"},
				{Label: "Blog", Href: "#"},
				{Label: "Careers", Href: "#"},
				{Label: "Contact", Href: "#contact"},
			}},
		},
		Year: time.Now().Year(),
	}
}
