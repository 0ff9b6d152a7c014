package links

import "secure.links/internal/models"

// View is a link as shown to the dashboard, with the countdown pre-formatted.
type View struct {
	models.SecureLink
	Remaining string `json:"remaining"`
}

func NewView(link models.SecureLink) View {
	return View{SecureLink: link, Remaining: FormatDuration(link.Remaining)}
}

func NewViews(links []models.SecureLink) []View {
	out := make([]View, len(links))
	for i, link := range links {
		out[i] = NewView(link)
	}
	return out
}
