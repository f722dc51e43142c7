// Package ctacard models the call-to-action cards on the home page.
package ctacard

import (
	"time"

	"dkl/internal/domain/content"
)

// Row is a cta_cards record as stored.
type Row struct {
	ID           string
	Title        string
	Subtitle     *string
	ButtonText   string
	ButtonLink   string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Card is the view model.
type Card struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	ButtonText   string `json:"buttonText"`
	ButtonLink   string `json:"buttonLink"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

// ToView checks the row shape and maps it to a Card. Button links may be
// site paths, absolute URLs or dialog anchors such as "#contact".
func (r Row) ToView() (Card, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Card{}, err
	}
	if err := content.RequireText("title", r.Title); err != nil {
		return Card{}, err
	}
	if err := content.RequireText("button_text", r.ButtonText); err != nil {
		return Card{}, err
	}
	if len(r.ButtonLink) < 2 || r.ButtonLink[0] != '#' {
		if err := content.CheckURL("button_link", r.ButtonLink, true); err != nil {
			return Card{}, err
		}
	}
	if err := content.CheckOrder("display_order", r.DisplayOrder); err != nil {
		return Card{}, err
	}
	return Card{
		ID:           r.ID,
		Title:        r.Title,
		Subtitle:     content.Text(r.Subtitle),
		ButtonText:   r.ButtonText,
		ButtonLink:   r.ButtonLink,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}, nil
}
