// Package sponsor models the companies that sponsor the walk.
package sponsor

import (
	"time"

	"dkl/internal/domain/content"
)

// Row is a sponsors record as stored. Visible is nullable; NULL means the
// sponsor was never hidden.
type Row struct {
	ID          string
	Name        string
	Description *string
	LogoURL     string
	WebsiteURL  *string
	OrderNumber int
	IsActive    bool
	Visible     *bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Shown reports whether the sponsor belongs on the site.
func (r Row) Shown() bool {
	return r.IsActive && (r.Visible == nil || *r.Visible)
}

// Sponsor is the view model.
type Sponsor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
	WebsiteURL  string `json:"websiteUrl"`
	OrderNumber int    `json:"orderNumber"`
	IsActive    bool   `json:"isActive"`
	Visible     bool   `json:"visible"`
}

// ToView checks the row shape and maps it to a Sponsor. A sponsor without a
// logo cannot be rendered and is rejected.
// PRE: none
// POST: Returns an ErrInvalidRow-wrapping error when the row cannot be shown
func (r Row) ToView() (Sponsor, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Sponsor{}, err
	}
	if err := content.RequireText("name", r.Name); err != nil {
		return Sponsor{}, err
	}
	if err := content.CheckURL("logo_url", r.LogoURL, true); err != nil {
		return Sponsor{}, err
	}
	website := content.Text(r.WebsiteURL)
	if err := content.CheckURL("website_url", website, false); err != nil {
		return Sponsor{}, err
	}
	if err := content.CheckOrder("order_number", r.OrderNumber); err != nil {
		return Sponsor{}, err
	}
	return Sponsor{
		ID:          r.ID,
		Name:        r.Name,
		Description: content.Text(r.Description),
		LogoURL:     r.LogoURL,
		WebsiteURL:  website,
		OrderNumber: r.OrderNumber,
		IsActive:    r.IsActive,
		Visible:     r.Visible == nil || *r.Visible,
	}, nil
}

// Find returns the sponsor with id.
func Find(sponsors []Sponsor, id string) (Sponsor, bool) {
	for _, s := range sponsors {
		if s.ID == id {
			return s, true
		}
	}
	return Sponsor{}, false
}
