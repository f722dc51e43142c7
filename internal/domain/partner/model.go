// Package partner models the organisations that co-host the walk.
package partner

import (
	"time"

	"dkl/internal/domain/content"
)

// Tier values used on the site. Unknown tiers are shown as-is.
const (
	TierHoofd   = "hoofdpartner"
	TierPartner = "partner"
	TierSupport = "ondersteuner"
)

// Row is a partners record as stored.
type Row struct {
	ID          string
	Name        string
	Description *string
	Logo        *string
	Website     *string
	Tier        string
	Since       string
	Visible     bool
	OrderNumber int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Partner is the view model served to pages and the JSON API.
type Partner struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Website     string `json:"website"`
	Tier        string `json:"tier"`
	Since       string `json:"since"`
	Visible     bool   `json:"visible"`
	OrderNumber int    `json:"orderNumber"`
}

// ToView checks the row shape and maps it to a Partner.
// PRE: none
// POST: Returns an ErrInvalidRow-wrapping error when the row cannot be shown
func (r Row) ToView() (Partner, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Partner{}, err
	}
	if err := content.RequireText("name", r.Name); err != nil {
		return Partner{}, err
	}
	logo, website := content.Text(r.Logo), content.Text(r.Website)
	if err := content.CheckURL("logo", logo, false); err != nil {
		return Partner{}, err
	}
	if err := content.CheckURL("website", website, false); err != nil {
		return Partner{}, err
	}
	if err := content.CheckOrder("order_number", r.OrderNumber); err != nil {
		return Partner{}, err
	}
	return Partner{
		ID:          r.ID,
		Name:        r.Name,
		Description: content.Text(r.Description),
		Logo:        logo,
		Website:     website,
		Tier:        r.Tier,
		Since:       r.Since,
		Visible:     r.Visible,
		OrderNumber: r.OrderNumber,
	}, nil
}

// TierGroup is the partners of one tier, in display order.
type TierGroup struct {
	Tier     string    `json:"tier"`
	Partners []Partner `json:"partners"`
}

// GroupByTier groups partners by tier in first-seen order.
func GroupByTier(partners []Partner) []TierGroup {
	var groups []TierGroup
	index := make(map[string]int)
	for _, p := range partners {
		i, ok := index[p.Tier]
		if !ok {
			i = len(groups)
			index[p.Tier] = i
			groups = append(groups, TierGroup{Tier: p.Tier})
		}
		groups[i].Partners = append(groups[i].Partners, p)
	}
	return groups
}
