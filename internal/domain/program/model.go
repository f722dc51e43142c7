// Package program models the event-day schedule shown in the program dialog.
package program

import (
	"regexp"
	"strings"
	"time"

	"dkl/internal/domain/content"
)

// Row is a program_schedule record as stored.
type Row struct {
	ID               string
	Time             string
	EventDescription string
	Category         *string
	IconName         *string
	Latitude         *float64
	Longitude        *float64
	OrderNumber      int
	Visible          bool
	CreatedAt        time.Time
}

// Location is the map position of a schedule item.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Item is a schedule entry as shown to visitors.
type Item struct {
	ID               string    `json:"id"`
	Time             string    `json:"time"`
	EventDescription string    `json:"eventDescription"`
	Category         string    `json:"category"`
	IconName         string    `json:"iconName"`
	Location         *Location `json:"location,omitempty"`
	OrderNumber      int       `json:"orderNumber"`
	Visible          bool      `json:"visible"`
}

// ToView checks the row shape and maps it to an Item.
// PRE: none
// POST: Returns an ErrInvalidRow-wrapping error when the row cannot be shown
func (r Row) ToView() (Item, error) {
	if err := content.RequireText("id", r.ID); err != nil {
		return Item{}, err
	}
	if err := content.RequireText("time", r.Time); err != nil {
		return Item{}, err
	}
	if err := content.RequireText("event_description", r.EventDescription); err != nil {
		return Item{}, err
	}
	if err := content.CheckOrder("order_number", r.OrderNumber); err != nil {
		return Item{}, err
	}
	it := Item{
		ID:               r.ID,
		Time:             r.Time,
		EventDescription: r.EventDescription,
		Category:         content.Text(r.Category),
		IconName:         content.Text(r.IconName),
		OrderNumber:      r.OrderNumber,
		Visible:          r.Visible,
	}
	if r.Latitude != nil && r.Longitude != nil {
		if *r.Latitude < -90 || *r.Latitude > 90 || *r.Longitude < -180 || *r.Longitude > 180 {
			return Item{}, content.Invalid("location", "is out of range")
		}
		it.Location = &Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return it, nil
}

// TabID identifies a program dialog tab.
type TabID string

// Tab is one filter tab of the program dialog.
type Tab struct {
	ID    TabID
	Label string
	match *regexp.Regexp // nil matches everything
}

// Tabs in display order. The first tab is the default.
var Tabs = []Tab{
	{ID: "start-finish-feest", Label: "Start/Finish/Feest", match: regexp.MustCompile(`(?i)\b(start|finish|feest|aanvang|vertrek|aankomst|inhuldiging)\b`)},
	{ID: "15km", Label: "15 km", match: regexp.MustCompile(`(?i)\b15\s?km\b`)},
	{ID: "10km", Label: "10 km", match: regexp.MustCompile(`(?i)\b10\s?km\b`)},
	{ID: "6km", Label: "6 km", match: regexp.MustCompile(`(?i)\b6\s?km\b`)},
	{ID: "2.5km", Label: "2.5 km", match: regexp.MustCompile(`(?i)\b2[.,]5\s?km\b`)},
	{ID: "alles", Label: "Alles"},
}

// DefaultTab returns the first tab.
func DefaultTab() TabID {
	return Tabs[0].ID
}

// ParseTab resolves a tab by ID or label, case-insensitively.
func ParseTab(s string) (TabID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, t := range Tabs {
		if strings.EqualFold(s, string(t.ID)) || strings.EqualFold(s, t.Label) {
			return t.ID, true
		}
	}
	return "", false
}

// LookupTab returns the tab for id.
func LookupTab(id TabID) (Tab, bool) {
	for _, t := range Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// Matches reports whether item belongs on the tab.
func (t Tab) Matches(it Item) bool {
	if t.match == nil {
		return true
	}
	return t.match.MatchString(it.EventDescription)
}

// FilterByTab returns the items shown on tab, preserving order.
// An unknown tab shows everything.
func FilterByTab(items []Item, tab TabID) []Item {
	t, ok := LookupTab(tab)
	if !ok {
		return content.Keep(items, func(Item) bool { return true })
	}
	return content.Keep(items, t.Matches)
}

// CategoryGroup is a run of items sharing a category.
type CategoryGroup struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// GroupByCategory groups items by category in first-seen order.
// Items without a category go to "Overig".
func GroupByCategory(items []Item) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = "Overig"
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
