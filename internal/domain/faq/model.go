// Package faq models the questions behind the site's help assistant.
package faq

import (
	"time"

	"dkl/internal/domain/content"
)

// Row is a faq_items record as stored.
type Row struct {
	ID           string
	Category     string
	CategoryIcon string
	Question     string
	Answer       string
	Icon         string
	Action       bool
	ActionText   *string
	OrderNumber  int
	Visible      bool
	CreatedAt    time.Time
}

// Item is one question with its answer. Action marks answers that lead to
// the registration form.
type Item struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	CategoryIcon string `json:"-"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Icon         string `json:"icon"`
	Action       bool   `json:"action,omitempty"`
	ActionText   string `json:"actionText,omitempty"`
	OrderNumber  int    `json:"orderNumber"`
}

// Category is a titled group of items.
type Category struct {
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Questions []Item `json:"questions"`
}

// ToView checks the row and maps it to an Item.
func (r Row) ToView() (Item, error) {
	for _, f := range []struct{ name, v string }{
		{"id", r.ID}, {"category", r.Category}, {"question", r.Question}, {"answer", r.Answer},
	} {
		if err := content.RequireText(f.name, f.v); err != nil {
			return Item{}, err
		}
	}
	if err := content.CheckOrder("order_number", r.OrderNumber); err != nil {
		return Item{}, err
	}
	it := Item{
		ID:           r.ID,
		Category:     r.Category,
		Question:     r.Question,
		Answer:       r.Answer,
		Icon:         r.Icon,
		Action:       r.Action,
		ActionText:   content.Text(r.ActionText),
		OrderNumber:  r.OrderNumber,
		CategoryIcon: r.CategoryIcon,
	}
	if it.Action && it.ActionText == "" {
		return Item{}, content.Invalid("action_text", "is empty for an action item")
	}
	return it, nil
}

// Group collects items by category. Categories keep the order in which they
// first appear; items keep their input order.
func Group(items []Item) []Category {
	var out []Category
	idx := make(map[string]int)
	for _, it := range items {
		i, ok := idx[it.Category]
		if !ok {
			i = len(out)
			idx[it.Category] = i
			out = append(out, Category{Title: it.Category, Icon: it.CategoryIcon})
		}
		if out[i].Icon == "" {
			out[i].Icon = it.CategoryIcon
		}
		out[i].Questions = append(out[i].Questions, it)
	}
	return out
}
