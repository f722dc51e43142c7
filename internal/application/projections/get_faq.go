package projections

import (
	"context"
	"fmt"

	domainFAQ "dkl/internal/domain/faq"
)

// FAQAnswer is the assistant's reply to one question. Match is nil when
// nothing scored high enough.
type FAQAnswer struct {
	Query     string           `json:"query"`
	Match     *domainFAQ.Match `json:"match"`
	Confident bool             `json:"confident"`
	Reply     string           `json:"reply"`
}

func listFAQ(ctx context.Context, deps ContentDeps) ([]domainFAQ.Item, error) {
	rows, err := deps.FAQ.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faq: %w", err)
	}
	return toViews("faq_item", rows, func(r domainFAQ.Row) string { return r.ID }, domainFAQ.Row.ToView), nil
}

// QueryFAQ returns the visible questions grouped by category.
// PRE: deps.FAQ is set
// POST: Categories keep the store's order; invalid rows are dropped
func QueryFAQ(ctx context.Context, deps ContentDeps) ([]domainFAQ.Category, error) {
	items, err := listFAQ(ctx, deps)
	if err != nil {
		return nil, err
	}
	groups := domainFAQ.Group(items)
	if groups == nil {
		groups = []domainFAQ.Category{}
	}
	return groups, nil
}

// SearchFAQ answers query from the visible questions.
func SearchFAQ(ctx context.Context, query string, deps ContentDeps) (FAQAnswer, error) {
	items, err := listFAQ(ctx, deps)
	if err != nil {
		return FAQAnswer{}, err
	}
	m, ok := domainFAQ.Search(items, query)
	ans := FAQAnswer{Query: query, Reply: domainFAQ.Reply(m, ok)}
	if ok {
		ans.Match = &m
		ans.Confident = m.Confident()
	}
	return ans, nil
}
