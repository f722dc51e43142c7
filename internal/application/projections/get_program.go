package projections

import (
	"context"
	"fmt"

	"dkl/internal/domain/content"
	domainProgram "dkl/internal/domain/program"
)

// ProgramQuery selects the program dialog tab.
type ProgramQuery struct {
	Tab string // empty or unknown selects the first tab
}

// ProgramTab is a tab as rendered, with its selection state.
type ProgramTab struct {
	ID       domainProgram.TabID `json:"id"`
	Label    string              `json:"label"`
	Selected bool                `json:"selected"`
}

// ProgramResult is the program dialog content for one tab.
type ProgramResult struct {
	Tab    domainProgram.TabID           `json:"tab"`
	Tabs   []ProgramTab                  `json:"tabs"`
	Items  []domainProgram.Item          `json:"items"`
	Groups []domainProgram.CategoryGroup `json:"groups"`
}

// QueryProgram returns visible schedule items on the requested tab.
// PRE: deps.Program is set
// POST: Items are ordered by order_number; Tab is always a known tab
func QueryProgram(ctx context.Context, query ProgramQuery, deps ContentDeps) (ProgramResult, error) {
	tab, ok := domainProgram.ParseTab(query.Tab)
	if !ok {
		tab = domainProgram.DefaultTab()
	}

	rows, err := deps.Program.ListVisible(ctx)
	if err != nil {
		return ProgramResult{}, fmt.Errorf("list program: %w", err)
	}
	rows = content.Keep(rows, func(r domainProgram.Row) bool { return r.Visible })
	items := toViews("program_item", rows, func(r domainProgram.Row) string { return r.ID }, domainProgram.Row.ToView)
	content.SortByKey(items, func(it domainProgram.Item) int { return it.OrderNumber })
	items = domainProgram.FilterByTab(items, tab)

	tabs := make([]ProgramTab, len(domainProgram.Tabs))
	for i, t := range domainProgram.Tabs {
		tabs[i] = ProgramTab{ID: t.ID, Label: t.Label, Selected: t.ID == tab}
	}
	return ProgramResult{
		Tab:    tab,
		Tabs:   tabs,
		Items:  items,
		Groups: domainProgram.GroupByCategory(items),
	}, nil
}
