// Package modal tracks which dialogs of a page view are open.
package modal

import (
	"slices"
	"strings"
)

// ID identifies a dialog.
type ID string

// Dialog identifiers used by the site.
const (
	Contact  ID = "contact"
	Donate   ID = "donate"
	Register ID = "register"
	Partner  ID = "partner"
	Sponsor  ID = "sponsor"
	Privacy  ID = "privacy"
	Terms    ID = "terms"
	Program  ID = "program"
)

// All lists every known dialog identifier.
var All = []ID{Contact, Donate, Register, Partner, Sponsor, Privacy, Terms, Program}

// ParseID resolves a query-string value to a known dialog identifier.
func ParseID(s string) (ID, bool) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(All, id) {
		return id, true
	}
	return "", false
}

// Registry maps dialog IDs to their open flag. A missing key means closed.
// The zero value is an empty registry. A Registry belongs to a single view
// and is not safe for concurrent use.
type Registry struct {
	open map[ID]bool
}

// IsOpen reports whether id is open.
// PRE: none
// POST: Returns false for unknown or closed IDs
func (r *Registry) IsOpen(id ID) bool {
	return r.open[id]
}

// Open marks id as open. Opening an open dialog is a no-op.
// PRE: none
// POST: IsOpen(id) == true
func (r *Registry) Open(id ID) {
	if r.open == nil {
		r.open = make(map[ID]bool)
	}
	r.open[id] = true
}

// Close removes id from the registry. Closing a closed dialog is a no-op.
// PRE: none
// POST: IsOpen(id) == false and id is absent from the map
func (r *Registry) Close(id ID) {
	delete(r.open, id)
}

// Toggle flips id between open and closed.
// PRE: none
// POST: IsOpen(id) is the negation of its previous value
func (r *Registry) Toggle(id ID) {
	if r.IsOpen(id) {
		r.Close(id)
		return
	}
	r.Open(id)
}

// CloseAll empties the registry.
// PRE: none
// POST: OpenModals() is empty
func (r *Registry) CloseAll() {
	clear(r.open)
}

// OpenModals returns the open dialog IDs in sorted order.
func (r *Registry) OpenModals() []ID {
	ids := make([]ID, 0, len(r.open))
	for id := range r.open {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of open dialogs.
func (r *Registry) Len() int {
	return len(r.open)
}
