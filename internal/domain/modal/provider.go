package modal

import (
	"net/url"

	"dkl/internal/domain/program"
)

// Provider exposes the semantic dialog operations of a page view on top of a
// Registry, plus the auxiliary selection state some dialogs carry.
type Provider struct {
	reg             Registry
	selectedTab     program.TabID
	selectedSponsor string
}

// NewProvider returns a provider with every dialog closed.
func NewProvider() *Provider {
	return &Provider{}
}

// FromQuery builds a provider from ?modal=<id>&tab=<tab>&sponsor=<id>.
// Unknown dialog identifiers are ignored.
// PRE: q may be nil
// POST: Every known modal value in q is open
func FromQuery(q url.Values) *Provider {
	p := NewProvider()
	for _, raw := range q["modal"] {
		id, ok := ParseID(raw)
		if !ok {
			continue
		}
		switch id {
		case Contact:
			p.OpenContact()
		case Program:
			p.OpenProgram(q.Get("tab"))
		case Sponsor:
			p.OpenSponsor(q.Get("sponsor"))
		default:
			p.Open(id)
		}
	}
	return p
}

// IsOpen reports whether id is open.
func (p *Provider) IsOpen(id ID) bool { return p.reg.IsOpen(id) }

// OpenModals returns the open dialog IDs in sorted order.
func (p *Provider) OpenModals() []ID { return p.reg.OpenModals() }

// AnyOpen reports whether at least one dialog is open.
func (p *Provider) AnyOpen() bool { return p.reg.Len() > 0 }

// Open opens a dialog that carries no auxiliary state.
func (p *Provider) Open(id ID) { p.reg.Open(id) }

// Close closes any dialog and clears its auxiliary state.
// PRE: none
// POST: IsOpen(id) == false
func (p *Provider) Close(id ID) {
	switch id {
	case Program:
		p.CloseProgram()
	case Sponsor:
		p.CloseSponsor()
	default:
		p.reg.Close(id)
	}
}

// CloseAll closes every dialog and clears all selections.
func (p *Provider) CloseAll() {
	p.reg.CloseAll()
	p.selectedTab = ""
	p.selectedSponsor = ""
}

// OpenContact opens the contact dialog. The program dialog is closed first so
// the two never stack.
// PRE: none
// POST: IsOpen(Contact) && !IsOpen(Program)
func (p *Provider) OpenContact() {
	p.CloseProgram()
	p.reg.Open(Contact)
}

// CloseContact closes the contact dialog.
func (p *Provider) CloseContact() { p.reg.Close(Contact) }

// OpenDonate opens the donation dialog.
func (p *Provider) OpenDonate() { p.reg.Open(Donate) }

// CloseDonate closes the donation dialog.
func (p *Provider) CloseDonate() { p.reg.Close(Donate) }

// OpenRegister opens the registration dialog.
func (p *Provider) OpenRegister() { p.reg.Open(Register) }

// CloseRegister closes the registration dialog.
func (p *Provider) CloseRegister() { p.reg.Close(Register) }

// OpenPrivacy opens the privacy statement dialog.
func (p *Provider) OpenPrivacy() { p.reg.Open(Privacy) }

// OpenTerms opens the terms and conditions dialog.
func (p *Provider) OpenTerms() { p.reg.Open(Terms) }

// OpenProgram opens the program dialog on the requested tab. An empty or
// unknown tab selects the first tab.
// PRE: none
// POST: IsOpen(Program) and SelectedTab() is a valid tab
func (p *Provider) OpenProgram(tab string) {
	if t, ok := program.ParseTab(tab); ok {
		p.selectedTab = t
	} else {
		p.selectedTab = program.DefaultTab()
	}
	p.reg.Open(Program)
}

// CloseProgram closes the program dialog and forgets the selected tab.
func (p *Provider) CloseProgram() {
	p.reg.Close(Program)
	p.selectedTab = ""
}

// SelectedTab returns the program tab to show, defaulting to the first tab.
func (p *Provider) SelectedTab() program.TabID {
	if p.selectedTab == "" {
		return program.DefaultTab()
	}
	return p.selectedTab
}

// OpenSponsor opens the sponsor dialog for sponsorID.
// PRE: none
// POST: IsOpen(Sponsor) and SelectedSponsor() == sponsorID
func (p *Provider) OpenSponsor(sponsorID string) {
	p.selectedSponsor = sponsorID
	p.reg.Open(Sponsor)
}

// CloseSponsor closes the sponsor dialog and clears the selection.
// PRE: none
// POST: !IsOpen(Sponsor) and SelectedSponsor() == ""
func (p *Provider) CloseSponsor() {
	p.reg.Close(Sponsor)
	p.selectedSponsor = ""
}

// SelectedSponsor returns the sponsor shown in the sponsor dialog, if any.
func (p *Provider) SelectedSponsor() string { return p.selectedSponsor }
