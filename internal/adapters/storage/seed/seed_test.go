package seed_test

import (
	"strings"
	"testing"
	"time"

	"dkl/internal/adapters/storage/seed"
)

// TestDefault_RowsPassShapeChecks verifies every embedded row can be shown.
func TestDefault_RowsPassShapeChecks(t *testing.T) {
	c, err := seed.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	title, ok := c.TitleRow("title", now)
	if !ok {
		t.Fatal("seed has no title section")
	}
	s, err := title.ToView()
	if err != nil {
		t.Fatalf("title ToView: %v", err)
	}
	if len(s.Details) != 3 {
		t.Errorf("title details = %d, want 3", len(s.Details))
	}

	check := func(kind string, n int, errs ...error) {
		t.Helper()
		if n == 0 {
			t.Errorf("%s: no rows", kind)
		}
		for _, err := range errs {
			if err != nil {
				t.Errorf("%s: %v", kind, err)
			}
		}
	}
	var errs []error
	for _, r := range c.PartnerRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("partners", len(c.Partners), errs...)

	errs = nil
	for _, r := range c.SponsorRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("sponsors", len(c.Sponsors), errs...)

	errs = nil
	for _, r := range c.VideoRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("videos", len(c.Videos), errs...)

	errs = nil
	for _, r := range c.ProgramRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("program", len(c.Program), errs...)

	errs = nil
	for _, r := range c.CTACardRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("cta cards", len(c.CTACards), errs...)

	errs = nil
	for _, r := range c.SocialEmbedRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("social embeds", len(c.SocialEmbeds), errs...)

	errs = nil
	for _, r := range c.PhotoRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("photos", len(c.Photos), errs...)

	errs = nil
	for _, r := range c.RadioRows(now) {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("radio recordings", len(c.Radio), errs...)

	errs = nil
	faqRows := c.FAQRows(now)
	for _, r := range faqRows {
		_, err := r.ToView()
		errs = append(errs, err)
	}
	check("faq", len(faqRows), errs...)
}

// TestDefault_QuotedNames verifies names starting with an apostrophe
// survive the YAML quoting.
func TestDefault_QuotedNames(t *testing.T) {
	c, err := seed.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	for _, p := range c.Partners {
		if p.Name == "'s Heeren Loo" {
			return
		}
	}
	t.Errorf("partner 's Heeren Loo missing from %+v", c.Partners)
}

func TestFAQRows_FlattenInFileOrder(t *testing.T) {
	c, err := seed.Parse([]byte(`faq:
  - title: Deelname
    icon: x
    questions:
      - {question: "Hoe doe ik mee?", answer: "Via het formulier.", action_text: "Schrijf je nu in"}
      - {question: "Is het gratis?", answer: "Ja."}
  - title: Looproutes
    questions:
      - {question: "Welke afstanden?", answer: "15 of 10 km."}
`))
	if err != nil {
		t.Fatal(err)
	}
	rows := c.FAQRows(time.Now())
	if len(rows) != 3 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].ID != "faq-1-1" || !rows[0].Action || rows[0].CategoryIcon != "x" {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].Action || rows[1].ActionText != nil || rows[1].OrderNumber != 1 {
		t.Errorf("second row = %+v", rows[1])
	}
	if rows[2].ID != "faq-2-1" || rows[2].Category != "Looproutes" || rows[2].OrderNumber != 2 {
		t.Errorf("third row = %+v", rows[2])
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := seed.Parse([]byte("partners:\n  - id: x\n    naam: typo\n"))
	if err == nil || !strings.Contains(err.Error(), "naam") {
		t.Fatalf("err = %v, want unknown field error", err)
	}
}

func TestPhotoRows_FileOrderIsNewestFirst(t *testing.T) {
	c, err := seed.Parse([]byte("photos:\n  - {id: a, url: /a.jpg, year: 2025}\n  - {id: b, url: /b.jpg}\n"))
	if err != nil {
		t.Fatal(err)
	}
	rows := c.PhotoRows(time.Now())
	if !rows[0].CreatedAt.After(rows[1].CreatedAt) {
		t.Error("first photo should be newer")
	}
	if rows[0].Year == nil || *rows[0].Year != 2025 || rows[1].Year != nil {
		t.Errorf("years = %v, %v", rows[0].Year, rows[1].Year)
	}
}
