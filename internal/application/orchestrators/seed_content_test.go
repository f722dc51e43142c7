package orchestrators

import (
	"context"
	"testing"

	"dkl/internal/adapters/storage/ctacard"
	"dkl/internal/adapters/storage/faq"
	"dkl/internal/adapters/storage/partner"
	"dkl/internal/adapters/storage/photo"
	"dkl/internal/adapters/storage/program"
	"dkl/internal/adapters/storage/radio"
	"dkl/internal/adapters/storage/seed"
	"dkl/internal/adapters/storage/socialembed"
	"dkl/internal/adapters/storage/sponsor"
	"dkl/internal/adapters/storage/storagetest"
	"dkl/internal/adapters/storage/titlesection"
	"dkl/internal/adapters/storage/video"
)

func TestExecuteSeedContent_OnlyEmptyTables(t *testing.T) {
	db := storagetest.Open(t)
	deps := SeedContentDeps{
		Partners:     partner.NewSQLiteStore(db),
		Sponsors:     sponsor.NewSQLiteStore(db),
		Videos:       video.NewSQLiteStore(db),
		Program:      program.NewSQLiteStore(db),
		CTACards:     ctacard.NewSQLiteStore(db),
		SocialEmbeds: socialembed.NewSQLiteStore(db),
		Photos:       photo.NewSQLiteStore(db),
		Radio:        radio.NewSQLiteStore(db),
		FAQ:          faq.NewSQLiteStore(db),
		TitleSection: titlesection.NewSQLiteStore(db),
		GenerateID:   sequentialIDs(),
		Now:          fixedNow,
	}
	c, err := seed.Default()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	n, err := ExecuteSeedContent(ctx, c, deps)
	if err != nil {
		t.Fatalf("ExecuteSeedContent: %v", err)
	}
	want := len(c.Partners) + len(c.Sponsors) + len(c.Videos) + len(c.Program) +
		len(c.CTACards) + len(c.SocialEmbeds) + len(c.Photos) + len(c.Radio) + len(c.FAQRows(fixedNow())) + 1
	if n != want {
		t.Errorf("seeded %d rows, want %d", n, want)
	}

	again, err := ExecuteSeedContent(ctx, c, deps)
	if err != nil || again != 0 {
		t.Errorf("second run = %d, %v; want 0, nil", again, err)
	}
	if got, _ := deps.Program.Count(ctx); got != len(c.Program) {
		t.Errorf("program rows = %d, want %d", got, len(c.Program))
	}
	if got, _ := deps.FAQ.Count(ctx); got == 0 {
		t.Error("faq table left empty")
	}
}
