package partner_test

import (
	"context"
	"testing"

	"dkl/internal/adapters/storage/partner"
	"dkl/internal/adapters/storage/storagetest"
	domain "dkl/internal/domain/partner"
)

func TestSQLiteStore_ListVisible(t *testing.T) {
	db := storagetest.Open(t)
	store := partner.NewSQLiteStore(db)
	ctx := context.Background()

	for _, r := range []domain.Row{
		{ID: "gemeente", Name: "Gemeente Apeldoorn", Tier: domain.TierPartner, Visible: true, OrderNumber: 3},
		{ID: "liliane", Name: "Liliane Fonds", Tier: domain.TierHoofd, Since: "2024", Visible: true, OrderNumber: 1,
			Website: storagetest.Ptr("https://www.lilianefonds.nl")},
		{ID: "hidden", Name: "Oud-partner", Tier: domain.TierSupport, Visible: false, OrderNumber: 0},
	} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s): %v", r.ID, err)
		}
	}

	got, err := store.ListVisible(ctx)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(got) != 2 || got[0].ID != "liliane" || got[1].ID != "gemeente" {
		t.Fatalf("ListVisible = %+v", got)
	}
	if got[0].Website == nil || *got[0].Website != "https://www.lilianefonds.nl" || got[0].Since != "2024" {
		t.Errorf("liliane = %+v", got[0])
	}
	if got[1].Description != nil || got[1].Logo != nil || got[1].Website != nil {
		t.Errorf("NULL columns read back as values: %+v", got[1])
	}
	if n, err := store.Count(ctx); err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}
}
