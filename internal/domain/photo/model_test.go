package photo_test

import (
	"testing"
	"time"

	"dkl/internal/domain/photo"
)

func TestRow_ToView(t *testing.T) {
	title := "Finish"
	p, err := photo.Row{ID: "1", URL: "https://res.cloudinary.com/dkl/a.jpg", Title: &title, Visible: true}.ToView()
	if err != nil {
		t.Fatalf("ToView: %v", err)
	}
	if p.ThumbnailURL != p.URL {
		t.Errorf("thumbnail = %q, want fallback to url", p.ThumbnailURL)
	}
	if p.AltText != "Finish" {
		t.Errorf("alt = %q, want title fallback", p.AltText)
	}

	if _, err := (photo.Row{ID: "2"}).ToView(); err == nil {
		t.Error("photo without url accepted")
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)
	list := []photo.Photo{
		{ID: "undated", CreatedAt: base.Add(72 * time.Hour)},
		{ID: "2024", Year: 2024, CreatedAt: base.Add(96 * time.Hour)},
		{ID: "2025-old", Year: 2025, CreatedAt: base},
		{ID: "2025-new", Year: 2025, CreatedAt: base.Add(48 * time.Hour)},
	}
	photo.SortNewestFirst(list)
	want := []string{"2025-new", "2025-old", "2024", "undated"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, id)
		}
	}
}
