package faq_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dkl/internal/domain/content"
	"dkl/internal/domain/faq"
)

func ptr[T any](v T) *T { return &v }

func TestRow_ToView(t *testing.T) {
	row := faq.Row{
		ID: "f1", Category: "Deelname", CategoryIcon: "🏅", Question: "Hoe kan ik meedoen?",
		Answer: "Vul het formulier in.", Icon: "✍", Action: true, ActionText: ptr("Schrijf je nu in"), OrderNumber: 2,
	}
	got, err := row.ToView()
	if err != nil {
		t.Fatalf("ToView: %v", err)
	}
	want := faq.Item{
		ID: "f1", Category: "Deelname", CategoryIcon: "🏅", Question: "Hoe kan ik meedoen?",
		Answer: "Vul het formulier in.", Icon: "✍", Action: true, ActionText: "Schrijf je nu in", OrderNumber: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToView mismatch (-want +got):\n%s", diff)
	}

	for name, bad := range map[string]faq.Row{
		"no question":         {ID: "f2", Category: "Deelname", Answer: "Ja."},
		"no answer":           {ID: "f3", Category: "Deelname", Question: "Kan ik meedoen?"},
		"no category":         {ID: "f4", Question: "Kan ik meedoen?", Answer: "Ja."},
		"action without text": {ID: "f5", Category: "Deelname", Question: "Kan ik meedoen?", Answer: "Ja.", Action: true},
	} {
		if _, err := bad.ToView(); !errors.Is(err, content.ErrInvalidRow) {
			t.Errorf("%s: err = %v, want ErrInvalidRow", name, err)
		}
	}
}

func TestGroup(t *testing.T) {
	got := faq.Group([]faq.Item{
		{ID: "1", Category: "Deelname", CategoryIcon: "🏅"},
		{ID: "2", Category: "Looproutes", CategoryIcon: "🗺"},
		{ID: "3", Category: "Deelname"},
	})
	if len(got) != 2 {
		t.Fatalf("groups = %+v", got)
	}
	if got[0].Title != "Deelname" || got[0].Icon != "🏅" || len(got[0].Questions) != 2 || got[0].Questions[1].ID != "3" {
		t.Errorf("first group = %+v", got[0])
	}
	if got[1].Title != "Looproutes" || got[1].Icon != "🗺" {
		t.Errorf("second group = %+v", got[1])
	}
	if faq.Group(nil) != nil {
		t.Error("Group(nil) should be nil")
	}
}
