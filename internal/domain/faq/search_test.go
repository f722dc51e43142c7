package faq_test

import (
	"strings"
	"testing"

	"dkl/internal/domain/faq"
)

var items = []faq.Item{
	{ID: "1", Category: "Over het evenement", Question: "Wanneer is De Koninklijke Loop?", Answer: "Op zaterdag 17 mei 2025."},
	{ID: "2", Category: "Over het evenement", Question: "Is de route rolstoelvriendelijk?", Answer: "Ja, de Koninklijke Weg is rolstoelvriendelijk."},
	{ID: "3", Category: "Deelname", Question: "Hoe kan ik meedoen?", Answer: "Vul het formulier in.", Action: true, ActionText: "Schrijf je nu in"},
	{ID: "4", Category: "Deelname", Question: "Moet je betalen om mee te doen?", Answer: "Deelname is gratis."},
	{ID: "5", Category: "Looproutes", Question: "Welke afstanden zijn er?", Answer: "15, 10, 6 of 2,5 km."},
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Wanneer is De Loop?  ": "wanneer is de loop",
		"Café Ëindpunt!":          "cafe eindpunt",
		"2,5 km":                  "25 km",
		"???":                     "",
	}
	for in, want := range tests {
		if got := faq.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		question string
		want     float64
	}{
		{"exact text", "Hoe kan ik meedoen?", "Hoe kan ik meedoen?", 1},
		{"equal after normalising", "hoe kan ik MEEDOEN", "Hoe kan ik meedoen?", 1},
		{"query inside question", "betalen om mee te doen", "Moet je betalen om mee te doen?", 0.9},
		{"all keywords found", "rolstoelvriendelijk route", "Is de route rolstoelvriendelijk?", 1},
		{"half the keywords", "route parkeren", "Is de route rolstoelvriendelijk?", 0.5},
		{"stopwords only", "de het een", "Welke afstanden zijn er?", 0},
		{"punctuation only", "?!", "Welke afstanden zijn er?", 0},
		{"partial words count", "afstand welke", "Welke afstanden zijn er?", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := faq.Similarity(tt.query, tt.question); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.query, tt.question, got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantID    string
		wantOK    bool
		confident bool
		wantHint  string
	}{
		{name: "suggestion chip", query: "Hoe kan ik meedoen?", wantID: "3", wantOK: true, confident: true, wantHint: "faq_deelname"},
		{name: "keywords", query: "welke afstanden kan ik lopen", wantID: "5", wantOK: true, confident: false, wantHint: "faq_looproutes"},
		{name: "accents ignored", query: "is de route rolstoelvriëndelijk", wantID: "2", wantOK: true, confident: true, wantHint: "faq_over_het_evenement"},
		{name: "blank", query: "   ", wantOK: false},
		{name: "nothing relevant", query: "parkeergarage tarieven", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := faq.Search(items, tt.query)
			if ok != tt.wantOK {
				t.Fatalf("Search(%q) ok = %v, want %v (match %+v)", tt.query, ok, tt.wantOK, m)
			}
			if !ok {
				return
			}
			if m.Item.ID != tt.wantID {
				t.Errorf("item = %s, want %s", m.Item.ID, tt.wantID)
			}
			if m.Confident() != tt.confident {
				t.Errorf("confidence %v, confident = %v, want %v", m.Confidence, m.Confident(), tt.confident)
			}
			if m.ContextHint != tt.wantHint {
				t.Errorf("hint = %q, want %q", m.ContextHint, tt.wantHint)
			}
		})
	}
}

func TestSearch_TieGoesToEarlierItem(t *testing.T) {
	dup := []faq.Item{
		{ID: "a", Category: "Deelname", Question: "Moet je betalen om mee te doen?"},
		{ID: "b", Category: "Deelname", Question: "Moet je betalen om mee te doen met DKL 25?"},
	}
	m, ok := faq.Search(dup, "betalen")
	if !ok || m.Item.ID != "a" {
		t.Fatalf("Search = %+v, %v; want item a", m, ok)
	}
}

func TestReply(t *testing.T) {
	action := faq.Match{Item: items[2], Confidence: 1}
	if got := faq.Reply(action, true); got != "Vul het formulier in.\n\nKlik hier om: Schrijf je nu in" {
		t.Errorf("confident reply = %q", got)
	}

	hedged := faq.Reply(faq.Match{Item: items[4], Confidence: 0.5}, true)
	if !strings.HasPrefix(hedged, faq.ReplyHedge) || !strings.HasSuffix(hedged, faq.ReplyRephrase) {
		t.Errorf("hedged reply = %q", hedged)
	}
	if !strings.Contains(hedged, items[4].Answer) {
		t.Errorf("hedged reply lacks the answer: %q", hedged)
	}

	if got := faq.Reply(faq.Match{}, false); got != faq.ReplyNoMatch {
		t.Errorf("no-match reply = %q", got)
	}
}
