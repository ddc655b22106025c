package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"slidecast/internal/deck"
)

func TestBuildDeckFromFlags(t *testing.T) {
	d, err := buildDeck("", "My Lesson", []string{
		"Soil: Feed the soil first.",
		"Water: Morning watering works best.",
	}, "", "teacher", "fullhd")
	if err != nil {
		t.Fatalf("buildDeck failed: %v", err)
	}
	if d.Title != "My Lesson" || len(d.Items) != 2 {
		t.Fatalf("unexpected deck %#v", d)
	}
	if d.Items[0].Title != "Soil" || d.Items[0].Body != "Feed the soil first." {
		t.Fatalf("unexpected first item %#v", d.Items[0])
	}
	if d.Style != deck.StyleTeacher || d.Quality != deck.QualityFullHD {
		t.Fatalf("unexpected style/quality %q/%q", d.Style, d.Quality)
	}
}

func TestBuildDeckFromFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	source := deck.Deck{
		Title:   "File Title",
		Items:   []deck.Item{{Title: "One", Body: "Body"}},
		Style:   deck.StyleProfessional,
		Quality: deck.QualitySD,
	}
	payload, err := json.Marshal(source)
	if err != nil {
		t.Fatalf("marshal deck: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write deck file: %v", err)
	}

	d, err := buildDeck(path, "", nil, "Narrate this instead.", "friendly", "")
	if err != nil {
		t.Fatalf("buildDeck failed: %v", err)
	}
	if d.Title != "File Title" {
		t.Fatalf("file title lost: %q", d.Title)
	}
	if d.Style != deck.StyleFriendly {
		t.Fatalf("flag should override file style, got %q", d.Style)
	}
	if d.Quality != deck.QualitySD {
		t.Fatalf("file quality should survive, got %q", d.Quality)
	}
	if d.NarrationText != "Narrate this instead." {
		t.Fatalf("narration override lost: %q", d.NarrationText)
	}
}

func TestBuildDeckRejectsBadInputs(t *testing.T) {
	if _, err := buildDeck("", "T", []string{"no separator here"}, "", "", ""); err == nil {
		t.Fatal("expected error for item without separator")
	}
	if _, err := buildDeck("", "T", nil, "", "dramatic", ""); err == nil {
		t.Fatal("expected error for unknown style")
	}
	if _, err := buildDeck("", "T", nil, "", "", "8k"); err == nil {
		t.Fatal("expected error for unknown quality")
	}
	if _, err := buildDeck(filepath.Join(t.TempDir(), "missing.json"), "", nil, "", "", ""); err == nil {
		t.Fatal("expected error for missing deck file")
	}
}
