package ml

import (
	"context"
	"strings"
	"testing"
)

// fakeEmbed produces deterministic unit vectors keyed on topic words so
// similarity ordering is predictable without a real embedding model.
func fakeEmbed(_ context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "battery"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(text, "election"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func TestRelatedIndexSimilar(t *testing.T) {
	index, err := NewRelatedIndex(fakeEmbed)
	if err != nil {
		t.Fatalf("NewRelatedIndex failed: %v", err)
	}

	ctx := context.Background()
	if err := index.Add(ctx, "rec-1", "new battery technology announced", LabelReal, 0.97); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := index.Add(ctx, "rec-2", "election results disputed", LabelFake, 0.95); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	articles, err := index.Similar(ctx, "another battery breakthrough", 5)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(articles) == 0 {
		t.Fatal("Expected at least one related article")
	}

	top := articles[0]
	if top.ID != "rec-1" {
		t.Errorf("Top match ID = %q, want rec-1", top.ID)
	}
	if top.Prediction != "Real" {
		t.Errorf("Top match prediction = %q, want Real", top.Prediction)
	}
	if top.Similarity < 0.99 {
		t.Errorf("Top match similarity = %f, want ~1.0", top.Similarity)
	}
}

func TestRelatedIndexEmpty(t *testing.T) {
	index, err := NewRelatedIndex(fakeEmbed)
	if err != nil {
		t.Fatalf("NewRelatedIndex failed: %v", err)
	}

	articles, err := index.Similar(context.Background(), "anything at all", 5)
	if err != nil {
		t.Fatalf("Similar on empty index failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Empty index returned %d articles, want 0", len(articles))
	}
}
