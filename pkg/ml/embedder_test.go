package ml

import (
	"context"
	"testing"
)

func TestEmbedderZeroValueNotReady(t *testing.T) {
	var e Embedder

	if e.IsReady() {
		t.Error("Zero-value embedder reports ready")
	}
	if _, err := e.Embed(context.Background(), "some text"); err == nil {
		t.Error("Embed on an unready embedder should fail")
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close on an unready embedder failed: %v", err)
	}
}
