package ml

// embedder.go - Local embedding generation via Hugot/ONNX
//
// Powers the related-articles index. Uses a small sentence-transformer
// (all-MiniLM-L6-v2, ~80MB, 384 dimensions) so lookups stay cheap. The
// embedder is optional: when no embedding model is available the service
// runs without related-article lookups.

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

const (
	// EmbeddingModelMiniLM is a small, fast embedding model
	EmbeddingModelMiniLM = "sentence-transformers/all-MiniLM-L6-v2"

	// DefaultEmbeddingModelPath is the default location for the embedding model
	DefaultEmbeddingModelPath = "./models/all-MiniLM-L6-v2"
)

// Embedder generates text embeddings with a local ONNX model.
type Embedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.RWMutex
	ready    bool
}

// NewEmbedder creates an embedder from the model at modelPath. Returns
// an error when the model directory or session is unusable; callers are
// expected to degrade gracefully rather than abort startup.
func NewEmbedder(modelPath, onnxLibraryPath string) (*Embedder, error) {
	if modelPath == "" {
		modelPath = DefaultEmbeddingModelPath
	}
	if !ModelExists(modelPath) {
		return nil, fmt.Errorf("embedding model not found at %s", modelPath)
	}

	e := &Embedder{}

	session, err := e.createSession(onnxLibraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "article-embedder",
	}

	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	e.session = session
	e.pipeline = pipeline
	e.ready = true
	log.Printf("Embedder initialized (model: %s)", modelPath)
	return e, nil
}

func (e *Embedder) createSession(onnxLibraryPath string) (*hugot.Session, error) {
	if onnxLibraryPath != "" {
		opts := []options.WithOption{
			options.WithOnnxLibraryPath(onnxLibraryPath),
		}
		session, err := hugot.NewORTSession(opts...)
		if err == nil {
			return session, nil
		}
		log.Printf("ONNX Runtime unavailable for embeddings, falling back to Go backend: %v", err)
	}
	return hugot.NewGoSession()
}

// IsReady reports whether the embedder can serve requests.
func (e *Embedder) IsReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Embed generates an embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ready || e.pipeline == nil {
		return nil, fmt.Errorf("embedder not ready")
	}

	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return result.Embeddings[0], nil
}

// EmbeddingFunc adapts the embedder to chromem-go's embedding interface.
func (e *Embedder) EmbeddingFunc() func(ctx context.Context, text string) ([]float32, error) {
	return e.Embed
}

// Close releases the embedding session.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ready = false
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}
