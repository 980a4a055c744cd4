package ml

// classifier.go - Classifier lifecycle manager
//
// Owns the one-time loading of the ONNX text-classification model via
// Hugot and serves inference for the lifetime of the process. Loading is
// attempted exactly once at startup; on failure the process keeps running
// in degraded mode and every inference call fails fast with ErrNotLoaded.

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// warmupText is run through the model once after loading to initialize
// lazy layers before the first real request pays for it.
const warmupText = "This is a warmup sentence to initialize the model."

// ClassifierConfig configures the classifier lifecycle manager.
type ClassifierConfig struct {
	ModelPath       string
	ArtifactBaseURL string
	ModelRepo       string
	ModelVersion    string
	OnnxLibraryPath string
	AutoDownload    bool
	Timeout         time.Duration
}

// DefaultClassifierConfig returns a configuration pointing at the
// default artifact locations.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ModelPath:       DefaultModelPath,
		ArtifactBaseURL: DefaultArtifactBaseURL,
		ModelRepo:       DefaultModelRepo,
		ModelVersion:    "fake-news-bert-v1",
		OnnxLibraryPath: getDefaultOnnxPath(),
		AutoDownload:    true,
		Timeout:         30 * time.Second,
	}
}

// Classifier wraps the Hugot session and text-classification pipeline.
// After a successful Load the pipeline is shared read-only by all
// request goroutines; Hugot pipelines are safe for concurrent RunPipeline
// calls, so inference takes no per-request lock.
type Classifier struct {
	config   ClassifierConfig
	mu       sync.Mutex // guards Load/Close transitions only
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	loaded   atomic.Bool
}

// NewClassifier creates an unloaded classifier handle. Call Load once at
// startup before serving requests.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.ModelPath == "" {
		cfg.ModelPath = DefaultModelPath
	}
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = "fake-news-bert-v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Classifier{config: cfg}
}

// Load acquires model artifacts and materializes the inference pipeline.
// Returns false on failure, leaving the handle permanently NotReady for
// this process; there is no automatic retry.
func (c *Classifier) Load() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded.Load() {
		return true
	}

	if !ModelExists(c.config.ModelPath) {
		if !c.config.AutoDownload {
			log.Printf("Classifier not found at %s and auto-download is disabled", c.config.ModelPath)
			return false
		}
		if err := EnsureModelDownloaded(c.config.ArtifactBaseURL, c.config.ModelRepo, c.config.ModelPath); err != nil {
			log.Printf("Classifier download failed: %v", err)
			return false
		}
	}

	session, err := c.createSession()
	if err != nil {
		log.Printf("Failed to create inference session: %v", err)
		return false
	}

	config := hugot.TextClassificationConfig{
		ModelPath: c.config.ModelPath,
		Name:      "fake-news-classifier",
	}

	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		log.Printf("Failed to create classification pipeline: %v", err)
		_ = session.Destroy()
		return false
	}

	c.session = session
	c.pipeline = pipeline

	c.warmup()

	c.loaded.Store(true)
	log.Printf("Classifier loaded (model: %s, version: %s)", c.config.ModelPath, c.config.ModelVersion)
	return true
}

// createSession prefers the ONNX Runtime backend and falls back to the
// pure Go backend when the runtime library is unavailable.
func (c *Classifier) createSession() (*hugot.Session, error) {
	if c.config.OnnxLibraryPath != "" {
		opts := []options.WithOption{
			options.WithOnnxLibraryPath(c.config.OnnxLibraryPath),
		}
		session, err := hugot.NewORTSession(opts...)
		if err == nil {
			log.Printf("Classifier using ONNX Runtime backend")
			return session, nil
		}
		log.Printf("ONNX Runtime unavailable, falling back to Go backend: %v", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create Go session: %w", err)
	}
	log.Printf("Classifier using pure Go backend (slower, consider installing ONNX Runtime)")
	return session, nil
}

// warmup runs one throwaway inference. Failure is non-critical.
func (c *Classifier) warmup() {
	if _, err := c.pipeline.RunPipeline([]string{warmupText}); err != nil {
		log.Printf("Warmup inference failed (non-critical): %v", err)
		return
	}
	log.Printf("Warmup complete")
}

// IsLoaded reports whether the classifier is ready for inference. Cheap
// and lock-free; consulted before every inference call.
func (c *Classifier) IsLoaded() bool {
	return c.loaded.Load()
}

// ModelVersion returns the configured model version tag.
func (c *Classifier) ModelVersion() string {
	return c.config.ModelVersion
}

// Infer runs the model on cleaned text and returns the argmax class with
// its probability. Fails with ErrNotLoaded before a successful Load.
func (c *Classifier) Infer(cleaned string) (RawInference, error) {
	if !c.loaded.Load() {
		return RawInference{}, ErrNotLoaded
	}

	out, err := c.pipeline.RunPipeline([]string{cleaned})
	if err != nil {
		return RawInference{}, fmt.Errorf("inference failed: %w", err)
	}
	if len(out.ClassificationOutputs) == 0 || len(out.ClassificationOutputs[0]) == 0 {
		return RawInference{}, fmt.Errorf("inference returned no classification output")
	}

	top := out.ClassificationOutputs[0][0]
	return RawInference{
		Label:      mapModelLabel(top.Label),
		Confidence: float64(top.Score),
	}, nil
}

// Close releases the inference session.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded.Store(false)
	if c.session != nil {
		return c.session.Destroy()
	}
	return nil
}

// mapModelLabel maps the model's emitted label to Fake/Real. The
// fine-tuned checkpoint uses the generic LABEL_0/LABEL_1 names with the
// fixed mapping 0=Fake, 1=Real; exports with semantic names are accepted
// too.
func mapModelLabel(label string) Label {
	switch strings.ToUpper(label) {
	case "LABEL_0", "FAKE":
		return LabelFake
	case "LABEL_1", "REAL":
		return LabelReal
	default:
		log.Printf("Unknown model label %q, treating as Fake", label)
		return LabelFake
	}
}

// getDefaultOnnxPath returns the first ONNX Runtime shared library found
// in the usual install locations, or "" to use the pure Go backend.
func getDefaultOnnxPath() string {
	if envPath := os.Getenv("TRUTHSCAN_ONNX_LIBRARY_PATH"); envPath != "" {
		return envPath
	}
	candidates := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/lib64/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.dylib",
		"/opt/homebrew/lib/libonnxruntime.dylib",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
