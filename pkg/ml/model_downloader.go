package ml

// model_downloader.go - Startup-time acquisition of classifier artifacts
//
// The classifier is distributed separately from the binary. On startup we
// check the local model directory and, on a miss, fetch the minimal file
// set needed for ONNX inference from a static artifact store (HuggingFace
// repo layout by default, any object store serving the same paths works).

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// DefaultModelPath is the default location for the classifier artifacts
const DefaultModelPath = "./models/fake-news-bert"

// DefaultModelRepo is the HuggingFace repository holding the fine-tuned
// fake-news classifier exported to ONNX
const DefaultModelRepo = "truthscan/fake-news-bert-onnx"

// DefaultArtifactBaseURL is the base URL artifacts are resolved against
const DefaultArtifactBaseURL = "https://huggingface.co"

// artifactFile describes one downloadable model file.
type artifactFile struct {
	Name     string
	Required bool
	Size     string // Human-readable size for progress
}

// classifierFiles lists the minimal files needed for ONNX inference
var classifierFiles = []artifactFile{
	{"model.onnx", true, "418MB"},
	{"tokenizer.json", true, "700KB"},
	{"config.json", true, "1KB"},
	{"tokenizer_config.json", true, "1KB"},
	{"special_tokens_map.json", true, "1KB"},
}

// embeddingFiles lists the files for the sentence-transformer behind the
// related-articles index
var embeddingFiles = []artifactFile{
	{"model.onnx", true, "80MB"},
	{"tokenizer.json", true, "700KB"},
	{"config.json", true, "1KB"},
	{"tokenizer_config.json", true, "1KB"},
	{"special_tokens_map.json", true, "1KB"},
}

// downloadMutex prevents concurrent downloads of the same model
var downloadMutex sync.Mutex

// EnsureModelDownloaded checks that the classifier artifacts exist at
// modelPath and downloads them if not. Safe to call from multiple
// goroutines; only one download runs at a time.
func EnsureModelDownloaded(baseURL, repoID, modelPath string) error {
	if modelPath == "" {
		modelPath = DefaultModelPath
	}
	if baseURL == "" {
		baseURL = DefaultArtifactBaseURL
	}
	if repoID == "" {
		repoID = DefaultModelRepo
	}

	if ModelExists(modelPath) {
		return nil
	}

	downloadMutex.Lock()
	defer downloadMutex.Unlock()

	// Double-check after acquiring lock
	if ModelExists(modelPath) {
		return nil
	}

	log.Printf("Classifier not found at %s. Downloading from %s/%s...", modelPath, baseURL, repoID)
	return DownloadModel(baseURL, repoID, modelPath)
}

// EnsureEmbeddingModelDownloaded checks that the related-articles
// embedding model exists at modelPath and downloads it if not. Same
// locking discipline as EnsureModelDownloaded.
func EnsureEmbeddingModelDownloaded(baseURL, modelPath string) error {
	if modelPath == "" {
		modelPath = DefaultEmbeddingModelPath
	}
	if baseURL == "" {
		baseURL = DefaultArtifactBaseURL
	}

	if ModelExists(modelPath) {
		return nil
	}

	downloadMutex.Lock()
	defer downloadMutex.Unlock()

	if ModelExists(modelPath) {
		return nil
	}

	log.Printf("Embedding model not found at %s. Downloading %s (~80MB)...", modelPath, EmbeddingModelMiniLM)
	resolveBase := fmt.Sprintf("%s/%s/resolve/main", baseURL, EmbeddingModelMiniLM)
	if err := downloadAll(resolveBase, modelPath, embeddingFiles); err != nil {
		return err
	}
	log.Printf("Embedding model downloaded to %s", modelPath)
	return nil
}

// ModelExists checks whether a usable ONNX classifier exists at modelPath.
// Both the model and its tokenizer must be present.
func ModelExists(modelPath string) bool {
	for _, name := range []string{"model.onnx", "tokenizer.json"} {
		if _, err := os.Stat(filepath.Join(modelPath, name)); err != nil {
			return false
		}
	}
	return true
}

// DownloadModel fetches all classifier artifacts into destPath.
func DownloadModel(baseURL, repoID, destPath string) error {
	resolveBase := fmt.Sprintf("%s/%s/resolve/main", baseURL, repoID)
	if err := downloadAll(resolveBase, destPath, classifierFiles); err != nil {
		return err
	}
	log.Printf("Classifier downloaded to %s", destPath)
	return nil
}

// downloadAll fetches each listed file into destPath, skipping files
// already present.
func downloadAll(resolveBase, destPath string, files []artifactFile) error {
	if err := os.MkdirAll(destPath, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	for _, file := range files {
		fileURL := fmt.Sprintf("%s/%s", resolveBase, file.Name)
		destFile := filepath.Join(destPath, file.Name)

		if _, err := os.Stat(destFile); err == nil {
			log.Printf("  %s already present, skipping", file.Name)
			continue
		}

		log.Printf("  downloading %s (%s)...", file.Name, file.Size)
		if err := downloadFile(fileURL, destFile); err != nil {
			if file.Required {
				return fmt.Errorf("failed to download %s: %w", file.Name, err)
			}
			log.Printf("  optional file %s not available: %v", file.Name, err)
		}
	}

	return nil
}

// downloadFile downloads a file from url into destPath via a temporary
// file and atomic rename, so a partial download never looks like a
// complete artifact.
func downloadFile(url, destPath string) error {
	tmpPath := destPath + ".tmp"
	defer func() { _ = os.Remove(tmpPath) }()

	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	resp, err := http.Get(url) //nolint:gosec // URL is built from configured artifact store
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	// Close before rename (required on Windows)
	_ = out.Close()

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to finalize download: %w", err)
	}

	return nil
}
