package ml

// analyzer.go - Per-request orchestration
//
// Control flow for one analysis request, terminal on first failure:
// rate limit -> readiness -> validate raw -> clean+truncate -> validate
// cleaned -> headline check -> infer -> decide -> persist (best effort).

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Oracle is the inference backend consumed by the analyzer. *Classifier
// is the production implementation; tests substitute mocks.
type Oracle interface {
	IsLoaded() bool
	ModelVersion() string
	Infer(cleaned string) (RawInference, error)
}

// Limiter gates requests per client identity.
type Limiter interface {
	Allow(identity string) bool
}

// HistoryRecorder persists verdicts. Failures never reach the caller.
type HistoryRecorder interface {
	Record(ctx context.Context, text, prediction string, confidence float64, modelVersion string) (string, error)
}

// persistTimeout bounds the detached persistence write. The response has
// usually been sent by the time this runs.
const persistTimeout = 10 * time.Second

// Analyzer runs the confidence-aware decision pipeline.
type Analyzer struct {
	oracle  Oracle
	limiter Limiter
	history HistoryRecorder
	related *RelatedIndex
}

// NewAnalyzer wires the pipeline. limiter, history and related may be
// nil; the corresponding step is skipped.
func NewAnalyzer(oracle Oracle, limiter Limiter, history HistoryRecorder, related *RelatedIndex) *Analyzer {
	return &Analyzer{
		oracle:  oracle,
		limiter: limiter,
		history: history,
		related: related,
	}
}

// Analyze classifies one article for the given client identity.
//
// Errors returned: ErrRateLimited, ErrNotLoaded, *ValidationError, or a
// wrapped inference error. On success the verdict is final before the
// persistence side effect starts; persistence failures are logged and
// never alter the response.
func (a *Analyzer) Analyze(ctx context.Context, clientID, text string) (*Verdict, error) {
	if a.limiter != nil && !a.limiter.Allow(clientID) {
		return nil, ErrRateLimited
	}

	if !a.oracle.IsLoaded() {
		return nil, ErrNotLoaded
	}

	if err := ValidateInput(text); err != nil {
		return nil, err
	}

	cleaned := TruncateWords(CleanText(text), MaxInputWords)
	if err := ValidateCleaned(cleaned); err != nil {
		return nil, err
	}

	isHeadline := IsHeadlineOnly(cleaned)

	raw, err := a.oracle.Infer(cleaned)
	if err != nil {
		if errors.Is(err, ErrNotLoaded) {
			return nil, err
		}
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	label, confidence := Decide(raw, isHeadline)
	confidence = roundConfidence(confidence)

	verdict := &Verdict{
		Label:      label,
		Confidence: confidence,
		Metadata: VerdictMetadata{
			IsHeadlineOnly:     isHeadline,
			TextLength:         utf8.RuneCountInString(cleaned),
			WordCount:          WordCount(cleaned),
			ConfidenceCategory: ToConfidenceCategory(raw.Confidence),
		},
	}

	log.Printf("Prediction: %s (confidence: %.4f, raw: %s, is_headline: %t)",
		verdict.Label, verdict.Confidence, raw.Label, isHeadline)

	go a.persist(text, cleaned, verdict)

	return verdict, nil
}

// RelatedEnabled reports whether the related-articles index is wired.
func (a *Analyzer) RelatedEnabled() bool {
	return a.related != nil
}

// Related returns previously analyzed articles similar to text, or nil
// when the index is disabled.
func (a *Analyzer) Related(ctx context.Context, text string, limit int) []RelatedArticle {
	if a.related == nil {
		return nil
	}
	cleaned := TruncateWords(CleanText(text), MaxInputWords)
	articles, err := a.related.Similar(ctx, cleaned, limit)
	if err != nil {
		log.Printf("Related-article lookup failed: %v", err)
		return nil
	}
	return articles
}

// persist writes the verdict to history and the related-article index.
// History stores the text as submitted; the index embeds the cleaned
// form. Runs detached from the request; the response never waits on it.
func (a *Analyzer) persist(raw, cleaned string, verdict *Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Persistence panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	recordID := ""
	if a.history != nil {
		id, err := a.history.Record(ctx, raw, verdict.Label.String(), verdict.Confidence, a.oracle.ModelVersion())
		if err != nil {
			log.Printf("Failed to save prediction: %v", err)
		} else {
			recordID = id
		}
	}

	if a.related != nil {
		if recordID == "" {
			// No history store (or write failed); index under a fresh ID.
			recordID = uuid.NewString()
		}
		if err := a.related.Add(ctx, recordID, cleaned, verdict.Label, verdict.Confidence); err != nil {
			log.Printf("Failed to index article for similarity: %v", err)
		}
	}
}

func roundConfidence(c float64) float64 {
	return math.Round(c*10000) / 10000
}
