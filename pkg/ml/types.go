package ml

// Label represents a classification verdict for a news article.
type Label string

const (
	// LabelReal indicates the article is classified as genuine news
	LabelReal Label = "Real"
	// LabelFake indicates the article is classified as fabricated news
	LabelFake Label = "Fake"
	// LabelUncertain indicates the model's confidence was too low to commit
	LabelUncertain Label = "Uncertain"
)

// String returns the string representation of a Label.
func (l Label) String() string {
	return string(l)
}

// Confidence thresholds for the decision policy.
const (
	// ConfidenceHigh is the bar above which the raw model label is trusted
	ConfidenceHigh = 0.90
	// ConfidenceMedium is where the uncertain zone begins for reporting
	ConfidenceMedium = 0.60
	// ConfidenceHighHeadline is the stricter bar applied to headline-only input
	ConfidenceHighHeadline = 0.95
)

// ConfidenceCategory buckets a raw confidence score for reporting.
// The category is computed from the fixed thresholds and is independent
// of the headline adjustment, so category and label can disagree: a
// headline scored at 0.92 reports category "high" but label Uncertain.
type ConfidenceCategory string

const (
	CategoryHigh   ConfidenceCategory = "high"
	CategoryMedium ConfidenceCategory = "medium"
	CategoryLow    ConfidenceCategory = "low"
)

// ToConfidenceCategory maps a raw confidence score to its reporting bucket.
func ToConfidenceCategory(confidence float64) ConfidenceCategory {
	if confidence >= ConfidenceHigh {
		return CategoryHigh
	}
	if confidence >= ConfidenceMedium {
		return CategoryMedium
	}
	return CategoryLow
}

// RawInference is the unprocessed model output for one input.
type RawInference struct {
	// Label is the argmax class mapped to Fake/Real
	Label Label `json:"label"`
	// Confidence is the probability mass on the argmax class.
	// It is not a calibrated reliability score.
	Confidence float64 `json:"confidence"`
}

// VerdictMetadata carries auxiliary signals alongside a verdict.
type VerdictMetadata struct {
	IsHeadlineOnly     bool               `json:"is_headline_only"`
	TextLength         int                `json:"text_length"`
	WordCount          int                `json:"word_count"`
	ConfidenceCategory ConfidenceCategory `json:"confidence_category"`
}

// Verdict is the final three-way answer for an analyzed article.
// Confidence is always the model's raw probability, even when the
// label was overridden to Uncertain.
type Verdict struct {
	Label      Label           `json:"prediction"`
	Confidence float64         `json:"confidence"`
	Metadata   VerdictMetadata `json:"metadata"`
}
