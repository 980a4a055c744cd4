package ml

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawInference
		isHeadline bool
		wantLabel  Label
	}{
		{"high confidence real accepted", RawInference{LabelReal, 0.97}, false, LabelReal},
		{"high confidence fake accepted", RawInference{LabelFake, 0.99}, false, LabelFake},
		{"exactly at threshold accepted", RawInference{LabelReal, 0.90}, false, LabelReal},
		{"just below threshold uncertain", RawInference{LabelReal, 0.8999}, false, LabelUncertain},
		{"medium confidence uncertain", RawInference{LabelFake, 0.75}, false, LabelUncertain},
		{"low confidence uncertain", RawInference{LabelReal, 0.55}, false, LabelUncertain},
		// Headline-only input pays the stricter 0.95 bar.
		{"headline at 0.93 uncertain", RawInference{LabelFake, 0.93}, true, LabelUncertain},
		{"headline at 0.92 uncertain", RawInference{LabelReal, 0.92}, true, LabelUncertain},
		{"same 0.92 accepted off headline", RawInference{LabelReal, 0.92}, false, LabelReal},
		{"headline exactly at 0.95 accepted", RawInference{LabelFake, 0.95}, true, LabelFake},
		{"headline above 0.95 accepted", RawInference{LabelReal, 0.97}, true, LabelReal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := Decide(tt.raw, tt.isHeadline)
			if label != tt.wantLabel {
				t.Errorf("Decide(%v, %t) label = %q, want %q", tt.raw, tt.isHeadline, label, tt.wantLabel)
			}
			// Confidence always passes through unmodified.
			if confidence != tt.raw.Confidence {
				t.Errorf("Decide(%v, %t) confidence = %f, want raw %f", tt.raw, tt.isHeadline, confidence, tt.raw.Confidence)
			}
		})
	}
}

func TestEffectiveHighThreshold(t *testing.T) {
	if got := EffectiveHighThreshold(false); got != ConfidenceHigh {
		t.Errorf("EffectiveHighThreshold(false) = %f, want %f", got, ConfidenceHigh)
	}
	if got := EffectiveHighThreshold(true); got != ConfidenceHighHeadline {
		t.Errorf("EffectiveHighThreshold(true) = %f, want %f", got, ConfidenceHighHeadline)
	}
}

func TestToConfidenceCategory(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   ConfidenceCategory
	}{
		{0.99, CategoryHigh},
		{0.90, CategoryHigh},
		{0.89, CategoryMedium},
		{0.60, CategoryMedium},
		{0.59, CategoryLow},
		{0.0, CategoryLow},
	}

	for _, tt := range tests {
		if got := ToConfidenceCategory(tt.confidence); got != tt.expected {
			t.Errorf("ToConfidenceCategory(%f) = %q, want %q", tt.confidence, got, tt.expected)
		}
	}
}

// The category is computed from the fixed thresholds, independent of the
// headline adjustment: a headline at 0.92 reports category high while the
// label is forced to Uncertain.
func TestCategoryAndLabelCanDisagree(t *testing.T) {
	raw := RawInference{Label: LabelReal, Confidence: 0.92}

	label, _ := Decide(raw, true)
	if label != LabelUncertain {
		t.Errorf("Headline at 0.92 label = %q, want Uncertain", label)
	}

	if category := ToConfidenceCategory(raw.Confidence); category != CategoryHigh {
		t.Errorf("Category at 0.92 = %q, want high", category)
	}
}
