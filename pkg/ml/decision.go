package ml

// EffectiveHighThreshold returns the confidence bar required to accept
// the model's raw label. Headline-only input pays a stricter bar.
func EffectiveHighThreshold(isHeadline bool) float64 {
	if isHeadline {
		return ConfidenceHighHeadline
	}
	return ConfidenceHigh
}

// Decide applies the confidence-aware decision rules to a raw inference.
//
// The raw label is accepted verbatim only when confidence clears the
// effective high threshold. Anything below that is Uncertain: the medium
// tier (>= ConfidenceMedium) and the low tier produce the same label and
// differ only in the reported confidence category. That asymmetry is
// intentional and must not be collapsed.
//
// The returned confidence is always the model's raw probability,
// unmodified by the override.
func Decide(raw RawInference, isHeadline bool) (Label, float64) {
	if raw.Confidence >= EffectiveHighThreshold(isHeadline) {
		return raw.Label, raw.Confidence
	}
	return LabelUncertain, raw.Confidence
}
