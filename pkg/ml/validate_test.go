package ml

import (
	"errors"
	"testing"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason ValidationReason // empty means valid
	}{
		{"empty string", "", ReasonEmptyInput},
		// Whitespace trims to length zero, so the length check fires
		// before the dedicated whitespace branch.
		{"whitespace only", "   \t\n  ", ReasonTooShort},
		{"below minimum length", "too short", ReasonTooShort},
		{"nine chars trimmed", "  abcdefghi  ", ReasonTooShort},
		// "Привет" is 12 bytes but only 6 characters.
		{"multibyte below minimum", "Привет", ReasonTooShort},
		{"exactly minimum length", "abcdefghij", ""},
		{"multibyte at minimum", "Привет мир!", ""},
		{"normal article text", "Scientists discover a new species in the Amazon rainforest.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.input)
			if tt.reason == "" {
				if err != nil {
					t.Errorf("ValidateInput(%q) = %v, want nil", tt.input, err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ValidateInput(%q) = %v, want *ValidationError", tt.input, err)
			}
			if validationErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", validationErr.Reason, tt.reason)
			}
		})
	}
}

func TestValidateInputShortInputs(t *testing.T) {
	// Every non-empty trimmed input under the minimum is TooShort.
	for length := 1; length < MinimumTextLength; length++ {
		input := ""
		for i := 0; i < length; i++ {
			input += "x"
		}

		err := ValidateInput(input)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) || validationErr.Reason != ReasonTooShort {
			t.Errorf("ValidateInput(%d chars) = %v, want TooShort", length, err)
		}
	}
}

func TestValidateCleaned(t *testing.T) {
	tests := []struct {
		name    string
		cleaned string
		wantErr bool
	}{
		{"empty after cleaning", "", true},
		{"too short after cleaning", "tiny", true},
		{"multibyte too short after cleaning", "короткий", true},
		{"long enough", "this survived cleaning", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCleaned(tt.cleaned)
			if tt.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) || validationErr.Reason != ReasonEmptyAfterCleanup {
					t.Errorf("ValidateCleaned(%q) = %v, want EmptyAfterCleaning", tt.cleaned, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateCleaned(%q) = %v, want nil", tt.cleaned, err)
			}
		})
	}
}
