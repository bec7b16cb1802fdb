package trn

import (
	"fmt"
	"strings"
)

// Normalize strips the formatting characters users paste along with a TRN.
// Only spaces and dashes are formatting; anything else must survive so a
// stray letter still fails the digit check.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, raw)
}

// ValidateFormat checks a TRN against its jurisdiction's offline format
// rule. It is always local and synchronous; registry verification is a
// separate optional enrichment (see Verifier).
func ValidateFormat(raw string, country Country) FormatResult {
	cleaned := Normalize(strings.TrimSpace(raw))
	if cleaned == "" {
		return FormatResult{Code: CodeRequired, Error: "TRN is required"}
	}

	r, ok := rules[Country(strings.ToUpper(string(country)))]
	if !ok {
		return FormatResult{
			Code:  CodeUnsupportedCountry,
			Error: fmt.Sprintf("unsupported country %q; supported: AE, SA, BH, OM", country),
		}
	}

	if !allDigits(cleaned) || len(cleaned) != r.Digits {
		return FormatResult{
			Code:  CodeInvalidFormat,
			Error: fmt.Sprintf("TRN must be %s", r.Description),
		}
	}
	if r.Prefix != "" && !strings.HasPrefix(cleaned, r.Prefix) {
		return FormatResult{
			Code:  CodeInvalidFormat,
			Error: fmt.Sprintf("TRN must be %s", r.Description),
		}
	}

	return FormatResult{Valid: true}
}

// GetFormatDescription returns the guidance text and worked example for a
// jurisdiction, or false when the country is unsupported.
func GetFormatDescription(country Country) (FormatDescription, bool) {
	c := Country(strings.ToUpper(string(country)))
	r, ok := rules[c]
	if !ok {
		return FormatDescription{}, false
	}
	return FormatDescription{
		Country:     c,
		Description: r.Description,
		Example:     r.Example,
	}, true
}

// ManualVerificationURL returns the government lookup page used as the
// fallback when registry verification is unavailable.
func ManualVerificationURL(country Country) string {
	r, ok := rules[Country(strings.ToUpper(string(country)))]
	if !ok {
		return ""
	}
	return r.ManualURL
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
