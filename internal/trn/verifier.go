package trn

import "context"

// VerificationResult is the tri-state outcome of a registry lookup.
// Verified is nil when the registry could not be consulted; the caller must
// then fall back to ManualVerificationURL and never treat the TRN as
// confirmed or rejected.
type VerificationResult struct {
	Verified         *bool  `json:"verified"`
	BusinessName     string `json:"business_name,omitempty"`
	Status           string `json:"status,omitempty"`
	RegistrationDate string `json:"registration_date,omitempty"`
	// Message explains a verified=false result (not found in registry).
	Message string `json:"message,omitempty"`

	APIConfigured         bool   `json:"api_configured"`
	ManualVerificationURL string `json:"manual_verification_url,omitempty"`
	Instructions          string `json:"instructions,omitempty"`
}

// Verifier consults an external tax-authority registry. Implementations
// must degrade to the unavailable shape rather than returning an error for
// registry outages; a Go error means the request itself was malformed.
type Verifier interface {
	Verify(ctx context.Context, trn string, country Country) (VerificationResult, error)
}

// NoOpVerifier is used when no registry integration is configured. It
// always reports the capability as unavailable with the jurisdiction's
// manual lookup link.
type NoOpVerifier struct{}

func (NoOpVerifier) Verify(_ context.Context, _ string, country Country) (VerificationResult, error) {
	return Unavailable(country, "registry verification is not configured"), nil
}

// Unavailable builds the capability-unavailable result for a jurisdiction.
func Unavailable(country Country, instructions string) VerificationResult {
	return VerificationResult{
		Verified:              nil,
		APIConfigured:         false,
		ManualVerificationURL: ManualVerificationURL(country),
		Instructions:          instructions,
	}
}
