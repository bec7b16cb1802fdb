package trn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultVerifyTimeout = 10 * time.Second

// HTTPVerifier calls the registry gateway managed by the integrations
// subsystem. The gateway fronts the per-country government APIs and speaks
// one JSON shape for all of them.
type HTTPVerifier struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

type HTTPVerifierConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

func NewHTTPVerifier(cfg HTTPVerifierConfig, log *zap.Logger) *HTTPVerifier {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}
	return &HTTPVerifier{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("trn.verifier"),
	}
}

type verifyRequest struct {
	TRN         string `json:"trn"`
	CountryCode string `json:"countryCode"`
}

type verifyResponse struct {
	Verified         *bool  `json:"verified"`
	BusinessName     string `json:"businessName"`
	Status           string `json:"status"`
	RegistrationDate string `json:"registrationDate"`
	Message          string `json:"message"`
}

// Verify consults the registry gateway. Transport and gateway failures
// degrade to the unavailable shape; verification is an optional enrichment
// and must never surface as an error to the editing flow.
func (v *HTTPVerifier) Verify(ctx context.Context, trn string, country Country) (VerificationResult, error) {
	if res := ValidateFormat(trn, country); !res.Valid {
		return VerificationResult{}, fmt.Errorf("verify called with invalid TRN: %s", res.Error)
	}
	if v.endpoint == "" {
		return Unavailable(country, "registry verification is not configured"), nil
	}

	payload, err := json.Marshal(verifyRequest{
		TRN:         Normalize(trn),
		CountryCode: string(country),
	})
	if err != nil {
		return VerificationResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(payload))
	if err != nil {
		return VerificationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.log.Warn("registry request failed", zap.String("country", string(country)), zap.Error(err))
		return Unavailable(country, "registry is unreachable; verify manually"), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		v.log.Warn("registry returned error status",
			zap.String("country", string(country)),
			zap.Int("status", resp.StatusCode),
		)
		return Unavailable(country, fmt.Sprintf("registry returned %s; verify manually", resp.Status)), nil
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		v.log.Warn("registry response unparsable", zap.Error(err))
		return Unavailable(country, "registry response unparsable; verify manually"), nil
	}

	result := VerificationResult{
		Verified:         body.Verified,
		BusinessName:     strings.TrimSpace(body.BusinessName),
		Status:           strings.TrimSpace(body.Status),
		RegistrationDate: strings.TrimSpace(body.RegistrationDate),
		Message:          strings.TrimSpace(body.Message),
		APIConfigured:    true,
	}
	if result.Verified == nil {
		// gateway itself reported a tri-state unknown
		result.APIConfigured = false
		result.ManualVerificationURL = ManualVerificationURL(country)
	}
	return result, nil
}
