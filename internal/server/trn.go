package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sreeramsuresh/steelcore/internal/cloudmetrics"
	"github.com/sreeramsuresh/steelcore/internal/trn"
	"go.uber.org/zap"
)

type trnRequest struct {
	TRN     string `json:"trn"`
	Country string `json:"country"`
}

func parseCountry(raw string) (trn.Country, bool) {
	country := trn.Country(strings.ToUpper(strings.TrimSpace(raw)))
	for _, c := range trn.Countries() {
		if country == c {
			return country, true
		}
	}
	return "", false
}

// GetTRNFormat returns the inline guidance for one jurisdiction: the human
// description and a well-formed example.
func (s *Server) GetTRNFormat(c *gin.Context) {
	country, ok := parseCountry(c.Param("country"))
	if !ok {
		AbortWithError(c, newValidationError("country", trn.CodeUnsupportedCountry, "unsupported country"))
		return
	}

	desc, ok := trn.GetFormatDescription(country)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, desc)
}

// ValidateTRN runs the offline format check. Like the product-code
// validator, an invalid TRN is a result, not an error.
func (s *Server) ValidateTRN(c *gin.Context) {
	var req trnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	country, ok := parseCountry(req.Country)
	if !ok {
		s.recordValidation(c, "trn", false)
		c.JSON(http.StatusOK, trn.FormatResult{
			Valid: false,
			Code:  trn.CodeUnsupportedCountry,
			Error: "unsupported country",
		})
		return
	}

	result := trn.ValidateFormat(req.TRN, country)
	s.recordValidation(c, "trn", result.Valid)

	c.JSON(http.StatusOK, result)
}

// VerifyTRN consults the external registry. The offline format check gates
// the call; a malformed TRN never reaches the gateway. Registry outages
// surface as the unavailable shape with a manual lookup link, still 200.
func (s *Server) VerifyTRN(c *gin.Context) {
	var req trnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	country, ok := parseCountry(req.Country)
	if !ok {
		AbortWithError(c, newValidationError("country", trn.CodeUnsupportedCountry, "unsupported country"))
		return
	}

	if format := trn.ValidateFormat(req.TRN, country); !format.Valid {
		s.recordValidation(c, "trn", false)
		AbortWithError(c, newValidationError("trn", format.Code, format.Error))
		return
	}

	ctx := c.Request.Context()
	result, err := s.verifier.Verify(ctx, req.TRN, country)
	if err != nil {
		s.log.Warn("trn verification failed",
			zap.String("country", string(country)),
			zap.Error(err),
		)
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	outcome := verificationOutcome(result)
	s.obsMetrics.RecordTRNVerification(ctx, string(country), outcome)
	cloudmetrics.RecordVerificationCall(string(country), outcome)

	c.JSON(http.StatusOK, result)
}

func verificationOutcome(result trn.VerificationResult) string {
	switch {
	case result.Verified == nil:
		return "unavailable"
	case *result.Verified:
		return "verified"
	default:
		return "not_verified"
	}
}
