package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sreeramsuresh/steelcore/internal/cloudmetrics"
	"github.com/sreeramsuresh/steelcore/internal/ssot"
)

type productCodeRequest struct {
	Code string `json:"code"`
}

type generateRequest struct {
	Grade       string  `json:"grade"`
	Form        string  `json:"form"`
	Finish      string  `json:"finish"`
	WidthMM     int     `json:"width_mm"`
	ThicknessMM float64 `json:"thickness_mm"`
	LengthMM    int     `json:"length_mm"`
	Coil        bool    `json:"coil"`
}

// ValidateProductCode checks a code against the canonical grammar.
// Invalid codes are data, not errors: the response is always 200.
func (s *Server) ValidateProductCode(c *gin.Context) {
	var req productCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result := ssot.Validate(req.Code)
	s.recordValidation(c, "ssot", result.Valid)

	c.JSON(http.StatusOK, result)
}

func (s *Server) ParseProductCode(c *gin.Context) {
	var req productCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	components, ok := ssot.Parse(req.Code)
	if !ok {
		result := ssot.Validate(req.Code)
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"components": components,
	})
}

func (s *Server) GenerateProductCode(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	code, err := ssot.Generate(ssot.Components{
		Grade:       ssot.Grade(strings.TrimSpace(req.Grade)),
		Form:        ssot.Form(strings.TrimSpace(req.Form)),
		Finish:      ssot.Finish(strings.TrimSpace(req.Finish)),
		WidthMM:     req.WidthMM,
		ThicknessMM: req.ThicknessMM,
		LengthMM:    req.LengthMM,
		Coil:        req.Coil,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// CheckProductCodeMigration reports whether a legacy code needs rewriting
// into the canonical grammar.
func (s *Server) CheckProductCodeMigration(c *gin.Context) {
	code := c.Query("code")
	c.JSON(http.StatusOK, gin.H{
		"code":            code,
		"needs_migration": ssot.NeedsMigration(code),
	})
}

func (s *Server) recordValidation(c *gin.Context, component string, valid bool) {
	ctx := c.Request.Context()
	s.obsMetrics.RecordValidationCheck(ctx, component, valid)
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	cloudmetrics.RecordValidationCheck(component, outcome)
}
