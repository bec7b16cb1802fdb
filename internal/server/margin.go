package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sreeramsuresh/steelcore/internal/margin"
)

type classifyRequest struct {
	// Margin accepts a number or a percentage string ("6.5%"); junk
	// coerces to zero rather than failing the request.
	Margin  json.RawMessage `json:"margin"`
	Channel string          `json:"channel"`
}

// marginText unwraps the margin field to the text ParseMargin coerces.
// JSON strings lose their quotes, numbers pass through as written.
func (r classifyRequest) marginText() string {
	var s string
	if err := json.Unmarshal(r.Margin, &s); err == nil {
		return s
	}
	return string(r.Margin)
}

func (s *Server) GetMarginThresholds(c *gin.Context) {
	channel, thresholds := s.marginSvc.GetThresholds(c.Query("channel"))
	c.JSON(http.StatusOK, gin.H{
		"channel":    channel,
		"thresholds": thresholds,
	})
}

func (s *Server) ClassifyMargin(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	value := margin.ParseMargin(req.marginText())
	channel, thresholds := s.marginSvc.GetThresholds(req.Channel)
	status := margin.ClassifyWith(value, thresholds)

	ctx := c.Request.Context()
	s.obsMetrics.RecordMarginClassification(ctx, string(channel), string(status))

	c.JSON(http.StatusOK, gin.H{
		"margin":      value,
		"channel":     channel,
		"status":      status,
		"explanation": margin.ExplanationTextWith(value, channel, thresholds),
	})
}
