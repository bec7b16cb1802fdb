package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sreeramsuresh/steelcore/internal/observability/logger"
	"go.uber.org/zap"
)

const verifyEndpoint = "/v1/trn/verify"

// VerifyRateLimit admits external verification calls through the redis
// token bucket. Without redis the limiter is nil and everything passes.
func (s *Server) VerifyRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.verifyLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		res, allowed := s.verifyLimiter.Allow(ctx, c.ClientIP())
		if allowed {
			s.obsMetrics.RecordRateLimitAllowed(ctx, verifyEndpoint)
			c.Next()
			return
		}

		s.obsMetrics.RecordRateLimitDenied(ctx, verifyEndpoint, "token_bucket")
		logger.FromContext(ctx).Debug("verification rate limited",
			zap.String("client_ip", c.ClientIP()),
		)
		if res.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
		}
		AbortWithError(c, ErrRateLimited)
	}
}
