package trn

import (
	"github.com/sreeramsuresh/steelcore/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("trn",
	fx.Provide(NewVerifierFromConfig),
)

// NewVerifierFromConfig wires the registry verifier, or the NoOp fallback
// when no gateway endpoint is configured.
func NewVerifierFromConfig(cfg config.Config, log *zap.Logger) Verifier {
	if cfg.TRNVerifyEndpoint == "" {
		return NoOpVerifier{}
	}
	return NewHTTPVerifier(HTTPVerifierConfig{
		Endpoint: cfg.TRNVerifyEndpoint,
		APIKey:   cfg.TRNVerifyAPIKey,
		Timeout:  cfg.TRNVerifyTimeout,
	}, log)
}
