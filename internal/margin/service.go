package margin

import "github.com/shopspring/decimal"

// Service answers margin questions against the active threshold table.
type Service struct {
	holder *ThresholdsHolder
}

func NewService(holder *ThresholdsHolder) *Service {
	return &Service{holder: holder}
}

// GetThresholds returns the cut-offs for a channel; unrecognized channels
// resolve to LOCAL.
func (s *Service) GetThresholds(channel string) (Channel, Thresholds) {
	ch := NormalizeChannel(channel)
	if s == nil {
		return ch, DefaultThresholds(ch)
	}
	return ch, s.holder.Get(ch)
}

// Classify maps a margin percentage onto red, amber or green.
func (s *Service) Classify(margin decimal.Decimal, channel string) Status {
	_, t := s.GetThresholds(channel)
	return ClassifyWith(margin, t)
}

// ExplanationText renders the inline guidance sentence for the margin
// field, consistent with Classify on the same inputs.
func (s *Service) ExplanationText(margin decimal.Decimal, channel string) string {
	ch, t := s.GetThresholds(channel)
	return ExplanationTextWith(margin, ch, t)
}
