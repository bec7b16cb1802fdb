package margin

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Channel is the procurement channel for a line item. Imported stock
// carries higher landed cost, so its margin floors sit higher.
type Channel string

const (
	ChannelLocal    Channel = "LOCAL"
	ChannelImported Channel = "IMPORTED"
)

// NormalizeChannel maps free-form input onto a known channel. Unrecognized
// or absent channels fall back to LOCAL, the more permissive threshold set.
func NormalizeChannel(raw string) Channel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ChannelImported):
		return ChannelImported
	default:
		return ChannelLocal
	}
}

// Status is the three-level ordinal classification used for warning colors.
type Status string

const (
	StatusRed   Status = "red"
	StatusAmber Status = "amber"
	StatusGreen Status = "green"
)

// Thresholds are margin percentage cut-offs for one channel.
// Invariant: Minimum < Warning <= Good.
type Thresholds struct {
	Minimum float64 `json:"minimum" mapstructure:"minimum"`
	Warning float64 `json:"warning" mapstructure:"warning"`
	Good    float64 `json:"good" mapstructure:"good"`
}

// Validate enforces the threshold ordering invariant.
func (t Thresholds) Validate() error {
	if t.Minimum >= t.Warning {
		return fmt.Errorf("minimum (%v) must be below warning (%v)", t.Minimum, t.Warning)
	}
	if t.Warning > t.Good {
		return fmt.Errorf("warning (%v) must not exceed good (%v)", t.Warning, t.Good)
	}
	return nil
}

// DefaultThresholds returns the built-in cut-offs for a channel.
func DefaultThresholds(channel Channel) Thresholds {
	if channel == ChannelImported {
		return Thresholds{Minimum: 8, Warning: 10, Good: 10}
	}
	return Thresholds{Minimum: 5, Warning: 7, Good: 8}
}

// ClassifyWith maps a margin percentage onto a status using the given
// thresholds. Boundaries are inclusive on the upper side: margin equal to
// minimum is amber, equal to warning is green.
func ClassifyWith(margin decimal.Decimal, t Thresholds) Status {
	minimum := decimal.NewFromFloat(t.Minimum)
	warning := decimal.NewFromFloat(t.Warning)
	switch {
	case margin.LessThan(minimum):
		return StatusRed
	case margin.LessThan(warning):
		return StatusAmber
	default:
		return StatusGreen
	}
}

// ParseMargin coerces free-form input to a margin percentage. Non-numeric
// or absent input coerces to zero rather than failing; a zero margin is
// below every minimum and classifies red, which is the safe direction.
func ParseMargin(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ExplanationTextWith renders the human sentence shown next to the margin
// field, consistent with ClassifyWith on the same inputs.
func ExplanationTextWith(margin decimal.Decimal, channel Channel, t Thresholds) string {
	name := strings.ToLower(string(channel))
	switch ClassifyWith(margin, t) {
	case StatusRed:
		return fmt.Sprintf("Margin %s%% is below the %v%% minimum for %s procurement", margin.String(), t.Minimum, name)
	case StatusAmber:
		return fmt.Sprintf("Margin %s%% is below the %v%% target for %s procurement", margin.String(), t.Warning, name)
	default:
		return fmt.Sprintf("Good margin for %s procurement", name)
	}
}
