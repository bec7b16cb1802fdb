package margin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestClassifyBoundariesLocal(t *testing.T) {
	th := DefaultThresholds(ChannelLocal)
	require.NoError(t, th.Validate())

	tests := []struct {
		margin string
		want   Status
	}{
		{"4.99", StatusRed},
		{"5.00", StatusAmber},
		{"6.99", StatusAmber},
		{"7.00", StatusGreen},
		{"0", StatusRed},
		{"100", StatusGreen},
		{"-3", StatusRed},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyWith(d(tc.margin), th), "local margin %s", tc.margin)
	}
}

func TestClassifyBoundariesImported(t *testing.T) {
	th := DefaultThresholds(ChannelImported)
	require.NoError(t, th.Validate())

	tests := []struct {
		margin string
		want   Status
	}{
		{"7.99", StatusRed},
		{"8.00", StatusAmber},
		{"9.99", StatusAmber},
		{"10.00", StatusGreen},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyWith(d(tc.margin), th), "imported margin %s", tc.margin)
	}
}

func TestNormalizeChannel(t *testing.T) {
	assert.Equal(t, ChannelImported, NormalizeChannel("imported"))
	assert.Equal(t, ChannelImported, NormalizeChannel(" Imported "))
	assert.Equal(t, ChannelLocal, NormalizeChannel("local"))
	assert.Equal(t, ChannelLocal, NormalizeChannel(""))
	assert.Equal(t, ChannelLocal, NormalizeChannel("overseas"))
}

func TestParseMarginCoercion(t *testing.T) {
	assert.True(t, ParseMargin("").IsZero())
	assert.True(t, ParseMargin("abc").IsZero())
	assert.Equal(t, "7.5", ParseMargin("7.5").String())
	assert.Equal(t, "7.5", ParseMargin(" 7.5% ").String())
	assert.Equal(t, "-2", ParseMargin("-2").String())
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, Thresholds{Minimum: 5, Warning: 7, Good: 8}.Validate())
	assert.NoError(t, Thresholds{Minimum: 8, Warning: 10, Good: 10}.Validate())
	assert.Error(t, Thresholds{Minimum: 7, Warning: 7, Good: 8}.Validate())
	assert.Error(t, Thresholds{Minimum: 5, Warning: 9, Good: 8}.Validate())
}

func TestExplanationTextMatchesClassification(t *testing.T) {
	svc := NewService(nil)

	red := svc.ExplanationText(d("4"), "local")
	assert.Contains(t, red, "below the 5% minimum")
	assert.Contains(t, red, "local")

	amber := svc.ExplanationText(d("6"), "local")
	assert.Contains(t, amber, "below the 7% target")

	green := svc.ExplanationText(d("12"), "imported")
	assert.Contains(t, green, "Good margin")
	assert.Contains(t, green, "imported")
}

func TestServiceDefaultsWithoutHolder(t *testing.T) {
	svc := NewService(nil)
	ch, th := svc.GetThresholds("imported")
	assert.Equal(t, ChannelImported, ch)
	assert.Equal(t, DefaultThresholds(ChannelImported), th)
	assert.Equal(t, StatusAmber, svc.Classify(d("9"), "imported"))
}
