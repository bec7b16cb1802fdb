package ssot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsCanonicalCodes(t *testing.T) {
	valid := []string{
		"SS-304-SHEET-2B-1250mm-2.0mm-2500mm",
		"SS-316L-PLATE-NO1-1500mm-12mm-6000mm",
		"SS-304-COIL-2B-1250mm-0.8mm-COIL",
		"SS-430-TUBE-HL-50mm-1.5mm-6000mm",
		"SS-2205-BAR-MIRROR-25mm-25mm-3000mm",
		// grade/form/finish are case-insensitive, SS- is not
		"SS-304l-sheet-2b-1250mm-2.0mm-2500mm",
	}
	for _, code := range valid {
		res := Validate(code)
		assert.True(t, res.Valid, "expected %q to validate, got %q", code, res.Error)
	}
}

func TestValidateRejectsMalformedCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"empty", "", "required"},
		{"whitespace", "   ", "required"},
		{"wrong prefix", "XX-304-SHEET-2B-1250mm-2.0mm-2500mm", `must start with "SS-"`},
		{"lowercase prefix", "ss-304-SHEET-2B-1250mm-2.0mm-2500mm", `must start with "SS-"`},
		{"missing component", "SS-304-SHEET-1250mm-2.0mm-2500mm", "canonical pattern"},
		{"unknown grade", "SS-999-SHEET-2B-1250mm-2.0mm-2500mm", "unknown grade"},
		{"unknown form", "SS-304-BLOCK-2B-1250mm-2.0mm-2500mm", "unknown form"},
		{"unknown finish", "SS-304-SHEET-9X-1250mm-2.0mm-2500mm", "unknown finish"},
		{"decimal width", "SS-304-SHEET-2B-1250.5mm-2.0mm-2500mm", "width must be a positive whole number"},
		{"decimal length", "SS-304-SHEET-2B-1250mm-2.0mm-2500.5mm", "length must be a positive whole number"},
		{"zero width", "SS-304-SHEET-2B-0mm-2.0mm-2500mm", "width must be a positive whole number"},
		{"garbage length", "SS-304-SHEET-2B-1250mm-2.0mm-LONG", "length must be a positive whole number of millimetres or COIL"},
		{"missing mm on length", "SS-304-SHEET-2B-1250mm-2.0mm-2500", "canonical pattern"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.code)
			require.False(t, res.Valid)
			assert.Contains(t, res.Error, tc.want)
		})
	}
}

func TestValidatePatternMismatchCarriesExample(t *testing.T) {
	res := Validate("SS-garbage")
	require.False(t, res.Valid)
	assert.Equal(t, Pattern, res.Pattern)
	assert.Equal(t, Example, res.Example)
}

func TestValidateEnumErrorsListValidValues(t *testing.T) {
	res := Validate("SS-999-SHEET-2B-1250mm-2.0mm-2500mm")
	require.False(t, res.Valid)
	for _, g := range Grades() {
		assert.Contains(t, res.Error, string(g))
	}
}

func TestParseDecomposesComponents(t *testing.T) {
	c, ok := Parse("SS-304-SHEET-2B-1250mm-2.0mm-2500mm")
	require.True(t, ok)
	assert.Equal(t, Grade304, c.Grade)
	assert.Equal(t, FormSheet, c.Form)
	assert.Equal(t, Finish2B, c.Finish)
	assert.Equal(t, 1250, c.WidthMM)
	assert.Equal(t, 2.0, c.ThicknessMM)
	assert.Equal(t, 2500, c.LengthMM)
	assert.False(t, c.Coil)
	assert.Equal(t, "SS-304-SHEET-2B-1250mm-2.0mm-2500mm", c.Raw)
}

func TestParseCoilSentinel(t *testing.T) {
	c, ok := Parse("SS-304-COIL-2B-1250mm-0.8mm-COIL")
	require.True(t, ok)
	assert.True(t, c.Coil)
	assert.Zero(t, c.LengthMM)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, ok := Parse("SS-304-SHEET-2B-1250.5mm-2.0mm-2500mm")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestGenerateRoundTrip(t *testing.T) {
	codes := []string{
		"SS-304-SHEET-2B-1250mm-2.0mm-2500mm",
		"SS-316L-PLATE-NO1-1500mm-12mm-6000mm",
		"SS-304-COIL-2B-1250mm-0.8mm-COIL",
		"SS-2205-BAR-MIRROR-25mm-25mm-3000mm",
	}
	for _, code := range codes {
		c, ok := Parse(code)
		require.True(t, ok, code)
		out, err := Generate(c)
		require.NoError(t, err)
		assert.Equal(t, code, out)
		assert.True(t, Validate(out).Valid)
	}
}

func TestGenerateNormalizesCase(t *testing.T) {
	c, ok := Parse("SS-304l-sheet-2b-1250mm-2.0mm-2500mm")
	require.True(t, ok)
	out, err := Generate(c)
	require.NoError(t, err)
	assert.Equal(t, "SS-304L-SHEET-2B-1250mm-2.0mm-2500mm", out)
}

func TestGenerateMissingFields(t *testing.T) {
	base := Components{
		Grade: Grade304, Form: FormSheet, Finish: Finish2B,
		WidthMM: 1250, ThicknessMM: 2, LengthMM: 2500,
	}

	tests := []struct {
		name   string
		mutate func(*Components)
		want   error
	}{
		{"no grade", func(c *Components) { c.Grade = "" }, ErrMissingGrade},
		{"no form", func(c *Components) { c.Form = "" }, ErrMissingForm},
		{"no finish", func(c *Components) { c.Finish = "" }, ErrMissingFinish},
		{"no width", func(c *Components) { c.WidthMM = 0 }, ErrInvalidWidth},
		{"no thickness", func(c *Components) { c.ThicknessMM = 0 }, ErrInvalidThickness},
		{"no length", func(c *Components) { c.LengthMM = 0 }, ErrInvalidLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			_, err := Generate(c)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// coil product needs no length
	c := base
	c.LengthMM = 0
	c.Coil = true
	out, err := Generate(c)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "-COIL"))
}

func TestNeedsMigration(t *testing.T) {
	assert.False(t, NeedsMigration(""))
	assert.False(t, NeedsMigration("   "))
	assert.True(t, NeedsMigration("garbage"))
	assert.True(t, NeedsMigration("SS 304 Sheet 2B"))
	assert.False(t, NeedsMigration("SS-304-SHEET-2B-1250mm-2.0mm-2500mm"))
}
