package ssot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingGrade     = errors.New("missing_grade")
	ErrMissingForm      = errors.New("missing_form")
	ErrMissingFinish    = errors.New("missing_finish")
	ErrInvalidWidth     = errors.New("invalid_width")
	ErrInvalidThickness = errors.New("invalid_thickness")
	ErrInvalidLength    = errors.New("invalid_length")
)

// Generate renders components back into a canonical code string. Unlike the
// validate-style entry points it returns an error, because a partially
// specified code has no sensible rendering. Grade, form and finish are
// normalized to uppercase on output.
func Generate(c Components) (string, error) {
	if strings.TrimSpace(string(c.Grade)) == "" {
		return "", ErrMissingGrade
	}
	if strings.TrimSpace(string(c.Form)) == "" {
		return "", ErrMissingForm
	}
	if strings.TrimSpace(string(c.Finish)) == "" {
		return "", ErrMissingFinish
	}
	if c.WidthMM <= 0 {
		return "", ErrInvalidWidth
	}
	if c.ThicknessMM <= 0 {
		return "", ErrInvalidThickness
	}
	if !c.Coil && c.LengthMM <= 0 {
		return "", ErrInvalidLength
	}

	thickness := c.thicknessText
	if thickness == "" {
		thickness = strconv.FormatFloat(c.ThicknessMM, 'f', -1, 64)
	}
	length := LengthCoil
	if !c.Coil {
		length = fmt.Sprintf("%dmm", c.LengthMM)
	}

	return fmt.Sprintf("%s%s-%s-%s-%dmm-%smm-%s",
		Prefix,
		strings.ToUpper(string(c.Grade)),
		strings.ToUpper(string(c.Form)),
		strings.ToUpper(string(c.Finish)),
		c.WidthMM,
		thickness,
		length,
	), nil
}
