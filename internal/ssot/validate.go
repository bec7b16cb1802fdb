package ssot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// codePattern checks the overall shape only. Component-level rules (enum
// membership, whole-number width and length) are applied afterwards so the
// caller gets an error naming the offending component rather than a generic
// mismatch.
var codePattern = regexp.MustCompile(`^SS-([A-Za-z0-9]+)-([A-Za-z0-9]+)-([A-Za-z0-9]+)-([0-9]+(?:\.[0-9]+)?)mm-([0-9]+(?:\.[0-9]+)?)mm-([0-9]+(?:\.[0-9]+)?mm|[A-Za-z]+)$`)

// Validate checks raw against the canonical product code grammar. Failures
// are returned as data; Validate never returns a Go error.
func Validate(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Error: "product code is required"}
	}
	if !strings.HasPrefix(raw, Prefix) {
		return Result{
			Error:   `product code must start with "SS-"`,
			Pattern: Pattern,
			Example: Example,
		}
	}

	m := codePattern.FindStringSubmatch(raw)
	if m == nil {
		return Result{
			Error:   "product code does not match the canonical pattern",
			Pattern: Pattern,
			Example: Example,
		}
	}

	grade, form, finish := m[1], m[2], m[3]
	width, thickness, length := m[4], m[5], m[6]

	if !ValidGrade(grade) {
		return Result{Error: fmt.Sprintf("unknown grade %q; valid grades: %s", grade, joinGrades())}
	}
	if !ValidForm(form) {
		return Result{Error: fmt.Sprintf("unknown form %q; valid forms: %s", form, joinForms())}
	}
	if !ValidFinish(finish) {
		return Result{Error: fmt.Sprintf("unknown finish %q; valid finishes: %s", finish, joinFinishes())}
	}

	// Decimals are accepted only for thickness. Width and length are whole
	// millimetres; standard steel gauge convention.
	if !isPositiveInt(width) {
		return Result{Error: "width must be a positive whole number of millimetres"}
	}
	if !isPositiveNumber(thickness) {
		return Result{Error: "thickness must be a positive number of millimetres"}
	}
	if !strings.EqualFold(length, LengthCoil) {
		if !strings.HasSuffix(length, "mm") || !isPositiveInt(strings.TrimSuffix(length, "mm")) {
			return Result{Error: "length must be a positive whole number of millimetres or COIL"}
		}
	}

	return Result{Valid: true}
}

// Parse decomposes a raw product code. It reports false whenever Validate
// would fail; the second return carries no diagnostic, callers wanting one
// should call Validate.
func Parse(raw string) (Components, bool) {
	if !Validate(raw).Valid {
		return Components{}, false
	}
	m := codePattern.FindStringSubmatch(raw)

	width, _ := strconv.Atoi(m[4])
	thickness, _ := strconv.ParseFloat(m[5], 64)

	c := Components{
		Prefix:        Prefix,
		Grade:         Grade(strings.ToUpper(m[1])),
		Form:          Form(strings.ToUpper(m[2])),
		Finish:        Finish(strings.ToUpper(m[3])),
		WidthMM:       width,
		ThicknessMM:   thickness,
		Raw:           raw,
		thicknessText: m[5],
	}
	if strings.EqualFold(m[6], LengthCoil) {
		c.Coil = true
	} else {
		length, _ := strconv.Atoi(strings.TrimSuffix(m[6], "mm"))
		c.LengthMM = length
	}
	return c, true
}

// NeedsMigration reports whether a stored product name predates the
// canonical scheme. An absent name is not a migration signal.
func NeedsMigration(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return !Validate(raw).Valid
}

func isPositiveInt(value string) bool {
	n, err := strconv.Atoi(value)
	return err == nil && n > 0
}

func isPositiveNumber(value string) bool {
	n, err := strconv.ParseFloat(value, 64)
	return err == nil && n > 0
}

func joinGrades() string {
	parts := make([]string, 0, len(grades))
	for _, g := range Grades() {
		parts = append(parts, string(g))
	}
	return strings.Join(parts, ", ")
}

func joinForms() string {
	parts := make([]string, 0, len(forms))
	for _, f := range Forms() {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}

func joinFinishes() string {
	parts := make([]string, 0, len(finishes))
	for _, f := range Finishes() {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}
