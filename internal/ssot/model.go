package ssot

import "strings"

// Canonical product code grammar for stainless-steel stock:
//
//	SS-{grade}-{form}-{finish}-{width}mm-{thickness}mm-{length}
//
// Length is either a whole number of millimetres followed by "mm" or the
// literal COIL for continuously wound product. Grade, form and finish are
// closed enumerations. These values are ENGINE-CONSTANTS shared with the
// front-end; do not rename or repurpose once used on invoices.
const (
	Prefix = "SS-"

	// LengthCoil marks coil product with no fixed cut length.
	LengthCoil = "COIL"

	// Pattern is the human-readable grammar returned with mismatch errors.
	Pattern = "SS-{grade}-{form}-{finish}-{width}mm-{thickness}mm-{length}"

	// Example is a worked example returned with mismatch errors.
	Example = "SS-304-SHEET-2B-1250mm-2.0mm-2500mm"
)

// Grade is a stainless-steel grade designation.
type Grade string

const (
	Grade201  Grade = "201"
	Grade304  Grade = "304"
	Grade304L Grade = "304L"
	Grade310S Grade = "310S"
	Grade316  Grade = "316"
	Grade316L Grade = "316L"
	Grade321  Grade = "321"
	Grade430  Grade = "430"
	Grade441  Grade = "441"
	Grade2205 Grade = "2205"
)

// Form is a product form designation.
type Form string

const (
	FormSheet   Form = "SHEET"
	FormPlate   Form = "PLATE"
	FormCoil    Form = "COIL"
	FormPipe    Form = "PIPE"
	FormTube    Form = "TUBE"
	FormBar     Form = "BAR"
	FormRod     Form = "ROD"
	FormAngle   Form = "ANGLE"
	FormChannel Form = "CHANNEL"
	FormFlat    Form = "FLAT"
)

// Finish is a surface finish designation.
type Finish string

const (
	Finish2B     Finish = "2B"
	Finish2D     Finish = "2D"
	FinishBA     Finish = "BA"
	FinishNo1    Finish = "NO1"
	FinishNo4    Finish = "NO4"
	FinishHL     Finish = "HL"
	FinishMirror Finish = "MIRROR"
)

var (
	grades = map[Grade]struct{}{
		Grade201: {}, Grade304: {}, Grade304L: {}, Grade310S: {}, Grade316: {},
		Grade316L: {}, Grade321: {}, Grade430: {}, Grade441: {}, Grade2205: {},
	}
	forms = map[Form]struct{}{
		FormSheet: {}, FormPlate: {}, FormCoil: {}, FormPipe: {}, FormTube: {},
		FormBar: {}, FormRod: {}, FormAngle: {}, FormChannel: {}, FormFlat: {},
	}
	finishes = map[Finish]struct{}{
		Finish2B: {}, Finish2D: {}, FinishBA: {}, FinishNo1: {}, FinishNo4: {},
		FinishHL: {}, FinishMirror: {},
	}
)

// Grades lists the valid grade designations in canonical order.
func Grades() []Grade {
	return []Grade{Grade201, Grade304, Grade304L, Grade310S, Grade316, Grade316L, Grade321, Grade430, Grade441, Grade2205}
}

// Forms lists the valid form designations in canonical order.
func Forms() []Form {
	return []Form{FormSheet, FormPlate, FormCoil, FormPipe, FormTube, FormBar, FormRod, FormAngle, FormChannel, FormFlat}
}

// Finishes lists the valid finish designations in canonical order.
func Finishes() []Finish {
	return []Finish{Finish2B, Finish2D, FinishBA, FinishNo1, FinishNo4, FinishHL, FinishMirror}
}

// ValidGrade reports whether value names a known grade. Matching is
// case-insensitive; the SS- prefix is the only case-sensitive token.
func ValidGrade(value string) bool {
	_, ok := grades[Grade(strings.ToUpper(value))]
	return ok
}

func ValidForm(value string) bool {
	_, ok := forms[Form(strings.ToUpper(value))]
	return ok
}

func ValidFinish(value string) bool {
	_, ok := finishes[Finish(strings.ToUpper(value))]
	return ok
}

// Components is a decomposed product code. Immutable by convention; changes
// produce a new value via Generate.
type Components struct {
	Prefix      string  `json:"prefix"`
	Grade       Grade   `json:"grade"`
	Form        Form    `json:"form"`
	Finish      Finish  `json:"finish"`
	WidthMM     int     `json:"width_mm"`
	ThicknessMM float64 `json:"thickness_mm"`
	// LengthMM is zero when Coil is true.
	LengthMM int  `json:"length_mm"`
	Coil     bool `json:"coil"`
	// Raw preserves the original string for traceability; empty for
	// assembled components.
	Raw string `json:"raw,omitempty"`

	// thicknessText preserves the exact thickness lexeme from a parsed
	// code so Generate round-trips "2.0mm" as written.
	thicknessText string
}

// Result is the outcome of a Validate call. Validation failures are data,
// not Go errors.
type Result struct {
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Example string `json:"example,omitempty"`
}
