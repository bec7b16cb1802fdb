package trn

// Country is a supported VAT jurisdiction. The set is closed: the four Gulf
// states the trading desk is registered in. Adding a country requires a new
// rule from the compliance team, not just a map entry.
type Country string

const (
	CountryAE Country = "AE"
	CountrySA Country = "SA"
	CountryBH Country = "BH"
	CountryOM Country = "OM"
)

// rule is one jurisdiction's offline format rule. Digits is the exact
// length after stripping formatting characters; Prefix, when set, must lead
// the digit string.
type rule struct {
	Digits      int
	Prefix      string
	Description string
	Example     string
	ManualURL   string
}

// rules is the single source for per-country validation, guidance text and
// manual verification fallbacks.
var rules = map[Country]rule{
	CountryAE: {
		Digits:      15,
		Prefix:      "100",
		Description: "15 digits starting with 100",
		Example:     "100123456789012",
		ManualURL:   "https://eservices.tax.gov.ae/en-us/trn-verify",
	},
	CountrySA: {
		Digits:      15,
		Prefix:      "3",
		Description: "15 digits starting with 3",
		Example:     "310122393500003",
		ManualURL:   "https://zatca.gov.sa/en/eServices/Pages/TaxpayerLookup.aspx",
	},
	CountryBH: {
		Digits:      13,
		Description: "13 digits",
		Example:     "2000000898301",
		ManualURL:   "https://www.nbr.gov.bh/vat_verify",
	},
	CountryOM: {
		Digits:      8,
		Description: "8 digits",
		Example:     "12345678",
		ManualURL:   "https://tms.taxoman.gov.om/portal/web/taxportal/tax-verification",
	},
}

// Countries lists the supported jurisdictions in canonical order.
func Countries() []Country {
	return []Country{CountryAE, CountrySA, CountryBH, CountryOM}
}

// Error codes carried on FormatResult so the UI can distinguish an empty
// field from a malformed one.
const (
	CodeRequired           = "required"
	CodeInvalidFormat      = "invalid_format"
	CodeUnsupportedCountry = "unsupported_country"
)

// FormatResult is the outcome of an offline format check.
type FormatResult struct {
	Valid bool   `json:"valid"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// FormatDescription is the inline guidance for one jurisdiction.
type FormatDescription struct {
	Country     Country `json:"country"`
	Description string  `json:"description"`
	Example     string  `json:"example"`
}
