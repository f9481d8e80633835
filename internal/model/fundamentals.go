package model

// Officer is a company executive as reported by the provider.
type Officer struct {
	Name  string
	Title string
}

// Fundamentals holds company-level metrics for one ticker.
// Numeric fields are nil when the provider did not report them.
type Fundamentals struct {
	Ticker Ticker

	CurrentPrice   *float64
	TrailingPE     *float64
	PriceToBook    *float64
	ReturnOnEquity *float64
	ReturnOnAssets *float64
	EBITDAMargins  *float64
	DividendYield  *float64

	LongName        string
	Sector          string
	Industry        string
	Website         string
	Country         string
	BusinessSummary string
	LogoURL         string
	Officers        []Officer

	// Extra keeps provider fields that have no typed home above.
	Extra map[string]any
}

// IsEmpty reports whether no field was populated.
func (f Fundamentals) IsEmpty() bool {
	return f.CurrentPrice == nil && f.TrailingPE == nil && f.PriceToBook == nil &&
		f.ReturnOnEquity == nil && f.ReturnOnAssets == nil && f.EBITDAMargins == nil &&
		f.DividendYield == nil && f.LongName == "" && f.Sector == "" && f.Industry == "" &&
		f.Website == "" && f.Country == "" && f.BusinessSummary == "" && f.LogoURL == "" &&
		len(f.Officers) == 0 && len(f.Extra) == 0
}

// Float returns a pointer to v. Handy for building fundamentals in code and tests.
func Float(v float64) *float64 { return &v }
