package core

// Category labels that drive the fixed aggregate buckets.
const (
	CategoryPension     = "Pension"
	CategoryLiquidCash  = "Cash (easy access)"
	CategoryLockedCash  = "Cash (other)"
	CategoryInvestments = "Stocks"
)

type (
	// AggregateRow holds the categorised sums for one historical entry, in minor units.
	AggregateRow struct {
		EntryID        int64 `json:"id"`
		Date           Date  `json:"date"`
		Assets         int64 `json:"assets"`
		Liabilities    int64 `json:"liabilities"`
		Pension        int64 `json:"pension"`
		Options        int64 `json:"options"`
		IlliquidEquity int64 `json:"illiquidEquity"`
		LiquidCash     int64 `json:"liquidCash"`
		LockedCash     int64 `json:"lockedCash"`
		Investments    int64 `json:"investments"`
	}

	// CashPosition is the liquid cash and investment value of the latest entry.
	CashPosition struct {
		Date        Date  `json:"date"`
		LiquidCash  int64 `json:"liquidCash"`
		Investments int64 `json:"investments"`
	}

	LoanSnapshot struct {
		Date Date `json:"date"`
		Loan Loan `json:"value"`
	}

	// LoanHistory lists the recorded states of one loan sub-category, oldest first.
	LoanHistory struct {
		SubcategoryID int64          `json:"subcategoryId"`
		Subcategory   string         `json:"subcategory"`
		Values        []LoanSnapshot `json:"values"`
	}

	Summary struct {
		Aggregates []AggregateRow `json:"aggregates"`
		Cash       *CashPosition  `json:"cash"`
	}
)
