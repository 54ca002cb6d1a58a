package services

import (
	"github.com/shopspring/decimal"

	"networth/internal/core"
	"networth/internal/storage"
)

var hundred = decimal.NewFromInt(100)

// aggregateValue gathers the rows of one value, which repeat once per FX amount.
type aggregateValue struct {
	simple       int64
	fx           int64
	saye         int64
	optionGain   int64
	categoryType string
	categoryName string
	illiquid     bool
}

// simpleFxSaye is the amount a value contributes to the value-based buckets: the simple
// amount plus converted FX plus the SAYE cost basis, each defaulting to zero.
func (v aggregateValue) simpleFxSaye() int64 {
	return v.simple + v.fx + v.saye
}

// fxMinorUnits converts a whole-currency FX amount into minor units of the reporting
// currency, truncated toward zero. A currency without a rate contributes nothing.
func fxMinorUnits(amount, rate *float64) int64 {
	if amount == nil || rate == nil {
		return 0
	}
	return decimal.NewFromFloat(*amount).
		Mul(decimal.NewFromFloat(*rate)).
		Mul(hundred).
		IntPart()
}

// sayeCost is vested units at the strike price.
func sayeCost(vested *int64, strike *float64) int64 {
	if vested == nil || strike == nil {
		return 0
	}
	return decimal.NewFromInt(*vested).Mul(decimal.NewFromFloat(*strike)).IntPart()
}

// optionGain is vested units at the in-the-money spread, never negative.
func optionGain(vested *int64, strike, market *float64) int64 {
	if vested == nil || strike == nil || market == nil {
		return 0
	}
	spread := decimal.NewFromFloat(*market).Sub(decimal.NewFromFloat(*strike))
	if spread.IsNegative() {
		return 0
	}
	return decimal.NewFromInt(*vested).Mul(spread).IntPart()
}

// Aggregate computes the bucket sums of every entry in rows. Rows are expected grouped by
// entry, and within an entry by value, as storage returns them; the output keeps the
// entry order.
func Aggregate(rows []storage.AggregateValueRow) []core.AggregateRow {
	var out []core.AggregateRow
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].EntryID == rows[start].EntryID {
			end++
		}
		out = append(out, aggregateEntry(rows[start:end]))
		start = end
	}
	return out
}

// CashPositionOf reduces the rows of a single entry to its cash position, nil when there
// is no entry.
func CashPositionOf(rows []storage.AggregateValueRow) *core.CashPosition {
	aggregates := Aggregate(rows)
	if len(aggregates) == 0 {
		return nil
	}
	latest := aggregates[0]
	return &core.CashPosition{
		Date:        latest.Date,
		LiquidCash:  latest.LiquidCash,
		Investments: latest.Investments,
	}
}

func aggregateEntry(rows []storage.AggregateValueRow) core.AggregateRow {
	result := core.AggregateRow{
		EntryID: rows[0].EntryID,
		Date:    rows[0].Date,
	}

	for _, v := range collectValues(rows) {
		amount := v.simpleFxSaye()
		switch core.CategoryType(v.categoryType) {
		case core.Asset:
			result.Assets += amount
		case core.Liability:
			result.Liabilities += amount
		}
		switch v.categoryName {
		case core.CategoryPension:
			result.Pension += amount
		case core.CategoryLiquidCash:
			result.LiquidCash += amount
		case core.CategoryLockedCash:
			result.LockedCash += amount
		case core.CategoryInvestments:
			result.Investments += amount
		}
		result.Options += v.optionGain
		if v.illiquid {
			result.IlliquidEquity += v.simple
		}
	}
	return result
}

// collectValues folds the per-FX rows of each value into one aggregateValue.
func collectValues(rows []storage.AggregateValueRow) []aggregateValue {
	var (
		values []aggregateValue
		lastID int64
	)
	for _, row := range rows {
		if row.ValueID == nil {
			continue
		}
		if len(values) == 0 || *row.ValueID != lastID {
			lastID = *row.ValueID
			v := aggregateValue{
				illiquid:   row.IsIlliquid || row.IsLoan,
				optionGain: optionGain(row.OpVested, row.OpStrikePrice, row.OpMarketPrice),
			}
			if row.Simple != nil {
				v.simple = *row.Simple
			}
			if row.IsSAYE != nil && *row.IsSAYE {
				v.saye = sayeCost(row.OpVested, row.OpStrikePrice)
			}
			if row.CategoryType != nil {
				v.categoryType = *row.CategoryType
			}
			if row.CategoryName != nil {
				v.categoryName = *row.CategoryName
			}
			values = append(values, v)
		}
		values[len(values)-1].fx += fxMinorUnits(row.FXValue, row.FXRate)
	}
	return values
}
