package storage

import (
	"context"
	"fmt"

	"networth/internal/core"
)

// AggregateValueRow is one (value, fx amount) pair of an entry, tagged with the
// category metadata the aggregate buckets filter on. Values carrying several FX
// amounts span several rows; an entry without unskipped values yields one row with a
// nil ValueID.
type AggregateValueRow struct {
	EntryID int64
	Date    core.Date

	ValueID      *int64
	Simple       *int64
	CategoryType *string
	CategoryName *string
	IsSAYE       *bool
	IsIlliquid   bool
	IsLoan       bool

	FXValue    *float64
	FXCurrency *string
	FXRate     *float64

	OpVested      *int64
	OpStrikePrice *float64
	OpMarketPrice *float64
}

const aggregateRowsQuery = `
SELECT
	nw.id,
	nw.date,
	nwv.id,
	nwv.value,
	nwcat.type,
	nwcat.category,
	nws.is_saye,
	COALESCE(nws.appreciation_rate IS NOT NULL, 0),
	nwl.id IS NOT NULL,
	nwfx.value,
	nwfx.currency,
	nwc.rate,
	nwop.vested,
	nwop.strike_price,
	nwop.market_price
FROM net_worth nw
LEFT JOIN net_worth_values nwv ON nwv.net_worth_id = nw.id AND nwv.skip = 0
LEFT JOIN net_worth_subcategories nws ON nws.id = nwv.subcategory
LEFT JOIN net_worth_categories nwcat ON nwcat.id = nws.category_id
LEFT JOIN net_worth_fx_values nwfx ON nwfx.values_id = nwv.id
LEFT JOIN net_worth_option_values nwop ON nwop.values_id = nwv.id
LEFT JOIN net_worth_loan_values nwl ON nwl.values_id = nwv.id
LEFT JOIN net_worth_currencies nwc ON nwc.net_worth_id = nw.id AND nwc.currency = nwfx.currency
WHERE %s
ORDER BY nw.date DESC, nw.id DESC, nwv.id, nwfx.currency`

// SelectAggregateRows returns the value rows of every entry of uid dated in [start, end),
// most recent entry first.
func (q *Queries) SelectAggregateRows(ctx context.Context, uid int64, start, end core.Date) ([]AggregateValueRow, error) {
	return q.selectAggregateRows(ctx,
		"nw.uid = ? AND nw.date >= ? AND nw.date < ?",
		uid, start.String(), end.String())
}

// SelectLatestAggregateRows returns the value rows of the most recent entry of uid dated
// on or before asOf.
func (q *Queries) SelectLatestAggregateRows(ctx context.Context, uid int64, asOf core.Date) ([]AggregateValueRow, error) {
	return q.selectAggregateRows(ctx, `nw.id = (
		SELECT id FROM net_worth
		WHERE uid = ? AND date <= ?
		ORDER BY date DESC, id DESC
		LIMIT 1)`,
		uid, asOf.String())
}

func (q *Queries) selectAggregateRows(ctx context.Context, condition string, args ...interface{}) ([]AggregateValueRow, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(aggregateRowsQuery, condition), args...)
	if err != nil {
		return nil, fmt.Errorf("select aggregate rows: %w", err)
	}
	defer rows.Close()

	var out []AggregateValueRow
	for rows.Next() {
		var (
			row  AggregateValueRow
			date string
		)
		if err := rows.Scan(
			&row.EntryID,
			&date,
			&row.ValueID,
			&row.Simple,
			&row.CategoryType,
			&row.CategoryName,
			&row.IsSAYE,
			&row.IsIlliquid,
			&row.IsLoan,
			&row.FXValue,
			&row.FXCurrency,
			&row.FXRate,
			&row.OpVested,
			&row.OpStrikePrice,
			&row.OpMarketPrice,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		if row.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("entry %d: %w", row.EntryID, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate rows: %w", err)
	}
	return out, nil
}
