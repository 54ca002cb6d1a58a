package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"networth/internal/core"
)

// JoinedEntryRow is one value of an entry joined with the entry-level aggregates.
// Entry-level arrays repeat on every row of the same entry; an empty aggregate decodes
// to a single nil element, as does the FX pair for a value without FX rows.
type JoinedEntryRow struct {
	ID   int64
	Date core.Date

	CurrencyIDs   []*int64
	Currencies    []*string
	CurrencyRates []*float64

	CreditLimitSubcategory []*int64
	CreditLimitValue       []*int64

	ValueID          *int64
	ValueSubcategory *int64
	ValueSkip        *bool
	ValueSimple      *int64
	IsSAYE           *bool

	FXValues     []*float64
	FXCurrencies []*string

	OpUnits       *int64
	OpStrikePrice *float64
	OpMarketPrice *float64
	OpVested      *int64

	LoanPaymentsRemaining *int64
	LoanRate              *float64
	LoanPaid              *int64
}

// exactReal renders a REAL column as text with enough digits to parse back to the same
// float64. json_group_array on the bare column keeps only 15 significant digits.
func exactReal(column string) string {
	return fmt.Sprintf("CASE WHEN %[1]s IS NULL THEN NULL ELSE printf('%%!.17g', %[1]s) END", column)
}

// joinedEntryQuery selects entries matching the given condition on net_worth (aliased nw).
// Every array is ordered by its natural key so positions pair up across arrays.
const joinedEntryQuery = `
WITH entries AS (
	SELECT nw.id, nw.date FROM net_worth nw WHERE %[1]s
),
entry_currencies AS (
	SELECT e.id,
		json_group_array(nwc.id ORDER BY nwc.currency) AS currency_ids,
		json_group_array(nwc.currency ORDER BY nwc.currency) AS currencies,
		json_group_array(%[2]s ORDER BY nwc.currency) AS currency_rates
	FROM entries e
	LEFT JOIN net_worth_currencies nwc ON nwc.net_worth_id = e.id
	GROUP BY e.id
),
entry_credit_limits AS (
	SELECT e.id,
		json_group_array(nwcl.subcategory ORDER BY nwcl.subcategory) AS credit_limit_subcategory,
		json_group_array(nwcl.value ORDER BY nwcl.subcategory) AS credit_limit_value
	FROM entries e
	LEFT JOIN net_worth_credit_limit nwcl ON nwcl.net_worth_id = e.id
	GROUP BY e.id
),
value_fx AS (
	SELECT nwfx.values_id,
		json_group_array(%[3]s ORDER BY nwfx.currency) AS fx_values,
		json_group_array(nwfx.currency ORDER BY nwfx.currency) AS fx_currencies
	FROM net_worth_fx_values nwfx
	JOIN net_worth_values v ON v.id = nwfx.values_id
	JOIN entries e ON e.id = v.net_worth_id
	GROUP BY nwfx.values_id
)
SELECT
	e.id,
	e.date,
	ec.currency_ids,
	ec.currencies,
	ec.currency_rates,
	ecl.credit_limit_subcategory,
	ecl.credit_limit_value,
	nwv.id,
	nwv.subcategory,
	nwv.skip,
	nwv.value,
	nws.is_saye,
	COALESCE(fx.fx_values, '[null]'),
	COALESCE(fx.fx_currencies, '[null]'),
	nwop.units,
	nwop.strike_price,
	nwop.market_price,
	nwop.vested,
	nwl.payments_remaining,
	nwl.rate,
	nwl.paid
FROM entries e
JOIN entry_currencies ec ON ec.id = e.id
JOIN entry_credit_limits ecl ON ecl.id = e.id
LEFT JOIN net_worth_values nwv ON nwv.net_worth_id = e.id
LEFT JOIN net_worth_subcategories nws ON nws.id = nwv.subcategory
LEFT JOIN value_fx fx ON fx.values_id = nwv.id
LEFT JOIN net_worth_option_values nwop ON nwop.values_id = nwv.id
LEFT JOIN net_worth_loan_values nwl ON nwl.values_id = nwv.id
ORDER BY e.date, e.id, nwv.id`

// SelectEntry returns the joined rows of one entry owned by uid; no rows means not found.
func (q *Queries) SelectEntry(ctx context.Context, uid, entryID int64) ([]JoinedEntryRow, error) {
	return q.selectJoinedEntries(ctx, "nw.id = ? AND nw.uid = ?", entryID, uid)
}

// SelectAllEntries returns the joined rows of every entry of uid dated on or after since,
// ascending by date.
func (q *Queries) SelectAllEntries(ctx context.Context, uid int64, since core.Date) ([]JoinedEntryRow, error) {
	return q.selectJoinedEntries(ctx, "nw.uid = ? AND nw.date >= ?", uid, since.String())
}

func (q *Queries) selectJoinedEntries(ctx context.Context, condition string, args ...interface{}) ([]JoinedEntryRow, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(joinedEntryQuery, condition, exactReal("nwc.rate"), exactReal("nwfx.value")), args...)
	if err != nil {
		return nil, fmt.Errorf("select joined entries: %w", err)
	}
	defer rows.Close()

	var out []JoinedEntryRow
	for rows.Next() {
		row, err := scanJoinedEntryRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joined entries: %w", err)
	}
	return out, nil
}

func scanJoinedEntryRow(rows *sql.Rows) (JoinedEntryRow, error) {
	var (
		row    JoinedEntryRow
		date   string
		arrays [7]string
	)
	err := rows.Scan(
		&row.ID,
		&date,
		&arrays[0], &arrays[1], &arrays[2],
		&arrays[3], &arrays[4],
		&row.ValueID,
		&row.ValueSubcategory,
		&row.ValueSkip,
		&row.ValueSimple,
		&row.IsSAYE,
		&arrays[5], &arrays[6],
		&row.OpUnits,
		&row.OpStrikePrice,
		&row.OpMarketPrice,
		&row.OpVested,
		&row.LoanPaymentsRemaining,
		&row.LoanRate,
		&row.LoanPaid,
	)
	if err != nil {
		return JoinedEntryRow{}, fmt.Errorf("scan joined entry row: %w", err)
	}

	if row.Date, err = core.ParseDate(date); err != nil {
		return JoinedEntryRow{}, fmt.Errorf("entry %d: %w", row.ID, err)
	}

	var rates, fxValues []*string
	targets := []interface{}{
		&row.CurrencyIDs, &row.Currencies, &rates,
		&row.CreditLimitSubcategory, &row.CreditLimitValue,
		&fxValues, &row.FXCurrencies,
	}
	for i, target := range targets {
		if err := json.Unmarshal([]byte(arrays[i]), target); err != nil {
			return JoinedEntryRow{}, fmt.Errorf("decode aggregate %d of entry %d: %w", i, row.ID, err)
		}
	}
	if row.CurrencyRates, err = parseReals(rates); err != nil {
		return JoinedEntryRow{}, fmt.Errorf("currency rates of entry %d: %w", row.ID, err)
	}
	if row.FXValues, err = parseReals(fxValues); err != nil {
		return JoinedEntryRow{}, fmt.Errorf("fx values of entry %d: %w", row.ID, err)
	}
	return row, nil
}

// parseReals decodes the text written by exactReal, keeping nil elements.
func parseReals(texts []*string) ([]*float64, error) {
	out := make([]*float64, len(texts))
	for i, text := range texts {
		if text == nil {
			continue
		}
		f, err := strconv.ParseFloat(*text, 64)
		if err != nil {
			return nil, err
		}
		out[i] = &f
	}
	return out, nil
}
