package storage

import (
	"context"
	"fmt"

	"networth/internal/core"
)

// LoanHistoryRow is one recorded state of a loan value.
type LoanHistoryRow struct {
	SubcategoryID     int64
	Subcategory       string
	Date              core.Date
	Simple            *int64
	PaymentsRemaining int64
	Rate              float64
	Paid              *int64
}

// SelectLoanHistory returns every loan value of uid, grouped by sub-category and ordered
// by entry date.
func (q *Queries) SelectLoanHistory(ctx context.Context, uid int64) ([]LoanHistoryRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT nws.id, nws.subcategory, nw.date, nwv.value, nwl.payments_remaining, nwl.rate, nwl.paid
		FROM net_worth_loan_values nwl
		JOIN net_worth_values nwv ON nwv.id = nwl.values_id
		JOIN net_worth nw ON nw.id = nwv.net_worth_id
		JOIN net_worth_subcategories nws ON nws.id = nwv.subcategory
		WHERE nw.uid = ?
		ORDER BY nws.subcategory, nws.id, nw.date`, uid)
	if err != nil {
		return nil, fmt.Errorf("select loan history: %w", err)
	}
	defer rows.Close()

	var out []LoanHistoryRow
	for rows.Next() {
		var (
			row  LoanHistoryRow
			date string
		)
		if err := rows.Scan(&row.SubcategoryID, &row.Subcategory, &date, &row.Simple,
			&row.PaymentsRemaining, &row.Rate, &row.Paid); err != nil {
			return nil, fmt.Errorf("scan loan history row: %w", err)
		}
		if row.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("loan %d: %w", row.SubcategoryID, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loan history: %w", err)
	}
	return out, nil
}
