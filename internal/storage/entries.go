package storage

import (
	"context"
	"fmt"

	"networth/internal/core"
)

func (q *Queries) InsertEntry(ctx context.Context, uid int64, date core.Date) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO net_worth (uid, date) VALUES (?, ?) RETURNING id`,
		uid, date.String(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// UpdateEntryDate returns the number of rows touched, zero when the entry does not
// exist or belongs to another user.
func (q *Queries) UpdateEntryDate(ctx context.Context, uid, entryID int64, date core.Date) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE net_worth SET date = ? WHERE id = ? AND uid = ?`,
		date.String(), entryID, uid,
	)
	if err != nil {
		return 0, fmt.Errorf("update entry date: %w", err)
	}
	return res.RowsAffected()
}

// DeleteEntry removes the entry; foreign keys cascade to every child table.
func (q *Queries) DeleteEntry(ctx context.Context, uid, entryID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM net_worth WHERE id = ? AND uid = ?`,
		entryID, uid,
	)
	if err != nil {
		return 0, fmt.Errorf("delete entry: %w", err)
	}
	return res.RowsAffected()
}

// UpsertValues writes parent value rows keyed on (entry, subcategory) and returns the row
// IDs in input order.
func (q *Queries) UpsertValues(ctx context.Context, rows []ValueRow) ([]int64, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	stmt, err := q.db.PrepareContext(ctx, `
		INSERT INTO net_worth_values (net_worth_id, subcategory, skip, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (net_worth_id, subcategory)
		DO UPDATE SET skip = excluded.skip, value = excluded.value
		RETURNING id`)
	if err != nil {
		return nil, fmt.Errorf("prepare value upsert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, len(rows))
	for i, row := range rows {
		if err := stmt.QueryRowContext(ctx,
			row.EntryID, row.Subcategory, row.Skip, nullableInt64(row.Simple),
		).Scan(&ids[i]); err != nil {
			return nil, fmt.Errorf("upsert value for subcategory %d: %w", row.Subcategory, err)
		}
	}
	return ids, nil
}

func (q *Queries) InsertFXValues(ctx context.Context, rows []FXRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO net_worth_fx_values (values_id, value, currency) VALUES `
	args := make([]interface{}, 0, len(rows)*3)
	for i, row := range rows {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?)"
		args = append(args, row.ValueID, row.Value, row.Currency)
	}
	query += ` ON CONFLICT (values_id, currency) DO UPDATE SET value = excluded.value`

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fx values: %w", err)
	}
	return nil
}

// InsertOptionValues writes option rows, replacing the row of a value that already has one.
func (q *Queries) InsertOptionValues(ctx context.Context, rows []OptionRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO net_worth_option_values (values_id, units, strike_price, market_price, vested) VALUES `
	args := make([]interface{}, 0, len(rows)*5)
	for i, row := range rows {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, row.ValueID, row.Units, row.StrikePrice, row.MarketPrice, row.Vested)
	}
	query += ` ON CONFLICT (values_id) DO UPDATE SET
		units = excluded.units,
		strike_price = excluded.strike_price,
		market_price = excluded.market_price,
		vested = excluded.vested`

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert option values: %w", err)
	}
	return nil
}

func (q *Queries) UpsertLoanValues(ctx context.Context, rows []LoanRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO net_worth_loan_values (values_id, payments_remaining, rate, paid) VALUES `
	args := make([]interface{}, 0, len(rows)*4)
	for i, row := range rows {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?)"
		args = append(args, row.ValueID, row.PaymentsRemaining, row.Rate, nullableInt64(row.Paid))
	}
	query += ` ON CONFLICT (values_id) DO UPDATE SET
		payments_remaining = excluded.payments_remaining,
		rate = excluded.rate,
		paid = excluded.paid`

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert loan values: %w", err)
	}
	return nil
}

func (q *Queries) UpsertCreditLimits(ctx context.Context, entryID int64, limits []core.CreditLimit) error {
	if len(limits) == 0 {
		return nil
	}
	query := `INSERT INTO net_worth_credit_limit (net_worth_id, subcategory, value) VALUES `
	args := make([]interface{}, 0, len(limits)*3)
	for i, cl := range limits {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?)"
		args = append(args, entryID, cl.Subcategory, cl.Value)
	}
	query += ` ON CONFLICT (net_worth_id, subcategory) DO UPDATE SET value = excluded.value`

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert credit limits: %w", err)
	}
	return nil
}

func (q *Queries) UpsertCurrencies(ctx context.Context, entryID int64, currencies []core.Currency) error {
	if len(currencies) == 0 {
		return nil
	}
	query := `INSERT INTO net_worth_currencies (net_worth_id, currency, rate) VALUES `
	args := make([]interface{}, 0, len(currencies)*3)
	for i, c := range currencies {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?)"
		args = append(args, entryID, c.Currency, c.Rate)
	}
	query += ` ON CONFLICT (net_worth_id, currency) DO UPDATE SET rate = excluded.rate`

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert currencies: %w", err)
	}
	return nil
}

func (q *Queries) DeleteValues(ctx context.Context, entryID int64, subcategories []int64) error {
	if len(subcategories) == 0 {
		return nil
	}
	query := `DELETE FROM net_worth_values WHERE net_worth_id = ? AND subcategory IN (` + placeholders(len(subcategories)) + `)`
	args := append([]interface{}{entryID}, int64Args(subcategories)...)
	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete values: %w", err)
	}
	return nil
}

func (q *Queries) DeleteCreditLimits(ctx context.Context, entryID int64, subcategories []int64) error {
	if len(subcategories) == 0 {
		return nil
	}
	query := `DELETE FROM net_worth_credit_limit WHERE net_worth_id = ? AND subcategory IN (` + placeholders(len(subcategories)) + `)`
	args := append([]interface{}{entryID}, int64Args(subcategories)...)
	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete credit limits: %w", err)
	}
	return nil
}

func (q *Queries) DeleteCurrencies(ctx context.Context, entryID int64, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	query := `DELETE FROM net_worth_currencies WHERE net_worth_id = ? AND currency IN (` + placeholders(len(codes)) + `)`
	args := append([]interface{}{entryID}, stringArgs(codes)...)
	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete currencies: %w", err)
	}
	return nil
}

// deleteChildRows removes rows of a value child table for the given sub-categories of an entry.
func (q *Queries) deleteChildRows(ctx context.Context, table string, entryID int64, subcategories []int64) error {
	if len(subcategories) == 0 {
		return nil
	}
	query := `DELETE FROM ` + table + ` WHERE values_id IN (
		SELECT id FROM net_worth_values
		WHERE net_worth_id = ? AND subcategory IN (` + placeholders(len(subcategories)) + `))`
	args := append([]interface{}{entryID}, int64Args(subcategories)...)
	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (q *Queries) DeleteFXValues(ctx context.Context, entryID int64, subcategories []int64) error {
	return q.deleteChildRows(ctx, "net_worth_fx_values", entryID, subcategories)
}

func (q *Queries) DeleteOptionValues(ctx context.Context, entryID int64, subcategories []int64) error {
	return q.deleteChildRows(ctx, "net_worth_option_values", entryID, subcategories)
}

func (q *Queries) DeleteLoanValues(ctx context.Context, entryID int64, subcategories []int64) error {
	return q.deleteChildRows(ctx, "net_worth_loan_values", entryID, subcategories)
}

// EntryRowCounts reports how many rows an entry owns in each table.
type EntryRowCounts struct {
	Entries      int64
	Values       int64
	FX           int64
	Options      int64
	Loans        int64
	Currencies   int64
	CreditLimits int64
}

func (q *Queries) CountEntryRows(ctx context.Context, uid int64) (EntryRowCounts, error) {
	var c EntryRowCounts
	err := q.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM net_worth WHERE uid = ?1),
			(SELECT COUNT(*) FROM net_worth_values v JOIN net_worth nw ON nw.id = v.net_worth_id WHERE nw.uid = ?1),
			(SELECT COUNT(*) FROM net_worth_fx_values fx JOIN net_worth_values v ON v.id = fx.values_id
				JOIN net_worth nw ON nw.id = v.net_worth_id WHERE nw.uid = ?1),
			(SELECT COUNT(*) FROM net_worth_option_values o JOIN net_worth_values v ON v.id = o.values_id
				JOIN net_worth nw ON nw.id = v.net_worth_id WHERE nw.uid = ?1),
			(SELECT COUNT(*) FROM net_worth_loan_values l JOIN net_worth_values v ON v.id = l.values_id
				JOIN net_worth nw ON nw.id = v.net_worth_id WHERE nw.uid = ?1),
			(SELECT COUNT(*) FROM net_worth_currencies c JOIN net_worth nw ON nw.id = c.net_worth_id WHERE nw.uid = ?1),
			(SELECT COUNT(*) FROM net_worth_credit_limit cl JOIN net_worth nw ON nw.id = cl.net_worth_id WHERE nw.uid = ?1)
	`, uid).Scan(&c.Entries, &c.Values, &c.FX, &c.Options, &c.Loans, &c.Currencies, &c.CreditLimits)
	if err != nil {
		return EntryRowCounts{}, fmt.Errorf("count entry rows: %w", err)
	}
	return c, nil
}
