package storage

import (
	"fmt"

	"networth/internal/core"
)

// Row shapes of the normalized value tables. A logical core.Value is spread over one
// ValueRow and at most one kind of child row.
type (
	ValueRow struct {
		ID          int64
		EntryID     int64
		Subcategory int64
		Skip        bool
		Simple      *int64
	}

	FXRow struct {
		ValueID  int64
		Value    float64
		Currency string
	}

	OptionRow struct {
		ValueID     int64
		Units       int64
		StrikePrice float64
		MarketPrice float64
		Vested      int64
	}

	LoanRow struct {
		ValueID           int64
		PaymentsRemaining int64
		Rate              float64
		Paid              *int64
	}

	// ValueRows is the full normalized form of one value.
	ValueRows struct {
		Value  ValueRow
		FX     []FXRow
		Option *OptionRow
		Loan   *LoanRow
	}
)

// Decompose maps a value onto its parent row and child rows. Child rows carry the
// value's ID, which is zero until the parent row has been written.
func Decompose(v core.Value, entryID int64) ValueRows {
	rows := ValueRows{
		Value: ValueRow{
			ID:          v.ID,
			EntryID:     entryID,
			Subcategory: v.Subcategory,
			Skip:        v.Skip,
		},
	}

	switch p := v.Payload.(type) {
	case core.Simple:
		amount := p.Amount
		rows.Value.Simple = &amount
	case core.FX:
		rows.FX = make([]FXRow, len(p))
		for i, a := range p {
			rows.FX[i] = FXRow{ValueID: v.ID, Value: a.Value, Currency: a.Currency}
		}
	case core.Option:
		rows.Option = &OptionRow{
			ValueID:     v.ID,
			Units:       p.Units,
			StrikePrice: p.StrikePrice,
			MarketPrice: p.MarketPrice,
			Vested:      p.Vested,
		}
	case core.Loan:
		principal := -p.Principal
		rows.Value.Simple = &principal
		rows.Loan = &LoanRow{
			ValueID:           v.ID,
			PaymentsRemaining: p.PaymentsRemaining,
			Rate:              p.Rate,
			Paid:              copyInt64(p.Paid),
		}
	}
	return rows
}

// Compose is the inverse of Decompose. FX rows win over an option row, which wins over a
// loan row; with no child rows the value is simple, defaulting to zero.
func Compose(rows ValueRows) (core.Value, error) {
	v := core.Value{
		ID:          rows.Value.ID,
		Subcategory: rows.Value.Subcategory,
		Skip:        rows.Value.Skip,
	}

	switch {
	case len(rows.FX) > 0:
		fx := make(core.FX, len(rows.FX))
		for i, r := range rows.FX {
			if r.Currency == "" {
				return core.Value{}, fmt.Errorf("compose value %d: fx row without currency", rows.Value.ID)
			}
			fx[i] = core.FXAmount{Value: r.Value, Currency: r.Currency}
		}
		v.Payload = fx
	case rows.Option != nil:
		v.Payload = core.Option{
			Units:       rows.Option.Units,
			StrikePrice: rows.Option.StrikePrice,
			MarketPrice: rows.Option.MarketPrice,
			Vested:      rows.Option.Vested,
		}
	case rows.Loan != nil:
		var principal int64
		if rows.Value.Simple != nil {
			principal = -*rows.Value.Simple
		}
		v.Payload = core.Loan{
			Principal:         principal,
			PaymentsRemaining: rows.Loan.PaymentsRemaining,
			Rate:              rows.Loan.Rate,
			Paid:              copyInt64(rows.Loan.Paid),
		}
	default:
		var amount int64
		if rows.Value.Simple != nil {
			amount = *rows.Value.Simple
		}
		v.Payload = core.Simple{Amount: amount}
	}
	return v, nil
}

// WithValueID stamps the parent row ID onto every child row.
func (r ValueRows) WithValueID(id int64) ValueRows {
	r.Value.ID = id
	if len(r.FX) > 0 {
		fx := make([]FXRow, len(r.FX))
		for i, row := range r.FX {
			row.ValueID = id
			fx[i] = row
		}
		r.FX = fx
	}
	if r.Option != nil {
		option := *r.Option
		option.ValueID = id
		r.Option = &option
	}
	if r.Loan != nil {
		loan := *r.Loan
		loan.ValueID = id
		r.Loan = &loan
	}
	return r
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
