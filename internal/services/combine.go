package services

import (
	"fmt"

	"networth/internal/core"
	"networth/internal/storage"
)

// CombineEntry rebuilds one entry from its joined rows. Rows must all belong to the same
// entry; values keep the row order.
func CombineEntry(uid int64, rows []storage.JoinedEntryRow) (core.Entry, error) {
	if len(rows) == 0 {
		return core.Entry{}, core.NotFound("entry does not exist")
	}

	first := rows[0]
	entry := core.Entry{
		ID:           first.ID,
		UID:          uid,
		Date:         first.Date,
		Currencies:   combineCurrencies(first),
		CreditLimits: combineCreditLimits(first),
		Values:       make([]core.Value, 0, len(rows)),
	}

	for _, row := range rows {
		if row.ID != entry.ID {
			return core.Entry{}, fmt.Errorf("combine entry %d: row of entry %d", entry.ID, row.ID)
		}
		// An entry without values joins to a single row with no value columns.
		if row.ValueID == nil {
			continue
		}
		v, err := storage.Compose(valueRows(row))
		if err != nil {
			return core.Entry{}, fmt.Errorf("combine entry %d: %w", entry.ID, err)
		}
		entry.Values = append(entry.Values, v)
	}
	return entry, nil
}

// CombineEntries splits rows ordered by entry into consecutive groups and combines each.
func CombineEntries(uid int64, rows []storage.JoinedEntryRow) ([]core.Entry, error) {
	var entries []core.Entry
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].ID == rows[start].ID {
			end++
		}
		entry, err := CombineEntry(uid, rows[start:end])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		start = end
	}
	return entries, nil
}

func combineCurrencies(row storage.JoinedEntryRow) []core.Currency {
	if len(row.Currencies) == 0 || row.Currencies[0] == nil {
		return []core.Currency{}
	}
	out := make([]core.Currency, 0, len(row.Currencies))
	for i, code := range row.Currencies {
		if code == nil {
			continue
		}
		c := core.Currency{Currency: *code}
		if i < len(row.CurrencyRates) && row.CurrencyRates[i] != nil {
			c.Rate = *row.CurrencyRates[i]
		}
		out = append(out, c)
	}
	return out
}

func combineCreditLimits(row storage.JoinedEntryRow) []core.CreditLimit {
	if len(row.CreditLimitSubcategory) == 0 || row.CreditLimitSubcategory[0] == nil {
		return []core.CreditLimit{}
	}
	out := make([]core.CreditLimit, 0, len(row.CreditLimitSubcategory))
	for i, sub := range row.CreditLimitSubcategory {
		if sub == nil {
			continue
		}
		cl := core.CreditLimit{Subcategory: *sub}
		if i < len(row.CreditLimitValue) && row.CreditLimitValue[i] != nil {
			cl.Value = *row.CreditLimitValue[i]
		}
		out = append(out, cl)
	}
	return out
}

// valueRows maps the value columns of a joined row back onto the normalized row shapes.
func valueRows(row storage.JoinedEntryRow) storage.ValueRows {
	valueID := *row.ValueID
	rows := storage.ValueRows{
		Value: storage.ValueRow{
			ID:      valueID,
			EntryID: row.ID,
			Simple:  row.ValueSimple,
		},
	}
	if row.ValueSubcategory != nil {
		rows.Value.Subcategory = *row.ValueSubcategory
	}
	if row.ValueSkip != nil {
		rows.Value.Skip = *row.ValueSkip
	}

	// FX amounts and codes are aggregated in the same currency order, so positions pair up.
	if len(row.FXCurrencies) > 0 && row.FXCurrencies[0] != nil {
		for i, code := range row.FXCurrencies {
			if code == nil || i >= len(row.FXValues) {
				continue
			}
			var amount float64
			if row.FXValues[i] != nil {
				amount = *row.FXValues[i]
			}
			rows.FX = append(rows.FX, storage.FXRow{ValueID: valueID, Value: amount, Currency: *code})
		}
	}

	if row.OpUnits != nil {
		option := &storage.OptionRow{ValueID: valueID, Units: *row.OpUnits}
		if row.OpStrikePrice != nil {
			option.StrikePrice = *row.OpStrikePrice
		}
		if row.OpMarketPrice != nil {
			option.MarketPrice = *row.OpMarketPrice
		}
		if row.OpVested != nil {
			option.Vested = *row.OpVested
		}
		rows.Option = option
	}

	if row.LoanPaymentsRemaining != nil {
		loan := &storage.LoanRow{
			ValueID:           valueID,
			PaymentsRemaining: *row.LoanPaymentsRemaining,
			Paid:              row.LoanPaid,
		}
		if row.LoanRate != nil {
			loan.Rate = *row.LoanRate
		}
		rows.Loan = loan
	}
	return rows
}
