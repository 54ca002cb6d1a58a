package services

import (
	"testing"

	"networth/internal/core"
	"networth/internal/storage"
)

func i64(v int64) *int64 { return &v }
func f64(v float64) *float64 { return &v }
func str(v string) *string { return &v }
func boolPtr(v bool) *bool { return &v }

func assetRow(entryID, valueID int64, category string) storage.AggregateValueRow {
	return storage.AggregateValueRow{
		EntryID:      entryID,
		Date:         core.NewDate(2024, 1, 31),
		ValueID:      i64(valueID),
		CategoryType: str(string(core.Asset)),
		CategoryName: str(category),
	}
}

func TestAggregateSimpleLiquidCash(t *testing.T) {
	row := assetRow(1, 10, core.CategoryLiquidCash)
	row.Simple = i64(150000)

	got := Aggregate([]storage.AggregateValueRow{row})
	if len(got) != 1 {
		t.Fatalf("expected one row, got %d", len(got))
	}
	if got[0].Assets != 150000 || got[0].LiquidCash != 150000 {
		t.Fatalf("assets=%d liquidCash=%d, want 150000 each", got[0].Assets, got[0].LiquidCash)
	}
	if got[0].Options != 0 || got[0].Liabilities != 0 || got[0].IlliquidEquity != 0 {
		t.Fatalf("unexpected non-zero buckets: %+v", got[0])
	}
	if got[0].Date.String() != "2024-01-31" {
		t.Fatalf("date = %s", got[0].Date)
	}
}

func TestAggregateOptionVesting(t *testing.T) {
	tests := []struct {
		name        string
		saye        *bool
		wantAssets  int64
		wantOptions int64
	}{
		{name: "plain grant", saye: boolPtr(false), wantAssets: 0, wantOptions: 1800},
		{name: "saye grant", saye: boolPtr(true), wantAssets: 3000, wantOptions: 1800},
		{name: "no flag", saye: nil, wantAssets: 0, wantOptions: 1800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := assetRow(1, 10, "Options")
			row.IsSAYE = tt.saye
			row.OpVested = i64(60)
			row.OpStrikePrice = f64(50)
			row.OpMarketPrice = f64(80)

			got := Aggregate([]storage.AggregateValueRow{row})[0]
			if got.Assets != tt.wantAssets {
				t.Errorf("assets = %d, want %d", got.Assets, tt.wantAssets)
			}
			if got.Options != tt.wantOptions {
				t.Errorf("options = %d, want %d", got.Options, tt.wantOptions)
			}
		})
	}
}

func TestAggregateUnderwaterOptionIsZero(t *testing.T) {
	row := assetRow(1, 10, "Options")
	row.OpVested = i64(60)
	row.OpStrikePrice = f64(80)
	row.OpMarketPrice = f64(50)

	if got := Aggregate([]storage.AggregateValueRow{row})[0].Options; got != 0 {
		t.Fatalf("options = %d, want 0", got)
	}
}

func TestAggregateFXConversion(t *testing.T) {
	eur := assetRow(1, 10, core.CategoryInvestments)
	eur.FXValue, eur.FXCurrency, eur.FXRate = f64(100.5), str("EUR"), f64(0.85)
	usd := assetRow(1, 10, core.CategoryInvestments)
	usd.FXValue, usd.FXCurrency, usd.FXRate = f64(10), str("USD"), f64(0.791)
	noRate := assetRow(1, 10, core.CategoryInvestments)
	noRate.FXValue, noRate.FXCurrency = f64(1000), str("JPY")

	got := Aggregate([]storage.AggregateValueRow{eur, usd, noRate})[0]
	// 100.5 * 0.85 * 100 = 8542.5 -> 8542, 10 * 0.791 * 100 = 791
	if got.Investments != 8542+791 {
		t.Fatalf("investments = %d, want %d", got.Investments, 8542+791)
	}
	if got.Assets != got.Investments {
		t.Fatalf("assets = %d, want %d", got.Assets, got.Investments)
	}
}

func TestAggregateTruncatesTowardZero(t *testing.T) {
	row := storage.AggregateValueRow{
		EntryID:      1,
		ValueID:      i64(10),
		CategoryType: str(string(core.Liability)),
		CategoryName: str("Credit cards"),
		FXValue:      f64(-10.005),
		FXCurrency:   str("USD"),
		FXRate:       f64(1),
	}

	if got := Aggregate([]storage.AggregateValueRow{row})[0].Liabilities; got != -1000 {
		t.Fatalf("liabilities = %d, want -1000", got)
	}
}

func TestAggregateBuckets(t *testing.T) {
	pension := assetRow(1, 1, core.CategoryPension)
	pension.Simple = i64(500)
	locked := assetRow(1, 2, core.CategoryLockedCash)
	locked.Simple = i64(300)
	house := assetRow(1, 3, "Property")
	house.Simple = i64(200000)
	house.IsIlliquid = true
	mortgage := storage.AggregateValueRow{
		EntryID:      1,
		ValueID:      i64(4),
		Simple:       i64(-150000),
		CategoryType: str(string(core.Liability)),
		CategoryName: str("Mortgage"),
		IsLoan:       true,
	}

	got := Aggregate([]storage.AggregateValueRow{pension, locked, house, mortgage})[0]
	want := core.AggregateRow{
		EntryID:        1,
		Date:           got.Date,
		Assets:         200800,
		Liabilities:    -150000,
		Pension:        500,
		LockedCash:     300,
		IlliquidEquity: 50000,
	}
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestAggregateSimpleValueDefaults(t *testing.T) {
	row := assetRow(1, 10, "Other")
	row.Simple = i64(42)
	row.IsSAYE = boolPtr(true)

	got := Aggregate([]storage.AggregateValueRow{row})[0]
	if got.Assets != 42 {
		t.Fatalf("assets = %d, want 42", got.Assets)
	}
	if got.Options != 0 {
		t.Fatalf("options = %d, want 0", got.Options)
	}
}

func TestAggregateKeepsEntryOrderAndEmptyEntries(t *testing.T) {
	recent := assetRow(2, 20, core.CategoryLiquidCash)
	recent.Date = core.NewDate(2024, 2, 29)
	recent.Simple = i64(10)
	empty := storage.AggregateValueRow{EntryID: 1, Date: core.NewDate(2024, 1, 31)}

	got := Aggregate([]storage.AggregateValueRow{recent, empty})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].EntryID != 2 || got[1].EntryID != 1 {
		t.Fatalf("order = %d, %d", got[0].EntryID, got[1].EntryID)
	}
	if got[1] != (core.AggregateRow{EntryID: 1, Date: empty.Date}) {
		t.Fatalf("empty entry should aggregate to zeros, got %+v", got[1])
	}
}

func TestCashPositionOf(t *testing.T) {
	if got := CashPositionOf(nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}

	cash := assetRow(1, 1, core.CategoryLiquidCash)
	cash.Simple = i64(700)
	stocks := assetRow(1, 2, core.CategoryInvestments)
	stocks.Simple = i64(900)

	got := CashPositionOf([]storage.AggregateValueRow{cash, stocks})
	if got == nil || got.LiquidCash != 700 || got.Investments != 900 {
		t.Fatalf("unexpected cash position %+v", got)
	}
}
