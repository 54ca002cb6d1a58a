package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "networth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// seedSubcategory creates a category with one sub-category and returns the sub-category ID.
func seedSubcategory(t *testing.T, q *Queries, name string, typ core.CategoryType) int64 {
	t.Helper()
	ctx := context.Background()
	categoryID, err := q.InsertCategory(ctx, core.Category{Type: typ, Category: name})
	require.NoError(t, err)
	id, err := q.InsertSubcategory(ctx, core.Subcategory{CategoryID: categoryID, Subcategory: name + " sub"})
	require.NoError(t, err)
	return id
}

func TestMigrationsApplied(t *testing.T) {
	repo := newTestRepo(t)

	version, dirty, err := MigrationVersion(repo.Path())
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// Running again on an up-to-date database is a no-op.
	require.NoError(t, RunMigrations(repo.Path()))
}

func TestSelectEntryWithoutChildren(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	q := repo.Queries()

	id, err := q.InsertEntry(ctx, 1, core.NewDate(2024, 1, 31))
	require.NoError(t, err)

	rows, err := q.SelectEntry(ctx, 1, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, id, row.ID)
	assert.Equal(t, "2024-01-31", row.Date.String())
	assert.Nil(t, row.ValueID)
	require.Len(t, row.Currencies, 1)
	assert.Nil(t, row.Currencies[0])
	require.Len(t, row.CreditLimitSubcategory, 1)
	assert.Nil(t, row.CreditLimitSubcategory[0])

	rows, err = q.SelectEntry(ctx, 2, id)
	require.NoError(t, err)
	assert.Empty(t, rows, "entries of other users are invisible")
}

func TestUpsertValuesKeepsIdentity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	q := repo.Queries()
	a := seedSubcategory(t, q, "A", core.Asset)
	b := seedSubcategory(t, q, "B", core.Asset)

	entryID, err := q.InsertEntry(ctx, 1, core.NewDate(2024, 1, 31))
	require.NoError(t, err)

	one, two := int64(1), int64(2)
	first, err := q.UpsertValues(ctx, []ValueRow{
		{EntryID: entryID, Subcategory: b, Simple: &one},
		{EntryID: entryID, Subcategory: a, Simple: &two},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.NotEqual(t, first[0], first[1])

	second, err := q.UpsertValues(ctx, []ValueRow{
		{EntryID: entryID, Subcategory: a, Simple: &one},
		{EntryID: entryID, Subcategory: b, Simple: &two, Skip: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{first[1], first[0]}, second)

	counts, err := q.CountEntryRows(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Values)
}

func TestJoinedRowsPairFXByCurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	q := repo.Queries()
	sub := seedSubcategory(t, q, "Stocks", core.Asset)

	entryID, err := q.InsertEntry(ctx, 1, core.NewDate(2024, 1, 31))
	require.NoError(t, err)
	ids, err := q.UpsertValues(ctx, []ValueRow{{EntryID: entryID, Subcategory: sub}})
	require.NoError(t, err)
	require.NoError(t, q.InsertFXValues(ctx, []FXRow{
		{ValueID: ids[0], Value: 3, Currency: "USD"},
		{ValueID: ids[0], Value: 1, Currency: "CHF"},
		{ValueID: ids[0], Value: 2, Currency: "EUR"},
	}))
	require.NoError(t, q.UpsertCurrencies(ctx, entryID, []core.Currency{
		{Currency: "USD", Rate: 0.8}, {Currency: "CHF", Rate: 0.9},
	}))

	rows, err := q.SelectEntry(ctx, 1, entryID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var codes []string
	var amounts []float64
	for i := range rows[0].FXCurrencies {
		codes = append(codes, *rows[0].FXCurrencies[i])
		amounts = append(amounts, *rows[0].FXValues[i])
	}
	assert.Equal(t, []string{"CHF", "EUR", "USD"}, codes)
	assert.Equal(t, []float64{1, 2, 3}, amounts)

	var currencies []string
	for _, c := range rows[0].Currencies {
		currencies = append(currencies, *c)
	}
	assert.Equal(t, []string{"CHF", "USD"}, currencies)
	assert.Equal(t, 0.9, *rows[0].CurrencyRates[0])
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	paid := int64(10)
	values := []core.Value{
		{Subcategory: 1, Payload: core.Simple{Amount: 5}},
		{Subcategory: 2, Payload: core.FX{{Value: 2.5, Currency: "USD"}, {Value: 1, Currency: "EUR"}}},
		{Subcategory: 3, Skip: true, Payload: core.Option{Units: 10, StrikePrice: 1, MarketPrice: 2, Vested: 5}},
		{Subcategory: 4, Payload: core.Loan{Principal: 1000, PaymentsRemaining: 3, Rate: 2.5, Paid: &paid}},
	}
	for _, v := range values {
		got, err := Compose(Decompose(v, 1).WithValueID(9))
		require.NoError(t, err)
		assert.True(t, got.EqualContent(v), "got %+v, want %+v", got, v)
		assert.Equal(t, int64(9), got.ID)
	}
}

func TestDecomposeLoanStoresNegativePrincipal(t *testing.T) {
	rows := Decompose(core.Value{Subcategory: 1, Payload: core.Loan{Principal: 250000}}, 1)
	require.NotNil(t, rows.Value.Simple)
	assert.Equal(t, int64(-250000), *rows.Value.Simple)
	require.NotNil(t, rows.Loan)
}

func TestDeleteEntryCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	q := repo.Queries()
	sub := seedSubcategory(t, q, "Options", core.Asset)

	entryID, err := q.InsertEntry(ctx, 1, core.NewDate(2024, 1, 31))
	require.NoError(t, err)
	ids, err := q.UpsertValues(ctx, []ValueRow{{EntryID: entryID, Subcategory: sub}})
	require.NoError(t, err)
	require.NoError(t, q.InsertOptionValues(ctx, []OptionRow{{ValueID: ids[0], Units: 1, StrikePrice: 1, MarketPrice: 1, Vested: 1}}))
	require.NoError(t, q.UpsertCurrencies(ctx, entryID, []core.Currency{{Currency: "USD", Rate: 1}}))

	n, err := q.DeleteEntry(ctx, 1, entryID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := q.CountEntryRows(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, EntryRowCounts{}, counts)

	var orphans int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM net_worth_option_values`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestWithTxRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(q *Queries) error {
		if _, err := q.InsertEntry(ctx, 1, core.NewDate(2024, 1, 31)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	counts, err := repo.Queries().CountEntryRows(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, counts.Entries)
}

func TestSelectSubcategoryInfo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	q := repo.Queries()
	a := seedSubcategory(t, q, "Cards", core.Liability)

	infos, err := q.SelectSubcategoryInfo(ctx, []int64{a, 999})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, a, infos[0].ID)
	assert.Equal(t, core.Liability, infos[0].CategoryType)
	assert.Equal(t, "Cards", infos[0].CategoryName)
	assert.Nil(t, infos[0].HasCreditLimit)

	infos, err = q.SelectSubcategoryInfo(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestParseReals(t *testing.T) {
	text := func(s string) *string { return &s }

	got, err := parseReals([]*string{text("0.30000000000000004"), nil, text("100.0")})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 0.1+0.2, *got[0])
	assert.Nil(t, got[1])
	assert.Equal(t, 100.0, *got[2])

	_, err = parseReals([]*string{text("abc")})
	assert.Error(t, err)
}

func TestJoinedRowsKeepExactReals(t *testing.T) {
	repo := newTestRepo(t)
	q := repo.Queries()
	ctx := context.Background()
	sub := seedSubcategory(t, q, "Stocks", core.Asset)
	a, b := 0.1, 0.2

	entryID, err := q.InsertEntry(ctx, 1, core.NewDate(2024, 1, 31))
	require.NoError(t, err)
	ids, err := q.UpsertValues(ctx, []ValueRow{{EntryID: entryID, Subcategory: sub}})
	require.NoError(t, err)
	require.NoError(t, q.InsertFXValues(ctx, []FXRow{{ValueID: ids[0], Value: a + b, Currency: "USD"}}))
	require.NoError(t, q.UpsertCurrencies(ctx, entryID, []core.Currency{{Currency: "USD", Rate: a + b}}))

	rows, err := q.SelectEntry(ctx, 1, entryID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].FXValues, 1)
	assert.Equal(t, a+b, *rows[0].FXValues[0])
	require.Len(t, rows[0].CurrencyRates, 1)
	assert.Equal(t, a+b, *rows[0].CurrencyRates[0])
}
