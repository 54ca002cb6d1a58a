package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/storage"
)

// Publisher is the notification sink for entry events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// EntryService creates, updates, deletes and reads net worth entries. Writes go to SQLite
// in one transaction; notifications are published afterwards and never fail the call.
type EntryService struct {
	repo         *storage.SQLiteRepository
	publisher    Publisher
	logger       *log.Logger
	queryTimeout time.Duration
	now          func() time.Time
}

type EntryServiceOption func(*EntryService)

// WithQueryTimeout bounds every operation, transaction included.
func WithQueryTimeout(d time.Duration) EntryServiceOption {
	return func(s *EntryService) { s.queryTimeout = d }
}

// WithClock overrides the clock used for the cash position published after writes.
func WithClock(now func() time.Time) EntryServiceOption {
	return func(s *EntryService) { s.now = now }
}

// NewEntryService wires the service. publisher may be nil, in which case notifications are
// skipped.
func NewEntryService(repo *storage.SQLiteRepository, publisher Publisher, logger *log.Logger, opts ...EntryServiceOption) *EntryService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &EntryService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentEntries),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EntryService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Create validates and stores a new entry, then returns it as read back from storage.
func (s *EntryService) Create(ctx context.Context, uid int64, in core.EntryInput) (core.Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.validate(ctx, in); err != nil {
		return core.Entry{}, err
	}

	var entryID int64
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		id, err := q.InsertEntry(ctx, uid, in.Date)
		if err != nil {
			return err
		}
		entryID = id
		return writeEntryContent(ctx, q, id, in)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create entry",
			log.FieldUID, uid, log.FieldDate, in.Date.String(), log.FieldError, err)
		return core.Entry{}, core.StorageFailure("create entry", err)
	}

	entry, err := s.read(ctx, uid, entryID)
	if err != nil {
		return core.Entry{}, err
	}

	s.logger.InfoContext(ctx, "Entry created",
		log.FieldUID, uid,
		log.FieldEntryID, entryID,
		log.FieldDate, entry.Date.String(),
		log.FieldValues, len(entry.Values))

	s.publish(ctx, amqp.UserTopic(amqp.TopicEntryCreated, uid), entry)
	s.publishCashTotal(ctx, uid)
	return entry, nil
}

// Update replaces the content of an entry, touching only the rows the change requires.
// No notification is published.
func (s *EntryService) Update(ctx context.Context, uid, entryID int64, in core.EntryInput) (core.Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.validate(ctx, in); err != nil {
		return core.Entry{}, err
	}

	var diff EntryDiff
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		diff, err = updateEntry(ctx, q, uid, entryID, in)
		return err
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update entry",
			log.FieldUID, uid, log.FieldEntryID, entryID, log.FieldError, err)
		return core.Entry{}, core.StorageFailure("update entry", err)
	}

	s.logger.InfoContext(ctx, "Entry updated",
		log.FieldUID, uid,
		log.FieldEntryID, entryID,
		"deleted_values", len(diff.DeletedValues),
		"changed_values", len(diff.ChangedValues))

	return s.read(ctx, uid, entryID)
}

// Delete removes an entry and, through cascading keys, everything it owns.
func (s *EntryService) Delete(ctx context.Context, uid, entryID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repo.Queries().DeleteEntry(ctx, uid, entryID)
	if err != nil {
		return core.StorageFailure("delete entry", err)
	}
	if n == 0 {
		return core.NotFound("entry does not exist", entryID)
	}

	s.logger.InfoContext(ctx, "Entry deleted", log.FieldUID, uid, log.FieldEntryID, entryID)

	s.publish(ctx, amqp.UserTopic(amqp.TopicEntryDeleted, uid), amqp.EntryDeleted{ID: entryID})
	s.publishCashTotal(ctx, uid)
	return nil
}

func (s *EntryService) Read(ctx context.Context, uid, entryID int64) (core.Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.read(ctx, uid, entryID)
}

func (s *EntryService) read(ctx context.Context, uid, entryID int64) (core.Entry, error) {
	rows, err := s.repo.Queries().SelectEntry(ctx, uid, entryID)
	if err != nil {
		return core.Entry{}, core.StorageFailure("read entry", err)
	}
	if len(rows) == 0 {
		return core.Entry{}, core.NotFound("entry does not exist", entryID)
	}
	return CombineEntry(uid, rows)
}

// ReadAll returns every entry of uid dated on or after since, oldest first.
func (s *EntryService) ReadAll(ctx context.Context, uid int64, since core.Date) ([]core.Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.repo.Queries().SelectAllEntries(ctx, uid, since)
	if err != nil {
		return nil, core.StorageFailure("read entries", err)
	}
	entries, err := CombineEntries(uid, rows)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	return entries, nil
}

// ReadAggregates returns the bucket sums of every entry dated in [start, end), most recent
// first.
func (s *EntryService) ReadAggregates(ctx context.Context, uid int64, start, end core.Date) ([]core.AggregateRow, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.readAggregates(ctx, uid, start, end)
}

func (s *EntryService) readAggregates(ctx context.Context, uid int64, start, end core.Date) ([]core.AggregateRow, error) {
	if end.Before(start.Time) {
		return nil, core.BadRequest("aggregate window ends before it starts")
	}
	rows, err := s.repo.Queries().SelectAggregateRows(ctx, uid, start, end)
	if err != nil {
		return nil, core.StorageFailure("read aggregates", err)
	}
	aggregates := Aggregate(rows)
	if aggregates == nil {
		aggregates = []core.AggregateRow{}
	}
	return aggregates, nil
}

// ReadLatestCashPosition returns the cash buckets of the latest entry dated on or before
// asOf, or nil when there is none.
func (s *EntryService) ReadLatestCashPosition(ctx context.Context, uid int64, asOf core.Date) (*core.CashPosition, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.readLatestCashPosition(ctx, uid, asOf)
}

func (s *EntryService) readLatestCashPosition(ctx context.Context, uid int64, asOf core.Date) (*core.CashPosition, error) {
	rows, err := s.repo.Queries().SelectLatestAggregateRows(ctx, uid, asOf)
	if err != nil {
		return nil, core.StorageFailure("read cash position", err)
	}
	return CashPositionOf(rows), nil
}

// ReadLoans returns the history of every loan of uid, oldest state first.
func (s *EntryService) ReadLoans(ctx context.Context, uid int64) ([]core.LoanHistory, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.repo.Queries().SelectLoanHistory(ctx, uid)
	if err != nil {
		return nil, core.StorageFailure("read loans", err)
	}

	loans := []core.LoanHistory{}
	for _, row := range rows {
		if len(loans) == 0 || loans[len(loans)-1].SubcategoryID != row.SubcategoryID {
			loans = append(loans, core.LoanHistory{
				SubcategoryID: row.SubcategoryID,
				Subcategory:   row.Subcategory,
			})
		}
		var principal int64
		if row.Simple != nil {
			principal = -*row.Simple
		}
		history := &loans[len(loans)-1]
		history.Values = append(history.Values, core.LoanSnapshot{
			Date: row.Date,
			Loan: core.Loan{
				Principal:         principal,
				PaymentsRemaining: row.PaymentsRemaining,
				Rate:              row.Rate,
				Paid:              row.Paid,
			},
		})
	}
	return loans, nil
}

// ReadSummary runs the aggregate and cash position reads concurrently.
func (s *EntryService) ReadSummary(ctx context.Context, uid int64, start, end, asOf core.Date) (core.Summary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var summary core.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		aggregates, err := s.readAggregates(gctx, uid, start, end)
		summary.Aggregates = aggregates
		return err
	})
	g.Go(func() error {
		cash, err := s.readLatestCashPosition(gctx, uid, asOf)
		summary.Cash = cash
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, err
	}
	return summary, nil
}

// validate runs the structural checks, then the reference checks against stored
// sub-categories.
func (s *EntryService) validate(ctx context.Context, in core.EntryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	valueSubs := valueSubcategories(in.Values)
	creditSubs := creditLimitSubcategories(in.CreditLimits)
	known, err := s.repo.Queries().SelectSubcategoryInfo(ctx, uniqueIDs(valueSubs, creditSubs))
	if err != nil {
		return core.StorageFailure("load subcategories", err)
	}
	return ValidateEntry(known, valueSubs, creditSubs)
}

func (s *EntryService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "Publisher not available, skipping notification", log.FieldTopic, topic)
		return
	}
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish notification",
			log.FieldTopic, topic, log.FieldError, err)
	}
}

func (s *EntryService) publishCashTotal(ctx context.Context, uid int64) {
	if s.publisher == nil {
		return
	}
	cash, err := s.readLatestCashPosition(ctx, uid, core.DateOf(s.now()))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read cash position for notification",
			log.FieldUID, uid, log.FieldError, err)
		return
	}
	s.publish(ctx, amqp.UserTopic(amqp.TopicCashTotalUpdated, uid), cash)
}

// updateEntry rewrites an entry inside the caller's transaction. The date update comes
// first so the transaction holds the write lock before the prior state is read and diffed.
func updateEntry(ctx context.Context, q *storage.Queries, uid, entryID int64, in core.EntryInput) (EntryDiff, error) {
	n, err := q.UpdateEntryDate(ctx, uid, entryID, in.Date)
	if err != nil {
		return EntryDiff{}, err
	}
	if n == 0 {
		return EntryDiff{}, core.NotFound("entry does not exist", entryID)
	}

	rows, err := q.SelectEntry(ctx, uid, entryID)
	if err != nil {
		return EntryDiff{}, err
	}
	before, err := CombineEntry(uid, rows)
	if err != nil {
		return EntryDiff{}, err
	}

	diff := DiffEntry(before, in)
	if err := applyDiff(ctx, q, entryID, diff); err != nil {
		return EntryDiff{}, err
	}
	return diff, writeEntryContent(ctx, q, entryID, in)
}

// applyDiff removes the rows made stale by an update. It runs before the rewrite so that
// replaced child rows never pile up.
func applyDiff(ctx context.Context, q *storage.Queries, entryID int64, diff EntryDiff) error {
	if err := q.DeleteValues(ctx, entryID, diff.DeletedValues); err != nil {
		return err
	}
	if err := q.DeleteCreditLimits(ctx, entryID, diff.DeletedCreditLimits); err != nil {
		return err
	}
	if err := q.DeleteCurrencies(ctx, entryID, diff.DeletedCurrencies); err != nil {
		return err
	}
	if err := q.DeleteFXValues(ctx, entryID, diff.ChangedValues); err != nil {
		return err
	}
	if err := q.DeleteLoanValues(ctx, entryID, diff.ChangedValues); err != nil {
		return err
	}
	return q.DeleteOptionValues(ctx, entryID, diff.AllSubcategories)
}

// writeEntryContent upserts values, their child rows, credit limits and currencies of an
// entry. Every write is keyed on a natural key so running it twice changes nothing.
func writeEntryContent(ctx context.Context, q *storage.Queries, entryID int64, in core.EntryInput) error {
	decomposed := make([]storage.ValueRows, len(in.Values))
	parents := make([]storage.ValueRow, len(in.Values))
	for i, v := range in.Values {
		decomposed[i] = storage.Decompose(v, entryID)
		parents[i] = decomposed[i].Value
	}

	ids, err := q.UpsertValues(ctx, parents)
	if err != nil {
		return err
	}

	var (
		fx      []storage.FXRow
		options []storage.OptionRow
		loans   []storage.LoanRow
	)
	for i, rows := range decomposed {
		rows = rows.WithValueID(ids[i])
		fx = append(fx, rows.FX...)
		if rows.Option != nil {
			options = append(options, *rows.Option)
		}
		if rows.Loan != nil {
			loans = append(loans, *rows.Loan)
		}
	}

	if err := q.InsertFXValues(ctx, fx); err != nil {
		return err
	}
	if err := q.InsertOptionValues(ctx, options); err != nil {
		return err
	}
	if err := q.UpsertLoanValues(ctx, loans); err != nil {
		return err
	}
	if err := q.UpsertCreditLimits(ctx, entryID, in.CreditLimits); err != nil {
		return err
	}
	return q.UpsertCurrencies(ctx, entryID, in.Currencies)
}
