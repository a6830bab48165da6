package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// Publisher receives an event after every committed change.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// AddRequest describes a new expense. Empty Category and Currency take the
// defaults; a zero Rate means 1.
type AddRequest struct {
	Description string
	Amount      core.Money
	Category    string
	Currency    string
	Rate        decimal.Decimal
}

// EditRequest describes changes to an existing expense. Empty strings leave
// the field alone. Amount is a pointer so that zero can be set explicitly;
// Rate only matters when Amount is present.
type EditRequest struct {
	ID          int64
	Description string
	Amount      *core.Money
	Category    string
	Currency    string
	Rate        decimal.Decimal
}

// LedgerService runs every ledger operation as load, compute and, for
// mutations, save against a single store.
type LedgerService struct {
	store     storage.Store
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewLedgerService wires the operations to store. publisher may be nil.
func NewLedgerService(store storage.Store, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		now:       time.Now,
	}
}

// WithClock replaces the clock used to date new records.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// Add records a new expense dated today and returns it.
func (s *LedgerService) Add(ctx context.Context, req AddRequest) (core.Expense, error) {
	l, err := s.load(ctx, log.OpAdd)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		ID:          l.AllocateID(),
		Date:        core.DateOf(s.now()),
		Description: req.Description,
		Category:    orDefault(req.Category, core.DefaultCategory),
		Currency:    orDefault(req.Currency, core.DefaultCurrency),
	}
	e.OriginalAmount, e.Amount = convert(req.Amount, req.Rate)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	l.Append(e)

	if err := s.save(ctx, log.OpAdd, l); err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense added", log.NewFields().
		WithOperation(log.OpAdd).
		WithExpense(e.ID, e.Description, e.Amount.String(), e.OriginalAmount.String(), e.Category, e.Currency).
		ToSlice()...)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventExpenseAdded, e.ID, &e))
	return e, nil
}

// List returns every record in stored order.
func (s *LedgerService) List(ctx context.Context) ([]core.Expense, error) {
	l, err := s.load(ctx, log.OpList)
	if err != nil {
		return nil, err
	}
	return l.Expenses, nil
}

// Summary totals base amounts, optionally restricted to one month of any
// year. Month 0 means every record.
func (s *LedgerService) Summary(ctx context.Context, month int) (core.Summary, error) {
	if month != 0 {
		if err := core.ValidateMonth(month); err != nil {
			return core.Summary{}, err
		}
	}
	l, err := s.load(ctx, log.OpSummary)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(l.Expenses, month), nil
}

// Delete removes every record carrying id and reports how many went. When
// nothing matches it returns core.ErrNotFound without writing.
func (s *LedgerService) Delete(ctx context.Context, id int64) (int, error) {
	l, err := s.load(ctx, log.OpDelete)
	if err != nil {
		return 0, err
	}

	removed := l.Remove(id)
	if removed == 0 {
		return 0, fmt.Errorf("%w: id %d", core.ErrNotFound, id)
	}
	if err := s.save(ctx, log.OpDelete, l); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id,
		log.FieldRemoved, removed)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventExpenseDeleted, id, nil))
	return removed, nil
}

// Edit updates the first record carrying req.ID. The date never changes.
func (s *LedgerService) Edit(ctx context.Context, req EditRequest) (core.Expense, error) {
	l, err := s.load(ctx, log.OpEdit)
	if err != nil {
		return core.Expense{}, err
	}

	i := l.Find(req.ID)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("%w: id %d", core.ErrNotFound, req.ID)
	}

	e := &l.Expenses[i]
	if req.Description != "" {
		e.Description = req.Description
	}
	if req.Amount != nil {
		e.OriginalAmount, e.Amount = convert(*req.Amount, req.Rate)
	}
	if req.Category != "" {
		e.Category = req.Category
	}
	if req.Currency != "" {
		e.Currency = req.Currency
	}
	updated := *e

	if err := s.save(ctx, log.OpEdit, l); err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense updated", log.NewFields().
		WithOperation(log.OpEdit).
		WithExpense(updated.ID, updated.Description, updated.Amount.String(), updated.OriginalAmount.String(), updated.Category, updated.Currency).
		ToSlice()...)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventExpenseUpdated, updated.ID, &updated))
	return updated, nil
}

// Search returns the records whose description or category contains keyword,
// ignoring case.
func (s *LedgerService) Search(ctx context.Context, keyword string) ([]core.Expense, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, core.ErrEmptyKeyword
	}
	l, err := s.load(ctx, log.OpSearch)
	if err != nil {
		return nil, err
	}
	matches := l.Filter(func(e core.Expense) bool { return e.Matches(keyword) })
	s.logger.DebugContext(ctx, "Search finished", log.FieldKeyword, keyword, log.FieldCount, len(matches))
	return matches, nil
}

func (s *LedgerService) load(ctx context.Context, op string) (*core.Ledger, error) {
	l, err := s.store.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load ledger", log.FieldOperation, op, log.FieldError, err)
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return l, nil
}

func (s *LedgerService) save(ctx context.Context, op string, l *core.Ledger) error {
	if err := s.store.Save(ctx, l); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger", log.FieldOperation, op, log.FieldError, err)
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// publish runs after the save has committed; a failure is logged only.
func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldOperation, log.OpPublish,
			log.FieldExpenseID, ev.ID,
			log.FieldError, err)
	}
}

// Close releases the store and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}

// convert rounds the input to cents and derives the base amount from the
// rounded value, so amount == round(original*rate, 2) always holds.
func convert(input core.Money, rate decimal.Decimal) (original, amount core.Money) {
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	original = core.NewMoney(input.Decimal())
	return original, original.Convert(rate)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
