// Package worker keeps a replica ledger in step with the primary one by
// applying the change events the ledger service publishes.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// EventSource delivers ledger events until ctx ends.
type EventSource interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEvent) error) error
}

// Mirror applies ledger events to a replica store. Events and resyncs are
// serialized, so a resync never interleaves with a half-applied event.
type Mirror struct {
	replica storage.Store
	logger  *log.Logger

	mu      sync.Mutex
	applied int
}

func NewMirror(replica storage.Store, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.Discard()
	}
	return &Mirror{
		replica: replica,
		logger:  logger.WithComponent(log.ComponentMirror),
	}
}

// HandleEvent applies one event to the replica. Added and updated events
// replace the first record with the same id or append a new one; deleted
// events drop every record with the id. Unknown types are skipped.
func (m *Mirror) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.replica.Load(ctx)
	if err != nil {
		return fmt.Errorf("load replica: %w", err)
	}

	switch ev.Type {
	case amqp.EventExpenseAdded, amqp.EventExpenseUpdated:
		if ev.Expense == nil {
			m.logger.WarnContext(ctx, "Ledger event without a record, skipping",
				"type", ev.Type,
				log.FieldExpenseID, ev.ID)
			return nil
		}
		upsert(l, *ev.Expense)

	case amqp.EventExpenseDeleted:
		if l.Remove(ev.ID) == 0 {
			m.logger.DebugContext(ctx, "Deleted record not in replica", log.FieldExpenseID, ev.ID)
			return nil
		}

	default:
		m.logger.WarnContext(ctx, "Unknown ledger event type, skipping",
			"type", ev.Type,
			log.FieldExpenseID, ev.ID)
		return nil
	}

	if err := m.replica.Save(ctx, l); err != nil {
		return fmt.Errorf("save replica: %w", err)
	}
	m.applied++

	m.logger.InfoContext(ctx, "Applied ledger event",
		log.FieldOperation, log.OpApply,
		"type", ev.Type,
		log.FieldExpenseID, ev.ID)
	return nil
}

// Resync overwrites the replica with the full contents of source. It covers
// events lost while the worker was down.
func (m *Mirror) Resync(ctx context.Context, source storage.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	if err := m.replica.Save(ctx, l); err != nil {
		return fmt.Errorf("save replica: %w", err)
	}

	m.logger.InfoContext(ctx, "Replica resynced",
		log.FieldOperation, log.OpResync,
		log.FieldCount, l.Len())
	return nil
}

// Run resyncs once, then consumes events and, when interval is positive,
// resyncs on every tick. It returns when ctx ends or the consumer fails; a
// failed periodic resync is logged and retried on the next tick.
func (m *Mirror) Run(ctx context.Context, events EventSource, source storage.Store, interval time.Duration) error {
	if err := m.Resync(ctx, source); err != nil {
		return fmt.Errorf("initial resync: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return events.ConsumeLedgerEvents(ctx, m.HandleEvent)
	})

	if interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := m.Resync(ctx, source); err != nil {
						m.logger.ErrorContext(ctx, "Periodic resync failed", log.FieldError, err)
					}
				}
			}
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Applied reports how many events have been written to the replica.
func (m *Mirror) Applied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

func upsert(l *core.Ledger, e core.Expense) {
	if i := l.Find(e.ID); i >= 0 {
		l.Expenses[i] = e
	} else {
		l.Append(e)
	}
	if l.NextID <= e.ID {
		l.NextID = e.ID + 1
	}
}
