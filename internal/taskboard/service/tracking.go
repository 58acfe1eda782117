package service

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/access"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/ledger"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/lifecycle"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/taskboard/internal/taskboard/service")

// TrackingService runs the time-tracking ledger against the store. At most
// one entry per (task, user) is open at a time; the store's unique index
// decides races between concurrent starts.
type TrackingService struct {
	Deps
}

// Start opens an entry for the caller on taskID and moves a pending task to
// in-progress, both in one transaction.
func (s *TrackingService) Start(ctx context.Context, id domain.Identity, taskID string) (domain.TimeEntry, error) {
	ctx, span := tracer.Start(ctx, "tracking.start", trace.WithAttributes(
		attribute.String("task.id", taskID),
		attribute.String("user.id", id.UserID),
	))
	defer span.End()

	log := slogx.FromContext(ctx)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	t, _, err := loadTask(ctx, s.Store, id, taskID, access.TrackTime)
	if err != nil {
		return domain.TimeEntry{}, record(span, err)
	}

	now := s.Now()
	e := ledger.Open(idx.NewAt(now).String(), t.ID, id.UserID, now)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TimeEntries().CreateTimeEntry(ctx, e); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.AlreadyTracking()
			}
			return err
		}

		// Re-read inside the transaction so a concurrent edit is not lost.
		cur, err := tx.Tasks().GetTaskByID(ctx, t.ID)
		if err != nil {
			return err
		}
		if !lifecycle.Begin(&cur, now) {
			return nil
		}
		return tx.Tasks().UpdateTask(ctx, cur)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyTracking) {
			log.Warn("time tracking already running", slog.String("task_id", t.ID), slog.String("user_id", id.UserID))
		}
		return domain.TimeEntry{}, record(span, fail(ctx, "time entry", err))
	}

	log.Info("time tracking started", slog.String("task_id", t.ID), slog.String("entry_id", e.ID))
	return e, nil
}

// Stop closes the caller's open entry on taskID at end (now when nil) and
// recomputes the task total. It returns the closed entry and the task with
// its entries.
func (s *TrackingService) Stop(ctx context.Context, id domain.Identity, taskID string, end *time.Time, note string) (domain.TimeEntry, domain.Task, error) {
	ctx, span := tracer.Start(ctx, "tracking.stop", trace.WithAttributes(
		attribute.String("task.id", taskID),
		attribute.String("user.id", id.UserID),
	))
	defer span.End()

	log := slogx.FromContext(ctx)

	if err := optionalText("note", note); err != nil {
		return domain.TimeEntry{}, domain.Task{}, record(span, err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	t, _, err := loadTask(ctx, s.Store, id, taskID, access.TrackTime)
	if err != nil {
		return domain.TimeEntry{}, domain.Task{}, record(span, err)
	}

	now := s.Now()
	stopAt := now
	if end != nil {
		stopAt = end.UTC().Truncate(time.Millisecond)
	}

	var e domain.TimeEntry
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		e, err = tx.TimeEntries().GetOpenTimeEntry(ctx, t.ID, id.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NoActiveEntry()
		}
		if err != nil {
			return err
		}

		if err := ledger.Close(&e, stopAt, note); err != nil {
			return err
		}
		if err := tx.TimeEntries().CloseTimeEntry(ctx, e); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return domain.NoActiveEntry()
			}
			return err
		}

		if t, err = tx.Tasks().GetTaskByID(ctx, t.ID); err != nil {
			return err
		}
		if t.TimeEntries, err = tx.TimeEntries().ListTimeEntriesByTask(ctx, t.ID); err != nil {
			return err
		}
		t.TotalTimeSpent = ledger.Total(t.TimeEntries)
		lifecycle.Touch(&t, now)
		return tx.Tasks().UpdateTask(ctx, t)
	})
	if err != nil {
		log.Warn("time tracking stop failed", slog.String("task_id", taskID), slog.Any("error", err))
		return domain.TimeEntry{}, domain.Task{}, record(span, fail(ctx, "time entry", err))
	}

	span.SetAttributes(attribute.Int("entry.duration_minutes", e.Duration))
	log.Info("time tracking stopped",
		slog.String("task_id", t.ID),
		slog.String("entry_id", e.ID),
		slog.Int("duration", e.Duration),
		slog.Int("total", t.TotalTimeSpent),
	)
	return e, t, nil
}

// ActiveEntries yields every open entry of the caller in the caller's
// organization, with elapsed minutes computed as each pair is produced.
func (s *TrackingService) ActiveEntries(ctx context.Context, id domain.Identity) (iter.Seq2[domain.Task, domain.ActiveEntry], error) {
	if err := requireOrganization(id); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	open, err := s.Store.TimeEntries().ListOpenTimeEntriesByUser(ctx, id.UserID)
	if err != nil {
		return nil, fail(ctx, "time entry", err)
	}

	// Entries left over from an organization the user was removed from stay
	// out of view.
	scope := access.TaskScope{OrganizationID: id.OrganizationID}
	visible := open[:0]
	for _, oe := range open {
		if scope.Includes(oe.Task) {
			visible = append(visible, oe)
		}
	}
	return ledger.Active(visible, s.Now), nil
}

func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
	}
	return err
}
