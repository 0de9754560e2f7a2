// Package worker exports ledger rows to the configured mirror. It is
// driven by the AMQP change feed, with a periodic reconcile pass as a
// backup for messages lost while the worker was down.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tracker/internal/events"
	"tracker/internal/mirror"
	"tracker/internal/storage"
)

type MirrorWorker struct {
	storage   *storage.SQLiteRepository
	appender  mirror.Appender
	batchSize int
}

func NewMirrorWorker(storage *storage.SQLiteRepository, appender mirror.Appender, batchSize int) *MirrorWorker {
	return &MirrorWorker{
		storage:   storage,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleEvent processes one change-feed message. Only additions carry
// data to export; deletions and budget updates are acknowledged without
// touching the mirror (the mirror is an append-only export, not a sync).
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *events.LedgerEventMessage) error {
	switch msg.Op {
	case "add":
		return w.mirrorTransaction(ctx, msg.ID)
	case "delete", "budget":
		slog.DebugContext(ctx, "Ignoring non-add ledger event", "op", msg.Op, "id", msg.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown ledger event op", "op", msg.Op, "id", msg.ID)
		return nil
	}
}

// ProcessPending exports any rows the change feed missed, up to the
// configured batch size.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingMirror(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending rows: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending mirror rows", "count", len(pending))
	for _, p := range pending {
		if err := w.mirrorTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror pending row", "id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupCheck runs a larger reconcile pass when the worker starts, to
// recover from downtime.
func (w *MirrorWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingMirror(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending rows for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending mirror rows on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending mirror rows on startup", "count", len(pending))
	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.mirrorTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror row during startup", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup mirror check completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *MirrorWorker) mirrorTransaction(ctx context.Context, id int64) error {
	t, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the worker got to it; nothing to export.
		slog.WarnContext(ctx, "Transaction gone before mirroring", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	ref, err := w.appender.Append(ctx, t)
	if err != nil {
		if markErr := w.storage.MarkMirrorError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark mirror error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.storage.MarkMirrored(ctx, id); err != nil {
		// The export itself worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as mirrored", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"id", id,
		"mirror_ref", ref,
		"description", t.Description,
		"amount_cents", t.Amount.Cents)
	return nil
}
