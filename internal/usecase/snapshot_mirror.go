package usecase

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type snapshotRepo interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
}

// SnapshotMirror copies the latest session snapshot into a repository.
// Offer never blocks; snapshots that are not written yet are replaced.
type SnapshotMirror struct {
	logger *slog.Logger
	repo   snapshotRepo

	pending chan entity.Snapshot
}

func NewSnapshotMirror(logger *slog.Logger, repo snapshotRepo) *SnapshotMirror {
	return &SnapshotMirror{
		logger:  logger.With("component", "snapshot_mirror"),
		repo:    repo,
		pending: make(chan entity.Snapshot, 1),
	}
}

// Offer - queues snapshot, dropping an older one still waiting.
func (that *SnapshotMirror) Offer(snapshot entity.Snapshot) {
	for {
		select {
		case that.pending <- snapshot:
			return
		default:
		}

		select {
		case <-that.pending:
		default:
		}
	}
}

// Run - writes queued snapshots until ctx is canceled.
func (that *SnapshotMirror) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case <-ctx.Done():
			log.Info("snapshot mirror stopped")
			return
		case snapshot := <-that.pending:
			if err := that.repo.Save(ctx, &snapshot); err != nil {
				log.Error("failed to save snapshot", "error", err)
			}
		}
	}
}
