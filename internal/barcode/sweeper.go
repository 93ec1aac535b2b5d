package barcode

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultGracePeriod keeps blobs whose info row may still be in flight.
const DefaultGracePeriod = time.Hour

// BlobEntry describes one stored blob.
type BlobEntry struct {
	Path    string
	ModTime time.Time
}

// BlobLister enumerates and deletes stored blobs.
type BlobLister interface {
	List(ctx context.Context, prefix string) ([]BlobEntry, error)
	Remove(ctx context.Context, path string) error
}

// Sweeper removes blobs that no barcode info references.
// Such orphans are left behind when an info save fails after the blob was written.
type Sweeper struct {
	blobs    BlobLister
	infos    Repository
	basePath string
	grace    time.Duration
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// NewSweeper creates a sweeper over the blobs under basePath.
func NewSweeper(
	blobs BlobLister,
	infos Repository,
	basePath string,
	grace time.Duration,
	logger *zap.Logger,
	recorder Recorder,
) *Sweeper {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Sweeper{
		blobs:    blobs,
		infos:    infos,
		basePath: basePath,
		grace:    grace,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Sweep deletes orphaned blobs older than the grace period and returns how many it removed.
// It stops at the first listing or lookup error; removal errors are logged and skipped.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	entries, err := s.blobs.List(ctx, s.basePath)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0

	for _, entry := range entries {
		if entry.ModTime.After(cutoff) {
			continue
		}

		referenced, err := s.infos.ExistsByPath(ctx, entry.Path)
		if err != nil {
			s.recorder.OrphansRemoved(removed)

			return removed, err
		}

		if referenced {
			continue
		}

		if err = s.blobs.Remove(ctx, entry.Path); err != nil {
			s.logger.Warn("failed to remove orphaned barcode",
				zap.String("path", entry.Path),
				zap.Error(err),
			)

			continue
		}

		removed++

		s.logger.Info("removed orphaned barcode", zap.String("path", entry.Path))
	}

	s.recorder.OrphansRemoved(removed)

	return removed, nil
}
