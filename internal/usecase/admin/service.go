package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/worldsearch/internal/domain"
	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	"github.com/kailas-cloud/worldsearch/internal/metrics"
)

// lockName is shared by every bulk operation: generate, clear and rebuild never overlap.
const lockName = "maintenance"

// Operation labels for logs and metrics.
const (
	OpStats    = "stats"
	OpGenerate = "generate"
	OpClear    = "clear"
	OpRebuild  = "rebuild_indexes"
)

// unlockTimeout bounds lock release after the request context is gone.
const unlockTimeout = 5 * time.Second

// Service runs admin data operations.
type Service struct {
	repo   Repository
	locker Locker
	logger *zap.Logger
	now    func() time.Time
}

// New creates an admin service.
func New(repo Repository, locker Locker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, locker: locker, logger: logger, now: time.Now}
}

// Stats returns table statistics. It does not take the maintenance lock.
func (s *Service) Stats(ctx context.Context) (stats.Snapshot, error) {
	snap, err := s.repo.Stats(ctx)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("stats: %w", err)
	}
	return snap, nil
}

// Generate inserts count synthetic records.
func (s *Service) Generate(ctx context.Context, count int) (domadmin.GenerateResult, error) {
	if err := domadmin.ValidateCount(count); err != nil {
		return domadmin.GenerateResult{}, err
	}

	var res domadmin.GenerateResult
	err := s.exclusive(ctx, OpGenerate, func(ctx context.Context) error {
		var err error
		res, err = s.repo.Generate(ctx, count)
		return err
	})
	if err != nil {
		return domadmin.GenerateResult{}, err
	}

	s.logger.Info("Generated test data",
		zap.Int("requested", count),
		zap.Int("inserted", res.InsertedCount()),
		zap.Float64("execution_time_ms", res.ExecutionTimeMs()),
	)
	return res, nil
}

// Clear deletes every record, then vacuums the table as a separate statement.
// A vacuum failure after a successful delete does not fail the operation; it is
// logged, counted and carried in the result.
func (s *Service) Clear(ctx context.Context) (domadmin.ClearResult, error) {
	var res domadmin.ClearResult
	err := s.exclusive(ctx, OpClear, func(ctx context.Context) error {
		deleted, execMs, err := s.repo.Clear(ctx)
		if err != nil {
			return err
		}

		start := s.now()
		vacErr := s.repo.Vacuum(ctx)
		vacuumMs := s.now().Sub(start).Milliseconds()
		if vacErr != nil {
			metrics.VacuumFailuresTotal.Inc()
			s.logger.Warn("Vacuum failed after clear",
				zap.Int("deleted", deleted),
				zap.Error(vacErr),
			)
		}

		res = domadmin.NewClearResult(deleted, execMs, vacuumMs, vacErr)
		return nil
	})
	if err != nil {
		return domadmin.ClearResult{}, err
	}

	s.logger.Info("Cleared data",
		zap.Int("deleted", res.DeletedCount()),
		zap.Float64("execution_time_ms", res.ExecutionTimeMs()),
		zap.Int64("vacuum_time_ms", res.VacuumTimeMs()),
	)
	return res, nil
}

// RebuildIndexes rebuilds the table's indexes.
func (s *Service) RebuildIndexes(ctx context.Context) (domadmin.RebuildResult, error) {
	var res domadmin.RebuildResult
	err := s.exclusive(ctx, OpRebuild, func(ctx context.Context) error {
		var err error
		res, err = s.repo.RebuildIndexes(ctx)
		return err
	})
	if err != nil {
		return domadmin.RebuildResult{}, err
	}

	s.logger.Info("Rebuilt indexes",
		zap.String("status", res.Status()),
		zap.Float64("execution_time_ms", res.ExecutionTimeMs()),
	)
	return res, nil
}

// exclusive runs fn under the maintenance lock and records the outcome.
func (s *Service) exclusive(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := s.now()

	release, err := s.locker.Acquire(ctx, lockName)
	if err != nil {
		if errors.Is(err, domain.ErrMaintenanceInProgress) {
			metrics.AdminOperationsTotal.WithLabelValues(op, "conflict").Inc()
			s.logger.Info("Maintenance lock held, rejecting", zap.String("op", op))
			return err
		}
		metrics.AdminOperationsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s: lock: %w", op, err)
	}
	defer func() {
		// The lock must be released even when the request context was canceled.
		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
		defer cancel()
		if err := release(uctx); err != nil {
			s.logger.Error("Failed to release maintenance lock", zap.String("op", op), zap.Error(err))
		}
	}()

	err = fn(ctx)
	metrics.AdminOperationDuration.WithLabelValues(op).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		metrics.AdminOperationsTotal.WithLabelValues(op, "error").Inc()
		s.logger.Error("Admin operation failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.AdminOperationsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}
