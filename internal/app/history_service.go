package app

import (
	"context"
	"fmt"

	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	runLog secondary.RunLogRepository
}

var _ primary.HistoryService = (*HistoryServiceImpl)(nil)

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(runLog secondary.RunLogRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{runLog: runLog}
}

// ListRuns returns recent runs, newest first.
func (s *HistoryServiceImpl) ListRuns(ctx context.Context, filters primary.HistoryFilters) ([]*primary.Run, error) {
	records, err := s.runLog.ListRuns(ctx, secondary.RunFilters{
		Identity: filters.Identity,
		Status:   filters.Status,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = &primary.Run{
			ID:          r.ID,
			Identity:    r.Identity,
			Barcode:     r.Barcode,
			Status:      r.Status,
			Timestamp:   r.Timestamp,
			Station:     r.Station,
			ResultCount: r.ResultCount,
		}
	}
	return runs, nil
}

// ListSync returns recent sync attempts, newest first.
func (s *HistoryServiceImpl) ListSync(ctx context.Context, limit int) ([]*primary.SyncAttempt, error) {
	records, err := s.runLog.ListSync(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync attempts: %w", err)
	}

	attempts := make([]*primary.SyncAttempt, len(records))
	for i, r := range records {
		attempts[i] = &primary.SyncAttempt{
			Operation: r.Operation,
			Message:   r.Message,
			OK:        r.OK,
			Error:     r.Error,
			Station:   r.Station,
			CreatedAt: r.CreatedAt,
		}
	}
	return attempts, nil
}
