package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/yield"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// yieldLoadLimit bounds concurrent document reads.
const yieldLoadLimit = 8

// YieldServiceImpl implements the YieldService interface.
type YieldServiceImpl struct {
	repo   secondary.ReportRepository
	logger *zap.Logger
}

var _ primary.YieldService = (*YieldServiceImpl)(nil)

// NewYieldService creates a new YieldService with injected dependencies.
func NewYieldService(repo secondary.ReportRepository, logger *zap.Logger) *YieldServiceImpl {
	return &YieldServiceImpl{repo: repo, logger: logger}
}

// Compute loads every document whose filename identity matches filter and
// derives the yield summary. Any unreadable document fails the computation.
func (s *YieldServiceImpl) Compute(ctx context.Context, filter yield.Filter) (*yield.Summary, error) {
	filter.Name = strings.ToLower(filter.Name)

	names, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var selected []string
	var ids []identity.BoardIdentity
	for _, name := range names {
		id := identity.Parse(strings.TrimSuffix(name, ".json"))
		if filter.Matches(id) {
			selected = append(selected, name)
			ids = append(ids, id)
		}
	}

	boards := make([]yield.Board, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(yieldLoadLimit)
	for i, name := range selected {
		g.Go(func() error {
			doc, err := s.repo.LoadFile(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", name, err)
			}
			boards[i] = yield.Board{Identity: ids[i], Report: *doc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := yield.Compute(boards, filter)
	s.logger.Debug("computed yield",
		zap.Int("boards", summary.Boards),
		zap.Int("tested", summary.Tested),
		zap.Float64("percent", summary.Percent))
	return &summary, nil
}
