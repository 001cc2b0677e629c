package application

import (
	"context"
	"log/slog"

	"github.com/maskworks/strata/internal/domain"
	"github.com/maskworks/strata/internal/ports/output"
)

// CellService answers cell queries against loaded layouts.
type CellService struct {
	registry *LayoutRegistry
	metrics  output.MetricsCollector
	logger   *slog.Logger
}

// NewCellService creates a new cell service.
func NewCellService(
	registry *LayoutRegistry,
	metrics output.MetricsCollector,
	logger *slog.Logger,
) *CellService {
	return &CellService{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// ListCells returns the cell names of a layout in stream order.
func (s *CellService) ListCells(ctx context.Context, layoutID string) ([]string, error) {
	l, err := s.lookup(ctx, layoutID)
	if err != nil {
		s.metrics.IncCellQueryCount(layoutID, false)
		return nil, err
	}

	s.metrics.IncCellQueryCount(layoutID, true)
	return l.CellNames(), nil
}

// GetCell returns the summary of one cell.
func (s *CellService) GetCell(ctx context.Context, layoutID string, cellName string) (*domain.CellSummary, error) {
	l, err := s.lookup(ctx, layoutID)
	if err != nil {
		s.metrics.IncCellQueryCount(layoutID, false)
		return nil, err
	}

	cell, ok := l.GetCell(cellName)
	if !ok {
		s.metrics.IncCellQueryCount(layoutID, false)
		return nil, domain.ErrCellNotFound
	}

	s.metrics.IncCellQueryCount(layoutID, true)
	return cell, nil
}

// GetCellPolygons returns the full polygon geometry of one cell.
func (s *CellService) GetCellPolygons(ctx context.Context, layoutID string, cellName string) (*domain.CellPolygons, error) {
	l, err := s.lookup(ctx, layoutID)
	if err != nil {
		s.metrics.IncCellQueryCount(layoutID, false)
		return nil, err
	}

	// A cell with a summary but no boundary elements still answers with
	// an empty polygon list.
	if _, ok := l.GetCell(cellName); !ok {
		s.metrics.IncCellQueryCount(layoutID, false)
		return nil, domain.ErrCellNotFound
	}

	s.metrics.IncCellQueryCount(layoutID, true)
	polys, _ := l.PolygonsFor(cellName)
	return &domain.CellPolygons{Name: cellName, Polys: polys}, nil
}

// lookup returns a ready layout or the appropriate error.
func (s *CellService) lookup(ctx context.Context, layoutID string) (*domain.Layout, error) {
	l, err := s.registry.GetLayout(ctx, layoutID)
	if err != nil {
		return nil, err
	}

	if !s.registry.IsReady(layoutID) {
		s.logger.Debug("layout not ready", "id", layoutID)
		return nil, domain.ErrNotReady
	}

	return l, nil
}
