package application

import (
	"context"

	"github.com/maskworks/strata/internal/domain"
	"github.com/maskworks/strata/internal/ports/input"
)

// HealthService provides health check functionality.
type HealthService struct {
	registry *LayoutRegistry
}

// NewHealthService creates a new health service.
func NewHealthService(registry *LayoutRegistry) *HealthService {
	return &HealthService{
		registry: registry,
	}
}

// IsHealthy returns true if the service is healthy.
func (s *HealthService) IsHealthy(ctx context.Context) bool {
	return true // Basic health check
}

// IsReady returns true if the service is ready to accept requests.
func (s *HealthService) IsReady(ctx context.Context) bool {
	layouts, err := s.registry.ListLayouts(ctx)
	if err != nil {
		return false
	}

	// Ready if at least one layout is ready
	for _, l := range layouts {
		if s.registry.IsReady(l.ID) {
			return true
		}
	}

	// Also ready if no layouts are configured (empty state)
	return len(layouts) == 0
}

// GetHealthDetails returns detailed health information.
func (s *HealthService) GetHealthDetails(ctx context.Context) input.HealthDetails {
	layouts, _ := s.registry.ListLayouts(ctx)

	loaded := len(layouts)
	ready := 0
	for _, l := range layouts {
		if s.registry.IsReady(l.ID) {
			ready++
		}
	}

	components := map[string]string{
		"storage": "ok",
	}

	return input.HealthDetails{
		Healthy:       s.IsHealthy(ctx),
		Ready:         s.IsReady(ctx),
		LayoutsLoaded: loaded,
		LayoutsReady:  ready,
		Components:    components,
	}
}

// LayoutHealth contains health info for a single layout.
type LayoutHealth struct {
	ID     string
	Status domain.LayoutStatus
	Ready  bool
}

// GetLayoutHealth returns health info for all layouts.
func (s *HealthService) GetLayoutHealth(ctx context.Context) []LayoutHealth {
	layouts, _ := s.registry.ListLayouts(ctx)

	health := make([]LayoutHealth, len(layouts))
	for i, l := range layouts {
		status, _ := s.registry.GetLayoutStatus(ctx, l.ID)
		health[i] = LayoutHealth{
			ID:     l.ID,
			Status: status,
			Ready:  s.registry.IsReady(l.ID),
		}
	}

	return health
}
