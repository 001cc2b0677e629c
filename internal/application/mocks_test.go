package application

import (
	"context"
	"io"
	"sync"

	"github.com/maskworks/strata/internal/domain"
	"github.com/maskworks/strata/internal/ports/output"
)

// mockRepository implements output.LayoutRepository for testing.
type mockRepository struct {
	layouts map[string]*domain.Layout
	openErr error
	closed  []string
}

func (m *mockRepository) Open(_ context.Context, path string) (*domain.Layout, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	if m.layouts != nil {
		if l, ok := m.layouts[path]; ok {
			return l, nil
		}
	}
	id := deriveLayoutID(path)
	return &domain.Layout{
		ID:   id,
		Name: id,
		Path: path,
		Summary: domain.LibrarySummary{
			LibName: "LIB",
			Cells: []domain.CellSummary{
				{
					Name:        "TOP",
					BBox:        &domain.BoundingBox{XMin: 0, YMin: 0, XMax: 10, YMax: 5},
					LayerCounts: map[domain.LayerKey]int{{Layer: 1}: 1},
					TotalShapes: 1,
				},
			},
		},
		Polygons: []domain.CellPolygons{
			{
				Name: "TOP",
				Polys: []domain.Polygon{
					{
						Layer: 1,
						XY: []domain.Point{
							{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5},
						},
					},
				},
			},
		},
	}, nil
}

func (m *mockRepository) Close(_ context.Context, layoutID string) error {
	m.closed = append(m.closed, layoutID)
	return nil
}

func (m *mockRepository) CellNames(_ context.Context, _ string) ([]string, error) {
	return []string{"TOP"}, nil
}

func (m *mockRepository) Polygons(_ context.Context, _ string) ([]domain.CellPolygons, error) {
	return nil, nil
}

func (m *mockRepository) Export(_ context.Context, _ string, _ string) error {
	return nil
}

// mockStorage implements output.ObjectStorage for testing.
type mockStorage struct {
	objects     []output.StorageObject
	downloadErr error
	listErr     error
}

func (m *mockStorage) List(_ context.Context) ([]output.StorageObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.objects, nil
}

func (m *mockStorage) Download(_ context.Context, _, _ string) error {
	return m.downloadErr
}

func (m *mockStorage) GetReader(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, nil
}

func (m *mockStorage) Exists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// mockIndex implements output.LayoutIndex for testing.
type mockIndex struct {
	mu      sync.Mutex
	entries map[string]*domain.Layout
	putErr  error
}

func newMockIndex() *mockIndex {
	return &mockIndex{entries: make(map[string]*domain.Layout)}
}

func (m *mockIndex) Put(_ context.Context, l *domain.Layout) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[l.ID] = l
	return nil
}

func (m *mockIndex) Get(_ context.Context, layoutID string) (*domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.entries[layoutID]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return l, nil
}

func (m *mockIndex) Delete(_ context.Context, layoutID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, layoutID)
	return nil
}

func (m *mockIndex) List(_ context.Context) ([]domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	layouts := make([]domain.Layout, 0, len(m.entries))
	for _, l := range m.entries {
		layouts = append(layouts, *l)
	}
	return layouts, nil
}

func (m *mockIndex) Close() error {
	return nil
}
