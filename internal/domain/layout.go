package domain

import "time"

// Layout represents a registered GDS layout file with its decoded results.
type Layout struct {
	ID          string         // Unique identifier (derived from filename)
	Name        string         // Display name
	Path        string         // File path
	Size        int64          // File size in bytes
	Summary     LibrarySummary // Library name and cell summaries
	Polygons    []CellPolygons // Full geometry, stream order
	LoadedAt    time.Time      // Decode timestamp
	LastQueried time.Time      // Last query timestamp
}

// LibraryName returns the library name, "" if the stream had none.
func (l *Layout) LibraryName() string {
	return l.Summary.LibName
}

// CellNames returns the cell names in stream order.
func (l *Layout) CellNames() []string {
	return l.Summary.CellNames()
}

// CellCount returns the number of cells.
func (l *Layout) CellCount() int {
	return len(l.Summary.Cells)
}

// TotalShapes returns the number of boundary elements across all cells.
func (l *Layout) TotalShapes() int {
	total := 0
	for i := range l.Summary.Cells {
		total += l.Summary.Cells[i].TotalShapes
	}
	return total
}

// GetCell returns a cell summary by name.
func (l *Layout) GetCell(name string) (*CellSummary, bool) {
	return l.Summary.GetCell(name)
}

// PolygonsFor returns the polygons of a single cell by name.
func (l *Layout) PolygonsFor(name string) ([]Polygon, bool) {
	for i := range l.Polygons {
		if l.Polygons[i].Name == name {
			return l.Polygons[i].Polys, true
		}
	}
	return nil, false
}

// BBox returns the union of all cell bounding boxes. The result is empty
// when no cell holds any shape.
func (l *Layout) BBox() BoundingBox {
	bb := NewBoundingBox()
	for i := range l.Summary.Cells {
		if l.Summary.Cells[i].BBox != nil {
			bb.Include(*l.Summary.Cells[i].BBox)
		}
	}
	return bb
}

// LayoutStatus represents the lifecycle state of a Layout.
type LayoutStatus string

const (
	StatusLoading   LayoutStatus = "loading"
	StatusReady     LayoutStatus = "ready"
	StatusError     LayoutStatus = "error"
	StatusUnloading LayoutStatus = "unloading"
)
