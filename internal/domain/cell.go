package domain

// LayerKey identifies the (layer, datatype) pair a boundary element is
// drawn on. It is the aggregation key for shape counts.
type LayerKey struct {
	Layer    uint16
	Datatype uint16
}

// CellSummary summarizes one cell (GDS structure): its bounding box and
// per-(layer, datatype) shape counts. BBox is nil when the cell contains no
// boundary elements.
type CellSummary struct {
	Name        string           // Structure name from STRNAME
	BBox        *BoundingBox     // DBU coordinates, nil if no shapes
	LayerCounts map[LayerKey]int // Boundary count per (layer, datatype)
	TotalShapes int              // Sum of all layer counts
}

// CountOn returns the shape count for a (layer, datatype) pair.
func (c *CellSummary) CountOn(layer, datatype uint16) int {
	if c.LayerCounts == nil {
		return 0
	}
	return c.LayerCounts[LayerKey{Layer: layer, Datatype: datatype}]
}

// LibrarySummary holds the library name and cell summaries of one GDS
// stream, in the order the structures appear.
type LibrarySummary struct {
	LibName string        // From the first LIBNAME record, "" if absent
	Cells   []CellSummary // Stream order
}

// CellNames returns the cell names in stream order.
func (s *LibrarySummary) CellNames() []string {
	names := make([]string, len(s.Cells))
	for i := range s.Cells {
		names[i] = s.Cells[i].Name
	}
	return names
}

// GetCell returns a cell summary by name.
func (s *LibrarySummary) GetCell(name string) (*CellSummary, bool) {
	for i := range s.Cells {
		if s.Cells[i].Name == name {
			return &s.Cells[i], true
		}
	}
	return nil, false
}

// Point is a vertex in DBU coordinates.
type Point struct {
	X int32
	Y int32
}

// Polygon is one boundary element. The vertex list is implicitly closed;
// the last point never duplicates the first even when the source payload
// repeated it.
type Polygon struct {
	Layer    uint16
	Datatype uint16
	XY       []Point
}

// BBox computes the bounding box of the polygon's vertices.
func (p *Polygon) BBox() BoundingBox {
	bb := NewBoundingBox()
	for _, pt := range p.XY {
		bb.IncludePoint(pt.X, pt.Y)
	}
	return bb
}

// CellPolygons holds the full polygon geometry of one cell, in stream
// order.
type CellPolygons struct {
	Name  string
	Polys []Polygon
}
