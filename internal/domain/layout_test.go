package domain

import (
	"testing"
)

func testLayout() *Layout {
	topBox := BoundingBox{XMin: 0, YMin: 0, XMax: 10, YMax: 5}
	subBox := BoundingBox{XMin: -4, YMin: -4, XMax: 2, YMax: 2}

	return &Layout{
		ID:   "chip",
		Name: "chip",
		Path: "/data/chip.gds",
		Summary: LibrarySummary{
			LibName: "LIB",
			Cells: []CellSummary{
				{
					Name:        "TOP",
					BBox:        &topBox,
					LayerCounts: map[LayerKey]int{{Layer: 1, Datatype: 0}: 2},
					TotalShapes: 2,
				},
				{
					Name:        "SUB",
					BBox:        &subBox,
					LayerCounts: map[LayerKey]int{{Layer: 2, Datatype: 1}: 1},
					TotalShapes: 1,
				},
				{
					Name: "EMPTY",
				},
			},
		},
		Polygons: []CellPolygons{
			{
				Name: "TOP",
				Polys: []Polygon{
					{Layer: 1, Datatype: 0, XY: []Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}},
				},
			},
		},
	}
}

func TestLayoutAccessors(t *testing.T) {
	l := testLayout()

	if got := l.LibraryName(); got != "LIB" {
		t.Errorf("LibraryName() = %q, want %q", got, "LIB")
	}
	if got := l.CellCount(); got != 3 {
		t.Errorf("CellCount() = %d, want 3", got)
	}
	if got := l.TotalShapes(); got != 3 {
		t.Errorf("TotalShapes() = %d, want 3", got)
	}

	names := l.CellNames()
	want := []string{"TOP", "SUB", "EMPTY"}
	if len(names) != len(want) {
		t.Fatalf("CellNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("CellNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLayoutGetCell(t *testing.T) {
	l := testLayout()

	cell, ok := l.GetCell("SUB")
	if !ok {
		t.Fatal("GetCell(SUB) not found")
	}
	if cell.TotalShapes != 1 {
		t.Errorf("cell.TotalShapes = %d, want 1", cell.TotalShapes)
	}
	if got := cell.CountOn(2, 1); got != 1 {
		t.Errorf("CountOn(2, 1) = %d, want 1", got)
	}
	if got := cell.CountOn(9, 9); got != 0 {
		t.Errorf("CountOn(9, 9) = %d, want 0", got)
	}

	if _, ok := l.GetCell("MISSING"); ok {
		t.Error("GetCell(MISSING) should not be found")
	}
}

func TestLayoutPolygonsFor(t *testing.T) {
	l := testLayout()

	polys, ok := l.PolygonsFor("TOP")
	if !ok {
		t.Fatal("PolygonsFor(TOP) not found")
	}
	if len(polys) != 1 {
		t.Fatalf("len(polys) = %d, want 1", len(polys))
	}
	if polys[0].Layer != 1 || polys[0].Datatype != 0 {
		t.Errorf("polygon layer/datatype = %d/%d, want 1/0", polys[0].Layer, polys[0].Datatype)
	}

	if _, ok := l.PolygonsFor("SUB"); ok {
		t.Error("PolygonsFor(SUB) should not be found, no geometry pass result")
	}
}

func TestLayoutBBoxUnion(t *testing.T) {
	l := testLayout()

	bb := l.BBox()
	want := BoundingBox{XMin: -4, YMin: -4, XMax: 10, YMax: 5}
	if bb != want {
		t.Errorf("BBox() = %+v, want %+v", bb, want)
	}
}

func TestLayoutBBoxEmpty(t *testing.T) {
	l := &Layout{ID: "empty"}
	if l.BBox().IsValid() {
		t.Error("BBox() of a layout without shapes should be invalid")
	}
}

func TestPolygonBBox(t *testing.T) {
	p := Polygon{XY: []Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}}
	bb := p.BBox()
	want := BoundingBox{XMin: 0, YMin: 0, XMax: 10, YMax: 5}
	if bb != want {
		t.Errorf("BBox() = %+v, want %+v", bb, want)
	}
}
