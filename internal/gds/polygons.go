package gds

import (
	"io"

	"github.com/maskworks/strata/internal/domain"
)

// ReadPolygons makes one pass over a GDS stream and returns the full
// polygon geometry grouped per cell, in stream order. The state machine
// mirrors ReadSummary but retains the ordered vertex list of every
// BOUNDARY element instead of reducing it to extrema. Elements whose
// vertex list ends up empty emit no polygon.
func ReadPolygons(r io.Reader) ([]domain.CellPolygons, error) {
	var out []domain.CellPolygons

	inStruct := false
	var cur *domain.CellPolygons

	inBoundary := false
	var curLayer, curDatatype uint16
	var curXY []domain.Point

	err := walk(r, func(rec *Record) (bool, error) {
		switch rec.Type {
		case recBgnStr:
			inStruct = true
			cur = &domain.CellPolygons{}
		case recStrName:
			if inStruct && rec.DataType == dtASCII && cur != nil {
				cur.Name = decodeName(rec.Data)
			}
		case recBoundary:
			inBoundary = true
			curLayer = 0
			curDatatype = 0
			curXY = nil
		case recLayer:
			if inBoundary && rec.DataType == dtInt2 && len(rec.Data) >= 2 {
				curLayer = int2(rec.Data)
			}
		case recDatatype:
			if inBoundary && rec.DataType == dtInt2 && len(rec.Data) >= 2 {
				curDatatype = int2(rec.Data)
			}
		case recXY:
			if inBoundary && rec.DataType == dtInt4 {
				curXY = coordsVertices(rec.Data)
			}
		case recEndEl:
			if inBoundary && cur != nil && len(curXY) > 0 {
				cur.Polys = append(cur.Polys, domain.Polygon{
					Layer:    curLayer,
					Datatype: curDatatype,
					XY:       curXY,
				})
			}
			inBoundary = false
			curXY = nil
		case recEndStr:
			inStruct = false
			if cur != nil && cur.Name != "" {
				out = append(out, *cur)
			}
			cur = nil
		case recEndLib:
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// coordsVertices decodes an XY payload into an ordered vertex list,
// dropping the explicit closing point when the final vertex repeats the
// first. Payloads that are not a multiple of 8 bytes are ignored.
func coordsVertices(data []byte) []domain.Point {
	if len(data) == 0 || len(data)%8 != 0 {
		return nil
	}

	n := len(data) / 8
	pts := make([]domain.Point, 0, n)
	x0 := int4(data[0:4])
	y0 := int4(data[4:8])
	for i := 0; i < n; i++ {
		x := int4(data[8*i : 8*i+4])
		y := int4(data[8*i+4 : 8*i+8])
		if i+1 == n && n >= 2 && x == x0 && y == y0 {
			break
		}
		pts = append(pts, domain.Point{X: x, Y: y})
	}

	return pts
}
