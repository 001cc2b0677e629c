package gds

import (
	"io"

	"github.com/maskworks/strata/internal/domain"
)

// elementScratch is the per-boundary-element state of the summary pass.
// Layer and datatype stay nil until their records arrive; missing values
// default to 0 at element end.
type elementScratch struct {
	layer    *uint16
	datatype *uint16
	bbox     *domain.BoundingBox
}

// ReadSummary makes one pass over a GDS stream and produces the library
// name plus per-cell bounding boxes and per-(layer, datatype) shape
// counts. Only BOUNDARY elements are counted. Structures whose name
// decodes to "" are discarded at ENDSTR.
func ReadSummary(r io.Reader) (*domain.LibrarySummary, error) {
	sum := &domain.LibrarySummary{}

	inStruct := false
	var cur *domain.CellSummary

	inBoundary := false
	var el elementScratch

	err := walk(r, func(rec *Record) (bool, error) {
		switch rec.Type {
		case recLibName:
			// First occurrence wins; a well-formed stream has one.
			if rec.DataType == dtASCII && sum.LibName == "" {
				sum.LibName = decodeName(rec.Data)
			}
		case recBgnStr:
			inStruct = true
			cur = &domain.CellSummary{
				LayerCounts: make(map[domain.LayerKey]int),
			}
		case recStrName:
			if inStruct && rec.DataType == dtASCII && cur != nil {
				cur.Name = decodeName(rec.Data)
			}
		case recBoundary:
			inBoundary = true
			el = elementScratch{}
		case recLayer:
			if inBoundary && rec.DataType == dtInt2 && len(rec.Data) >= 2 {
				v := int2(rec.Data)
				el.layer = &v
			}
		case recDatatype:
			if inBoundary && rec.DataType == dtInt2 && len(rec.Data) >= 2 {
				v := int2(rec.Data)
				el.datatype = &v
			}
		case recXY:
			if inBoundary && rec.DataType == dtInt4 {
				if bb, ok := coordsBBox(rec.Data); ok {
					el.bbox = &bb
				}
			}
		case recEndEl:
			if inBoundary && cur != nil {
				finishElement(cur, &el)
			}
			inBoundary = false
			el = elementScratch{}
		case recEndStr:
			inStruct = false
			if cur != nil && cur.Name != "" {
				sum.Cells = append(sum.Cells, *cur)
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

	return sum, nil
}

// finishElement folds the element scratch state into the cell summary:
// count the shape under (layer, datatype) with absent values defaulting to
// 0, and union the element bbox into the cell bbox.
func finishElement(cur *domain.CellSummary, el *elementScratch) {
	key := domain.LayerKey{}
	if el.layer != nil {
		key.Layer = *el.layer
	}
	if el.datatype != nil {
		key.Datatype = *el.datatype
	}
	cur.LayerCounts[key]++
	cur.TotalShapes++

	if el.bbox != nil {
		if cur.BBox == nil {
			bb := *el.bbox
			cur.BBox = &bb
		} else {
			cur.BBox.Include(*el.bbox)
		}
	}
}

// coordsBBox reduces an XY payload to its bounding box. The payload is two
// big-endian int32 values per vertex; payloads that are empty or not a
// multiple of 8 bytes are ignored. A final vertex equal to the first is
// the explicit closing point and is excluded.
func coordsBBox(data []byte) (domain.BoundingBox, bool) {
	bb := domain.NewBoundingBox()
	if len(data) == 0 || len(data)%8 != 0 {
		return bb, false
	}

	n := len(data) / 8
	x0 := int4(data[0:4])
	y0 := int4(data[4:8])
	for i := 0; i < n; i++ {
		x := int4(data[8*i : 8*i+4])
		y := int4(data[8*i+4 : 8*i+8])
		if i+1 == n && n >= 2 && x == x0 && y == y0 {
			break
		}
		bb.IncludePoint(x, y)
	}

	return bb, bb.IsValid()
}
