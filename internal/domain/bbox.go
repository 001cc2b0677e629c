// Package domain contains the core business entities and value objects.
package domain

// BoundingBox is an axis-aligned box in integer database units (DBU).
// A zero BoundingBox is not automatically empty; use NewBoundingBox to
// start from the empty state, where xmin > xmax and ymin > ymax until the
// first point is included.
type BoundingBox struct {
	XMin int32
	YMin int32
	XMax int32
	YMax int32
}

// NewBoundingBox returns an empty bounding box. It becomes valid once the
// first point is included.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		XMin: 1, YMin: 1,
		XMax: 0, YMax: 0,
	}
}

// IsValid reports whether the box holds at least one point.
func (b BoundingBox) IsValid() bool {
	return b.XMin <= b.XMax && b.YMin <= b.YMax
}

// IncludePoint grows the box to contain the point (x, y). On an empty box
// the point becomes the box.
func (b *BoundingBox) IncludePoint(x, y int32) {
	if !b.IsValid() {
		b.XMin, b.XMax = x, x
		b.YMin, b.YMax = y, y
		return
	}
	if x < b.XMin {
		b.XMin = x
	}
	if x > b.XMax {
		b.XMax = x
	}
	if y < b.YMin {
		b.YMin = y
	}
	if y > b.YMax {
		b.YMax = y
	}
}

// Include grows the box to contain another box. The union never shrinks
// either operand; an invalid argument is ignored.
func (b *BoundingBox) Include(o BoundingBox) {
	if !o.IsValid() {
		return
	}
	b.IncludePoint(o.XMin, o.YMin)
	b.IncludePoint(o.XMax, o.YMax)
}

// Contains reports whether the point (x, y) lies inside the box.
func (b BoundingBox) Contains(x, y int32) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Width returns the horizontal extent in DBU.
func (b BoundingBox) Width() int64 {
	if !b.IsValid() {
		return 0
	}
	return int64(b.XMax) - int64(b.XMin)
}

// Height returns the vertical extent in DBU.
func (b BoundingBox) Height() int64 {
	if !b.IsValid() {
		return 0
	}
	return int64(b.YMax) - int64(b.YMin)
}
