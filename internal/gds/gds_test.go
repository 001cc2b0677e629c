package gds

import (
	"bytes"
	"encoding/binary"

	"github.com/maskworks/strata/internal/domain"
)

// rec builds one GDS record: 2-byte big-endian total length, record type,
// datatype, payload.
func rec(rectype, dtype byte, data []byte) []byte {
	buf := make([]byte, 0, 4+len(data))
	buf = binary.BigEndian.AppendUint16(buf, uint16(4+len(data)))
	buf = append(buf, rectype, dtype)
	buf = append(buf, data...)
	return buf
}

// asciiPayload pads a name to even length with a trailing NUL.
func asciiPayload(name string) []byte {
	b := []byte(name)
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	return b
}

// xyPayload encodes vertices as big-endian int32 pairs.
func xyPayload(pts []domain.Point) []byte {
	buf := make([]byte, 0, len(pts)*8)
	for _, p := range pts {
		buf = binary.BigEndian.AppendUint32(buf, uint32(p.X))
		buf = binary.BigEndian.AppendUint32(buf, uint32(p.Y))
	}
	return buf
}

// streamBuilder assembles test streams record by record.
type streamBuilder struct {
	buf bytes.Buffer
}

func (b *streamBuilder) add(rectype, dtype byte, data []byte) *streamBuilder {
	b.buf.Write(rec(rectype, dtype, data))
	return b
}

func (b *streamBuilder) libName(name string) *streamBuilder {
	return b.add(recLibName, dtASCII, asciiPayload(name))
}

func (b *streamBuilder) bgnStr() *streamBuilder {
	// BGNSTR carries creation/modification timestamps (12 int2 values)
	// which the decoder ignores.
	return b.add(recBgnStr, dtInt2, make([]byte, 24))
}

func (b *streamBuilder) strName(name string) *streamBuilder {
	return b.add(recStrName, dtASCII, asciiPayload(name))
}

func (b *streamBuilder) boundary(layer, datatype uint16, pts []domain.Point) *streamBuilder {
	b.add(recBoundary, 0, nil)
	b.add(recLayer, dtInt2, binary.BigEndian.AppendUint16(nil, layer))
	b.add(recDatatype, dtInt2, binary.BigEndian.AppendUint16(nil, datatype))
	b.add(recXY, dtInt4, xyPayload(pts))
	return b.add(recEndEl, 0, nil)
}

func (b *streamBuilder) endStr() *streamBuilder {
	return b.add(recEndStr, 0, nil)
}

func (b *streamBuilder) endLib() *streamBuilder {
	return b.add(recEndLib, 0, nil)
}

func (b *streamBuilder) reader() *bytes.Reader {
	return bytes.NewReader(b.buf.Bytes())
}

func (b *streamBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// closedRect is a rectangle with the first vertex explicitly repeated at
// the end, as most GDS writers emit it.
func closedRect() []domain.Point {
	return []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}, {X: 0, Y: 0}}
}
