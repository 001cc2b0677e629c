// Package gds implements the streaming GDSII record decoder. It frames an
// untrusted byte stream into typed records and derives cell names, cell
// summaries, and full polygon geometry from them. Only BOUNDARY elements
// are decoded; structure references and other element kinds are out of
// scope.
package gds

import (
	"encoding/binary"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/maskworks/strata/internal/domain"
)

// GDS record types.
const (
	recLibName   byte = 0x02
	recEndLib    byte = 0x04
	recBgnStr    byte = 0x05
	recStrName   byte = 0x06
	recEndStr    byte = 0x07
	recBoundary  byte = 0x08
	recLayer     byte = 0x0D
	recDatatype  byte = 0x0E
	recXY        byte = 0x10
	recEndEl     byte = 0x11
)

// GDS payload datatypes.
const (
	dtInt2  byte = 0x02
	dtInt4  byte = 0x03
	dtASCII byte = 0x06
)

// Record is one length-prefixed, tagged unit of a GDS stream. Data points
// into the Framer's internal buffer and is only valid until the next call
// to Next.
type Record struct {
	Type     byte
	DataType byte
	Data     []byte
}

// Framer reads GDS records from a byte stream. Each record starts with a
// 4-byte header: 2-byte big-endian total length (header included), 1-byte
// record type, 1-byte datatype. The sequence is not restartable; a
// consumer makes exactly one forward pass.
type Framer struct {
	r      io.Reader
	buf    []byte
	offset int64
}

// NewFramer creates a framer over r.
func NewFramer(r io.Reader) *Framer {
	return &Framer{
		r:   r,
		buf: make([]byte, 0, 1<<16),
	}
}

// Offset returns the number of bytes consumed so far.
func (f *Framer) Offset() int64 {
	return f.offset
}

// Next reads the next record. It returns io.EOF only when the stream ends
// exactly at a record boundary; truncation mid-header or mid-payload is
// domain.ErrUnexpectedEOF, and a declared length below 4 is a
// *domain.MalformedRecordError. The returned record is valid until the
// following call.
func (f *Framer) Next() (*Record, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(f.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, domain.ErrUnexpectedEOF
		}
		return nil, err
	}
	f.offset += 4

	length := binary.BigEndian.Uint16(hdr[0:2])
	rec := &Record{Type: hdr[2], DataType: hdr[3]}

	if length < 4 {
		return nil, &domain.MalformedRecordError{
			Offset:     f.offset,
			Length:     length,
			RecordType: rec.Type,
			DataType:   rec.DataType,
		}
	}

	payload := int(length) - 4
	if cap(f.buf) < payload {
		f.buf = make([]byte, payload)
	}
	f.buf = f.buf[:payload]
	if payload > 0 {
		if _, err := io.ReadFull(f.r, f.buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, domain.ErrUnexpectedEOF
			}
			return nil, err
		}
		f.offset += int64(payload)
	}
	rec.Data = f.buf

	return rec, nil
}

// walk frames records from r and feeds each to fn until fn asks to stop,
// the stream ends cleanly, or framing fails. All consumers share this loop
// and keep their own nesting state in the callback.
func walk(r io.Reader, fn func(rec *Record) (stop bool, err error)) error {
	f := NewFramer(r)
	for {
		rec, err := f.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		stop, err := fn(rec)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// decodeName decodes a fixed-width text payload. GDS strings are
// even-length and padded with trailing NULs; some writers pad with spaces.
// Invalid UTF-8 decodes to "" rather than failing.
func decodeName(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}
	if !utf8.Valid(b[:end]) {
		return ""
	}
	return string(b[:end])
}

// int2 decodes a big-endian unsigned 16-bit value.
func int2(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// int4 decodes a big-endian signed 32-bit value.
func int4(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b))
}
