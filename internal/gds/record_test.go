package gds

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/maskworks/strata/internal/domain"
)

func TestFramerNext(t *testing.T) {
	var b streamBuilder
	b.libName("LIB").endLib()

	f := NewFramer(b.reader())

	first, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if first.Type != recLibName || first.DataType != dtASCII {
		t.Errorf("first record = %#04x/%#04x, want LIBNAME/ASCII", first.Type, first.DataType)
	}
	if string(first.Data) != "LIB\x00" {
		t.Errorf("first payload = %q, want %q", first.Data, "LIB\x00")
	}

	second, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if second.Type != recEndLib {
		t.Errorf("second record type = %#04x, want ENDLIB", second.Type)
	}
	if len(second.Data) != 0 {
		t.Errorf("ENDLIB payload length = %d, want 0", len(second.Data))
	}

	if _, err := f.Next(); err != io.EOF {
		t.Errorf("Next() at clean end = %v, want io.EOF", err)
	}
}

func TestFramerMalformedLength(t *testing.T) {
	// Header declaring total length 2, below the 4-byte minimum.
	stream := []byte{0x00, 0x02, 0x08, 0x00}

	f := NewFramer(bytes.NewReader(stream))
	_, err := f.Next()

	var malformed *domain.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("Next() error = %v, want MalformedRecordError", err)
	}
	if malformed.Length != 2 {
		t.Errorf("Length = %d, want 2", malformed.Length)
	}
	if malformed.RecordType != 0x08 {
		t.Errorf("RecordType = %#04x, want 0x08", malformed.RecordType)
	}
	if malformed.Offset != 4 {
		t.Errorf("Offset = %d, want 4", malformed.Offset)
	}
}

func TestFramerTruncation(t *testing.T) {
	var full streamBuilder
	full.libName("LIBRARY")
	stream := full.bytes()

	tests := []struct {
		name string
		cut  int
	}{
		{"mid header", 2},
		{"header only", 4},
		{"mid payload", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFramer(bytes.NewReader(stream[:tt.cut]))
			_, err := f.Next()
			if !errors.Is(err, domain.ErrUnexpectedEOF) {
				t.Errorf("Next() error = %v, want ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestFramerCleanEOFBetweenRecords(t *testing.T) {
	var b streamBuilder
	b.bgnStr().endStr()

	f := NewFramer(b.reader())
	for i := 0; i < 2; i++ {
		if _, err := f.Next(); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if _, err := f.Next(); err != io.EOF {
		t.Errorf("Next() after last record = %v, want io.EOF", err)
	}
}

func TestFramerOffsetTracksConsumedBytes(t *testing.T) {
	var b streamBuilder
	b.libName("LIB").bgnStr()

	f := NewFramer(b.reader())

	if _, err := f.Next(); err != nil {
		t.Fatal(err)
	}
	if got := f.Offset(); got != 8 {
		t.Errorf("Offset() after LIBNAME = %d, want 8", got)
	}

	if _, err := f.Next(); err != nil {
		t.Fatal(err)
	}
	if got := f.Offset(); got != 36 {
		t.Errorf("Offset() after BGNSTR = %d, want 36", got)
	}
}

func TestFramerPropagatesReadErrors(t *testing.T) {
	readErr := errors.New("connection reset")
	f := NewFramer(&failingReader{err: readErr})

	if _, err := f.Next(); !errors.Is(err, readErr) {
		t.Errorf("Next() error = %v, want %v", err, readErr)
	}
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestDecodeName(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul padded", []byte("TOP\x00"), "TOP"},
		{"space padded", []byte("TOP "), "TOP"},
		{"mixed trailing run", []byte("TOP \x00 \x00"), "TOP"},
		{"interior space kept", []byte("A B\x00"), "A B"},
		{"empty", nil, ""},
		{"all padding", []byte("\x00\x00  "), ""},
		{"invalid utf8", []byte{0xff, 0xfe}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeName(tt.in); got != tt.want {
				t.Errorf("decodeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
