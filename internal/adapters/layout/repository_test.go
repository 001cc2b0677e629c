package layout

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/maskworks/strata/internal/domain"
)

func gdsRecord(rectype, dtype byte, data []byte) []byte {
	buf := make([]byte, 0, 4+len(data))
	buf = binary.BigEndian.AppendUint16(buf, uint16(4+len(data)))
	buf = append(buf, rectype, dtype)
	return append(buf, data...)
}

// writeTestGDS writes a minimal library with one cell holding one
// rectangle on layer 1.
func writeTestGDS(t *testing.T, dir, name string) string {
	t.Helper()

	var b bytes.Buffer
	b.Write(gdsRecord(0x02, 0x06, []byte("LIB\x00")))     // LIBNAME
	b.Write(gdsRecord(0x05, 0x02, make([]byte, 24)))      // BGNSTR
	b.Write(gdsRecord(0x06, 0x06, []byte("TOP\x00")))     // STRNAME
	b.Write(gdsRecord(0x08, 0x00, nil))                   // BOUNDARY
	b.Write(gdsRecord(0x0d, 0x02, []byte{0x00, 0x01}))    // LAYER 1
	b.Write(gdsRecord(0x0e, 0x02, []byte{0x00, 0x00}))    // DATATYPE 0
	xy := make([]byte, 0, 40)
	for _, p := range [][2]int32{{0, 0}, {10, 0}, {10, 5}, {0, 5}, {0, 0}} {
		xy = binary.BigEndian.AppendUint32(xy, uint32(p[0]))
		xy = binary.BigEndian.AppendUint32(xy, uint32(p[1]))
	}
	b.Write(gdsRecord(0x10, 0x03, xy))  // XY
	b.Write(gdsRecord(0x11, 0x00, nil)) // ENDEL
	b.Write(gdsRecord(0x07, 0x00, nil)) // ENDSTR
	b.Write(gdsRecord(0x04, 0x00, nil)) // ENDLIB

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	return path
}

func TestRepositoryOpen(t *testing.T) {
	repo := NewRepository()
	path := writeTestGDS(t, t.TempDir(), "chip.gds")

	l, err := repo.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if l.ID != "chip" {
		t.Errorf("ID = %q, want %q", l.ID, "chip")
	}
	if l.LibraryName() != "LIB" {
		t.Errorf("LibraryName() = %q, want %q", l.LibraryName(), "LIB")
	}
	if want := []string{"TOP"}; !reflect.DeepEqual(l.CellNames(), want) {
		t.Errorf("CellNames() = %v, want %v", l.CellNames(), want)
	}
	if l.TotalShapes() != 1 {
		t.Errorf("TotalShapes() = %d, want 1", l.TotalShapes())
	}
	if len(l.Polygons) != 1 || len(l.Polygons[0].Polys) != 1 {
		t.Fatalf("Polygons = %+v, want one cell with one polygon", l.Polygons)
	}
	if got := len(l.Polygons[0].Polys[0].XY); got != 4 {
		t.Errorf("vertex count = %d, want 4 (closing point dropped)", got)
	}
}

func TestRepositoryOpenCachesByID(t *testing.T) {
	repo := NewRepository()
	path := writeTestGDS(t, t.TempDir(), "chip.gds")

	first, err := repo.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Open() twice should return the cached layout")
	}
}

func TestRepositoryOpenMissingFile(t *testing.T) {
	repo := NewRepository()

	_, err := repo.Open(context.Background(), "/nonexistent/chip.gds")

	var storageErr *domain.StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("Open() error = %v, want StorageError", err)
	}
}

func TestRepositoryOpenCorruptFile(t *testing.T) {
	repo := NewRepository()
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.gds")
	// Header declaring total length 2.
	if err := os.WriteFile(path, []byte{0x00, 0x02, 0x08, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Open(context.Background(), path)

	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Open() error = %v, want DecodeError", err)
	}
	var malformed *domain.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Errorf("Open() error = %v, want wrapped MalformedRecordError", err)
	}
}

func TestRepositoryCellNames(t *testing.T) {
	repo := NewRepository()
	path := writeTestGDS(t, t.TempDir(), "chip.gds")

	names, err := repo.CellNames(context.Background(), path)
	if err != nil {
		t.Fatalf("CellNames() error: %v", err)
	}
	if want := []string{"TOP"}; !reflect.DeepEqual(names, want) {
		t.Errorf("CellNames() = %v, want %v", names, want)
	}
}

func TestRepositoryClose(t *testing.T) {
	repo := NewRepository()
	path := writeTestGDS(t, t.TempDir(), "chip.gds")

	ctx := context.Background()
	first, err := repo.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Close(ctx, first.ID); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	second, err := repo.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("Open() after Close() should decode fresh")
	}
}

func TestRepositoryExportUnknownLayout(t *testing.T) {
	repo := NewRepository()

	err := repo.Export(context.Background(), "ghost", filepath.Join(t.TempDir(), "out.oas"))
	if !errors.Is(err, domain.ErrLayoutNotFound) {
		t.Errorf("Export() error = %v, want ErrLayoutNotFound", err)
	}
}

func TestDeriveLayoutID(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"simple filename", "/data/chip.gds", "chip"},
		{"nested path", "/var/data/layouts/adder.gds", "adder"},
		{"relative path", "data/chip.gds", "chip"},
		{"no extension", "/data/chipfile", "chipfile"},
		{"multiple dots", "/data/chip.backup.gds", "chip.backup"},
		{"empty path", "", ""},
		{"just extension", ".gds", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveLayoutID(tt.path); got != tt.want {
				t.Errorf("DeriveLayoutID(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
