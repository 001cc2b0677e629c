// Package index provides the SQLite-backed layout summary index.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/maskworks/strata/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	path      TEXT NOT NULL,
	size      INTEGER NOT NULL,
	lib_name  TEXT NOT NULL,
	loaded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cells (
	layout_id    TEXT NOT NULL,
	position     INTEGER NOT NULL,
	name         TEXT NOT NULL,
	xmin         INTEGER,
	ymin         INTEGER,
	xmax         INTEGER,
	ymax         INTEGER,
	total_shapes INTEGER NOT NULL,
	PRIMARY KEY (layout_id, position),
	FOREIGN KEY (layout_id) REFERENCES layouts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cell_counts (
	layout_id TEXT NOT NULL,
	cell_name TEXT NOT NULL,
	layer     INTEGER NOT NULL,
	datatype  INTEGER NOT NULL,
	count     INTEGER NOT NULL,
	PRIMARY KEY (layout_id, cell_name, layer, datatype),
	FOREIGN KEY (layout_id) REFERENCES layouts(id) ON DELETE CASCADE
);
`

// SQLiteIndex implements the LayoutIndex port on a local SQLite file. The
// index holds summaries only; polygon geometry is always re-decoded from
// the GDS file.
type SQLiteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex opens (and if necessary creates) the index database.
func NewSQLiteIndex(ctx context.Context, path string) (*SQLiteIndex, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &domain.IndexError{Err: err}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &domain.IndexError{Err: err}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, &domain.IndexError{Err: fmt.Errorf("creating schema: %w", err)}
	}

	return &SQLiteIndex{db: db}, nil
}

// Put stores or replaces the indexed summary of a layout.
func (i *SQLiteIndex) Put(ctx context.Context, layout *domain.Layout) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.IndexError{LayoutID: layout.ID, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM layouts WHERE id = ?`, layout.ID,
	); err != nil {
		return &domain.IndexError{LayoutID: layout.ID, Err: err}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO layouts (id, name, path, size, lib_name, loaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		layout.ID, layout.Name, layout.Path, layout.Size,
		layout.Summary.LibName, layout.LoadedAt.Unix(),
	); err != nil {
		return &domain.IndexError{LayoutID: layout.ID, Err: err}
	}

	for pos, cell := range layout.Summary.Cells {
		var xmin, ymin, xmax, ymax interface{}
		if cell.BBox != nil {
			xmin, ymin = cell.BBox.XMin, cell.BBox.YMin
			xmax, ymax = cell.BBox.XMax, cell.BBox.YMax
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cells (layout_id, position, name, xmin, ymin, xmax, ymax, total_shapes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			layout.ID, pos, cell.Name, xmin, ymin, xmax, ymax, cell.TotalShapes,
		); err != nil {
			return &domain.IndexError{LayoutID: layout.ID, Err: err}
		}

		for key, n := range cell.LayerCounts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cell_counts (layout_id, cell_name, layer, datatype, count)
				 VALUES (?, ?, ?, ?, ?)`,
				layout.ID, cell.Name, key.Layer, key.Datatype, n,
			); err != nil {
				return &domain.IndexError{LayoutID: layout.ID, Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.IndexError{LayoutID: layout.ID, Err: err}
	}
	return nil
}

// Get returns the indexed layout by ID.
func (i *SQLiteIndex) Get(ctx context.Context, layoutID string) (*domain.Layout, error) {
	l := &domain.Layout{ID: layoutID}

	var loadedAt int64
	err := i.db.QueryRowContext(ctx,
		`SELECT name, path, size, lib_name, loaded_at FROM layouts WHERE id = ?`, layoutID,
	).Scan(&l.Name, &l.Path, &l.Size, &l.Summary.LibName, &loadedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrLayoutNotFound
	}
	if err != nil {
		return nil, &domain.IndexError{LayoutID: layoutID, Err: err}
	}
	l.LoadedAt = time.Unix(loadedAt, 0)

	if err := i.readCells(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a layout from the index.
func (i *SQLiteIndex) Delete(ctx context.Context, layoutID string) error {
	if _, err := i.db.ExecContext(ctx,
		`DELETE FROM layouts WHERE id = ?`, layoutID,
	); err != nil {
		return &domain.IndexError{LayoutID: layoutID, Err: err}
	}
	return nil
}

// List returns all indexed layouts.
func (i *SQLiteIndex) List(ctx context.Context) ([]domain.Layout, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT id FROM layouts ORDER BY id`)
	if err != nil {
		return nil, &domain.IndexError{Err: err}
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &domain.IndexError{Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.IndexError{Err: err}
	}

	layouts := make([]domain.Layout, 0, len(ids))
	for _, id := range ids {
		l, err := i.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, *l)
	}
	return layouts, nil
}

// Close closes the index database.
func (i *SQLiteIndex) Close() error {
	return i.db.Close()
}

// readCells loads the cell summaries of a layout in stream order.
func (i *SQLiteIndex) readCells(ctx context.Context, l *domain.Layout) error {
	rows, err := i.db.QueryContext(ctx,
		`SELECT name, xmin, ymin, xmax, ymax, total_shapes
		 FROM cells WHERE layout_id = ? ORDER BY position`, l.ID,
	)
	if err != nil {
		return &domain.IndexError{LayoutID: l.ID, Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cell domain.CellSummary
		var xmin, ymin, xmax, ymax sql.NullInt64

		if err := rows.Scan(&cell.Name, &xmin, &ymin, &xmax, &ymax, &cell.TotalShapes); err != nil {
			return &domain.IndexError{LayoutID: l.ID, Err: err}
		}
		if xmin.Valid {
			cell.BBox = &domain.BoundingBox{
				XMin: int32(xmin.Int64), YMin: int32(ymin.Int64),
				XMax: int32(xmax.Int64), YMax: int32(ymax.Int64),
			}
		}
		cell.LayerCounts = make(map[domain.LayerKey]int)
		l.Summary.Cells = append(l.Summary.Cells, cell)
	}
	if err := rows.Err(); err != nil {
		return &domain.IndexError{LayoutID: l.ID, Err: err}
	}

	return i.readCounts(ctx, l)
}

// readCounts fills in the per-(layer, datatype) shape counts.
func (i *SQLiteIndex) readCounts(ctx context.Context, l *domain.Layout) error {
	rows, err := i.db.QueryContext(ctx,
		`SELECT cell_name, layer, datatype, count FROM cell_counts WHERE layout_id = ?`, l.ID,
	)
	if err != nil {
		return &domain.IndexError{LayoutID: l.ID, Err: err}
	}
	defer func() { _ = rows.Close() }()

	byName := make(map[string]*domain.CellSummary, len(l.Summary.Cells))
	for idx := range l.Summary.Cells {
		byName[l.Summary.Cells[idx].Name] = &l.Summary.Cells[idx]
	}

	for rows.Next() {
		var cellName string
		var key domain.LayerKey
		var n int
		if err := rows.Scan(&cellName, &key.Layer, &key.Datatype, &n); err != nil {
			return &domain.IndexError{LayoutID: l.ID, Err: err}
		}
		if cell, ok := byName[cellName]; ok {
			cell.LayerCounts[key] = n
		}
	}
	return rows.Err()
}
