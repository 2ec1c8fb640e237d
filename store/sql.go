package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const schema = `
	CREATE TABLE IF NOT EXISTS visual_properties (
		visual     TEXT PRIMARY KEY,
		selected   TEXT NOT NULL,
		expanded   TEXT NOT NULL,
		filter     TEXT,
		updated_at TIMESTAMP NOT NULL
	)`

// SQL stores properties in a visual_properties table. Queries are written
// with ? placeholders and rebound for the driver in use.
type SQL struct {
	db *sqlx.DB
}

type propertiesRow struct {
	Selected  string         `db:"selected"`
	Expanded  string         `db:"expanded"`
	Filter    sql.NullString `db:"filter"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// OpenSQL connects to the database and creates the table if needed. The
// driver must be registered by the caller, e.g. sqlite3 or postgres.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connecting to %s: %w", driver, err)
	}
	s, err := NewSQL(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL uses an open database.
func NewSQL(ctx context.Context, db *sqlx.DB) (*SQL, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Close() error { return s.db.Close() }

func (s *SQL) Load(ctx context.Context, visual string) (Properties, error) {
	if visual == "" {
		return Properties{}, ErrNoVisual
	}

	var row propertiesRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`
		SELECT selected, expanded, filter, updated_at
		FROM visual_properties
		WHERE visual = ?`), visual)
	if errors.Is(err, sql.ErrNoRows) {
		return Properties{}, nil
	}
	if err != nil {
		return Properties{}, fmt.Errorf("store: loading %s: %w", visual, err)
	}

	p := Properties{
		Selected:  row.Selected,
		Expanded:  row.Expanded,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Filter.Valid {
		p.Filter = []byte(row.Filter.String)
	}
	return p, nil
}

func (s *SQL) Save(ctx context.Context, visual string, p Properties) error {
	if visual == "" {
		return ErrNoVisual
	}

	filter := sql.NullString{String: string(p.Filter), Valid: p.Filter != nil}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO visual_properties (visual, selected, expanded, filter, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (visual) DO UPDATE SET
			selected = EXCLUDED.selected,
			expanded = EXCLUDED.expanded,
			filter = EXCLUDED.filter,
			updated_at = EXCLUDED.updated_at`),
		visual, p.Selected, p.Expanded, filter, p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: saving %s: %w", visual, err)
	}
	return nil
}

// Open returns the store for driver: "" or "memory" keep state in
// process, anything else is a database/sql driver name.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	}
	return OpenSQL(ctx, driver, dsn)
}
