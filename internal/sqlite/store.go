package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/logitrack/internal/registration"
)

const appendRowSQL = `
INSERT INTO registration (
    package_code,
    phone,
    location,
    registered_at,
    pickup
) VALUES (?, ?, ?, ?, ?)
`

const countRowsSQL = `
SELECT COUNT(*) FROM registration
`

const listRowsSQL = `
SELECT
    package_code,
    phone,
    location,
    registered_at,
    pickup
FROM registration
ORDER BY row_id
`

type row struct {
	PackageCode  string `db:"package_code"`
	Phone        string `db:"phone"`
	Location     string `db:"location"`
	RegisteredAt string `db:"registered_at"`
	Pickup       string `db:"pickup"`
}

// Store keeps registrations in a local SQLite table. It behaves like a
// sheet whose header is registration.Header.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string { return "SQLite" }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// AppendRow inserts the row and returns the row count including the header.
func (s *Store) AppendRow(ctx context.Context, cols []string) (int, error) {
	if len(cols) != len(registration.Header) {
		return 0, fmt.Errorf("append row: expected %d columns, got %d", len(registration.Header), len(cols))
	}

	var count int
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, appendRowSQL, cols[0], cols[1], cols[2], cols[3], cols[4]); err != nil {
			return err
		}
		return tx.GetContext(ctx, &count, countRowsSQL)
	})
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	return count + 1, nil
}

func (s *Store) Records(ctx context.Context) ([]map[string]any, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, listRowsSQL); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	records := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		values := []string{r.PackageCode, r.Phone, r.Location, r.RegisteredAt, r.Pickup}
		rec := make(map[string]any, len(values))
		for i, name := range registration.Header {
			rec[name] = values[i]
		}
		records = append(records, rec)
	}
	return records, nil
}
