// Package sqlite holds the local SQLite registration store and its schema.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/GuiaBolso/darwin"
	_ "github.com/mattn/go-sqlite3"
)

// ApplicationID is the SQLite application_id for logitrack databases.
// "LOGI" in ASCII: L=0x4C, O=0x4F, G=0x47, I=0x49
const ApplicationID = 0x4C4F4749

// ErrInvalidDatabase is returned when the database is not a valid logitrack database.
var ErrInvalidDatabase = errors.New("not a valid 'logitrack' database")

// defineMigrations returns the local store schema, one step per row.
// Comments must only appear after sql on a line (they are stripped before the checksum).
// Never change or remove a released step, darwin stores a checksum of each script.
func defineMigrations() []darwin.Migration {
	return []darwin.Migration{
		{Version: 1.00, Description: "Set application_id", Script: `
		PRAGMA application_id = 0x4C4F4749;`},

		{Version: 1.01, Description: "Create Table 'registration'", Script: `
		CREATE TABLE IF NOT EXISTS registration (
			row_id INTEGER PRIMARY KEY AUTOINCREMENT,
			package_code VARCHAR(13) NOT NULL,
			phone VARCHAR(9) NOT NULL,
			location VARCHAR(255) NOT NULL,
			registered_at VARCHAR(19) NOT NULL, -- DD/MM/YYYY HH:MM:SS
			pickup VARCHAR(2) NOT NULL
		);`},

		{Version: 1.02, Description: "Create Index 'idx_registration_package_code'", Script: `
		CREATE INDEX IF NOT EXISTS idx_registration_package_code ON registration (package_code ASC);`},
	}
}

// appliedVersion returns how many migration steps ran and the highest version.
// A database that never ran darwin reports 0, 0.
func appliedVersion(db *sql.DB) (steps int, version float64, err error) {
	var tables int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE tbl_name = 'darwin_migrations';`).Scan(&tables)
	if err != nil || tables == 0 {
		return 0, 0, err
	}

	err = db.QueryRow(`SELECT COUNT(*), MAX(version) FROM darwin_migrations;`).Scan(&steps, &version)
	return steps, version, err
}

// normalizedMigrations returns the migrations with normalized scripts, so
// whitespace, case and comment edits keep the same checksum.
func normalizedMigrations() []darwin.Migration {
	migrations := defineMigrations()
	for i := range migrations {
		migrations[i].Script = normalizeScript(migrations[i].Script)
	}
	return migrations
}

func normalizeScript(script string) string {
	lines := strings.Split(strings.ToLower(strings.ReplaceAll(script, "/*", "--")), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if i := strings.Index(line, "--"); i != -1 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(strings.Fields(strings.Join(out, "\n")), " ")
}

func describeSteps(ch <-chan darwin.MigrationInfo) string {
	var b strings.Builder
	for info := range ch {
		_, _ = fmt.Fprintf(&b, "v%.2f: %q (%s) Error: %v\n",
			info.Migration.Version, info.Migration.Description, info.Status.String(), info.Error)
	}
	return b.String()
}

// Schema returns the local store definitions for display.
func Schema() string {
	var b strings.Builder
	for _, m := range defineMigrations() {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, strings.TrimSpace(m.Script))
	}
	return b.String()
}

// VerifyApplicationID rejects databases that belong to another application.
// An empty database (application_id 0 and no tables) is accepted.
func VerifyApplicationID(db *sql.DB) error {
	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}

	switch {
	case appID == ApplicationID:
		return nil
	case appID != 0:
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	var tables int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tables > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations brings an open database up to the current schema.
func RunMigrations(db *sql.DB) error {
	if err := VerifyApplicationID(db); err != nil {
		return err
	}

	steps, before, err := appliedVersion(db)
	if err != nil {
		return err
	}

	migrations := normalizedMigrations()
	if steps == len(migrations) && before == migrations[steps-1].Version {
		log.Printf("Database version %.2f is current, no migrations needed", before)
		return nil
	}

	info := make(chan darwin.MigrationInfo, len(migrations))
	d := darwin.New(darwin.NewGenericDriver(db, darwin.SqliteDialect{}), migrations, info)

	if err := d.Migrate(); err != nil {
		close(info)
		_, after, _ := appliedVersion(db)
		steps := describeSteps(info)
		log.Printf("migration (was v%.2f now v%.2f): %v (%s)", before, after, err, steps)
		return fmt.Errorf("migration error: %w\n%s", err, steps)
	}
	close(info)

	_, after, err := appliedVersion(db)
	if err != nil {
		return err
	}

	if before != after {
		log.Printf("DB Version: %.2f (migrated from %.2f to %.2f)", after, before, after)
	} else {
		log.Printf("DB Version: %.2f", after)
	}
	return nil
}
