// Package sheets stores registrations as rows of a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Config identifies the spreadsheet and how to authenticate against it.
type Config struct {
	SpreadsheetID string
	Scope         string
	Credentials   CredentialSource
}

// Store appends to and reads from the first sheet of one spreadsheet.
// Every call authenticates and fetches from scratch.
type Store struct {
	spreadsheetID string
	connect       func(ctx context.Context) (*sheetsapi.Service, error)
}

func New(cfg Config) *Store {
	scope := cfg.Scope
	if scope == "" {
		scope = Scope
	}
	return &Store{
		spreadsheetID: cfg.SpreadsheetID,
		connect: func(ctx context.Context) (*sheetsapi.Service, error) {
			auth, err := Authenticate(ctx, cfg.Credentials, scope)
			if err != nil {
				return nil, err
			}
			return sheetsapi.NewService(ctx, auth)
		},
	}
}

// NewWithOptions builds a store with fixed client options instead of the
// credential lookup. Used against emulators and in tests.
func NewWithOptions(spreadsheetID string, opts ...option.ClientOption) *Store {
	return &Store{
		spreadsheetID: spreadsheetID,
		connect: func(ctx context.Context) (*sheetsapi.Service, error) {
			return sheetsapi.NewService(ctx, opts...)
		},
	}
}

func (s *Store) Name() string { return "Google Sheets" }

// firstSheet connects and returns the A1 range covering the first sheet.
func (s *Store) firstSheet(ctx context.Context) (*sheetsapi.Service, string, error) {
	if s.spreadsheetID == "" {
		return nil, "", errors.New("spreadsheet id not configured")
	}

	srv, err := s.connect(ctx)
	if err != nil {
		return nil, "", err
	}

	ss, err := srv.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, "", fmt.Errorf("open spreadsheet: %w", err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, "", fmt.Errorf("spreadsheet %s has no sheets", s.spreadsheetID)
	}

	return srv, quoteTitle(ss.Sheets[0].Properties.Title), nil
}

func (s *Store) AppendRow(ctx context.Context, row []string) (int, error) {
	srv, rng, err := s.firstSheet(ctx)
	if err != nil {
		return 0, err
	}

	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}

	resp, err := srv.Spreadsheets.Values.Append(s.spreadsheetID, rng, &sheetsapi.ValueRange{
		Values: [][]any{cells},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}

	if resp.Updates != nil {
		if n, ok := lastRow(resp.Updates.UpdatedRange); ok {
			return n, nil
		}
	}

	// No usable range in the response, count rows instead
	vr, err := srv.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return len(vr.Values), nil
}

func (s *Store) Records(ctx context.Context) ([]map[string]any, error) {
	srv, rng, err := s.firstSheet(ctx)
	if err != nil {
		return nil, err
	}

	vr, err := srv.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return recordsFromValues(vr.Values), nil
}
