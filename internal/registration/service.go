package registration

import (
	"context"
	"errors"
	"log"
	"time"
)

// Store is an append-only table whose first row is a header.
type Store interface {
	// Name identifies the backend in responses and logs.
	Name() string

	// AppendRow appends one row and returns the total row count,
	// header included.
	AppendRow(ctx context.Context, row []string) (int, error)

	// Records returns every data row keyed by header name, in table order.
	Records(ctx context.Context) ([]map[string]any, error)
}

type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) StoreName() string {
	return s.store.Name()
}

// Create validates the request, stamps it and appends it to the store.
func (s *Service) Create(ctx context.Context, req *Request) (*Result, error) {
	reg, err := Validate(req)
	if err != nil {
		return nil, err
	}
	reg.Timestamp = s.now().In(s.loc)

	row, err := s.store.AppendRow(ctx, reg.Row())
	if err != nil {
		return nil, storeError("append", err)
	}

	log.Printf("Registration saved: %s (row %d)", reg.PackageCode, row)
	return &Result{Registration: reg, Row: row}, nil
}

// List returns all stored registrations. The slice is never nil.
func (s *Service) List(ctx context.Context) ([]map[string]any, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, storeError("list", err)
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}

// storeError leaves credential failures as they are and wraps everything
// else as a StoreError.
func storeError(op string, err error) error {
	var credErr *CredentialError
	if errors.As(err, &credErr) {
		return credErr
	}
	return &StoreError{Op: op, Err: err}
}
