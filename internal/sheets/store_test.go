package sheets_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"winsbygroup.com/logitrack/internal/sheets"
)

const (
	testSpreadsheetID = "sheet-123"
	testSheetTitle    = "Hoja 1"
)

// fakeSheetsAPI serves the subset of the Sheets v4 REST API used by Store,
// backed by an in-memory grid.
type fakeSheetsAPI struct {
	mu           sync.Mutex
	rows         [][]any
	calls        []string
	fail         bool
	omitUpdates  bool
	inputOption  string
	renderOption string
}

func newFakeSheetsAPI(t *testing.T, header ...any) (*fakeSheetsAPI, *sheets.Store) {
	t.Helper()

	f := &fakeSheetsAPI{}
	if len(header) > 0 {
		f.rows = append(f.rows, header)
	}

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	store := sheets.NewWithOptions(testSpreadsheetID,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	return f, store
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	if f.fail {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": map[string]any{
				"code":    403,
				"message": "The caller does not have permission",
				"status":  "PERMISSION_DENIED",
			},
		})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	id, rng, hasValues := strings.Cut(rest, "/values/")
	if id != testSpreadsheetID {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": 404, "message": "Requested entity was not found."},
		})
		return
	}

	wantRange := "'" + testSheetTitle + "'"

	switch {
	case !hasValues && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"spreadsheetId": id,
			"sheets": []any{
				map[string]any{"properties": map[string]any{"sheetId": 0, "title": testSheetTitle}},
				map[string]any{"properties": map[string]any{"sheetId": 1, "title": "Otra"}},
			},
		})

	case hasValues && r.Method == http.MethodPost && strings.HasSuffix(rng, ":append"):
		if strings.TrimSuffix(rng, ":append") != wantRange {
			http.Error(w, "unexpected range "+rng, http.StatusBadRequest)
			return
		}
		f.inputOption = r.URL.Query().Get("valueInputOption")

		var vr sheetsapi.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, vr.Values...)
		n := len(f.rows)

		resp := map[string]any{"spreadsheetId": id}
		if !f.omitUpdates {
			resp["updates"] = map[string]any{
				"spreadsheetId": id,
				"updatedRange":  fmt.Sprintf("%s!A%d:E%d", wantRange, n, n),
				"updatedRows":   len(vr.Values),
			}
		}
		writeJSON(w, http.StatusOK, resp)

	case hasValues && r.Method == http.MethodGet:
		if rng != wantRange {
			http.Error(w, "unexpected range "+rng, http.StatusBadRequest)
			return
		}
		f.renderOption = r.URL.Query().Get("valueRenderOption")
		writeJSON(w, http.StatusOK, map[string]any{
			"range":          wantRange + "!A1:E1000",
			"majorDimension": "ROWS",
			"values":         f.rows,
		})

	default:
		http.Error(w, "unexpected request", http.StatusNotImplemented)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var testRow = []string{"6123456789012", "987654321", "-12.05, -77.03", "07/03/2025 09:05:03", "NO"}

func TestStoreAppendRow(t *testing.T) {
	ctx := context.Background()

	t.Run("appends raw values to the first sheet and returns row number", func(t *testing.T) {
		f, store := newFakeSheetsAPI(t, "Código", "Teléfono", "Ubicación", "Fecha", "Recojo")

		row, err := store.AppendRow(ctx, testRow)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if row != 2 {
			t.Errorf("expected row 2, got %d", row)
		}
		if f.inputOption != "RAW" {
			t.Errorf("expected valueInputOption RAW, got %q", f.inputOption)
		}
		if len(f.rows) != 2 || f.rows[1][0] != "6123456789012" || f.rows[1][4] != "NO" {
			t.Errorf("unexpected sheet contents %v", f.rows)
		}
	})

	t.Run("row numbers strictly increase", func(t *testing.T) {
		_, store := newFakeSheetsAPI(t, "Código", "Teléfono", "Ubicación", "Fecha", "Recojo")

		last := 0
		for i := 0; i < 4; i++ {
			row, err := store.AppendRow(ctx, testRow)
			if err != nil {
				t.Fatalf("append %d: %v", i, err)
			}
			if row <= last {
				t.Errorf("row %d not greater than %d", row, last)
			}
			last = row
		}
		if last != 5 {
			t.Errorf("expected last row 5, got %d", last)
		}
	})

	t.Run("counts rows when the response has no updated range", func(t *testing.T) {
		f, store := newFakeSheetsAPI(t, "Código", "Teléfono", "Ubicación", "Fecha", "Recojo")
		f.omitUpdates = true

		if _, err := store.AppendRow(ctx, testRow); err != nil {
			t.Fatalf("append: %v", err)
		}
		row, err := store.AppendRow(ctx, testRow)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if row != 3 {
			t.Errorf("expected row 3, got %d", row)
		}
	})

	t.Run("returns API errors", func(t *testing.T) {
		f, store := newFakeSheetsAPI(t, "Código")
		f.fail = true

		_, err := store.AppendRow(ctx, testRow)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "permission") {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("requires a spreadsheet id", func(t *testing.T) {
		store := sheets.NewWithOptions("", option.WithHTTPClient(http.DefaultClient))

		if _, err := store.AppendRow(ctx, testRow); err == nil {
			t.Error("expected error for empty spreadsheet id")
		}
	})
}

func TestStoreRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("empty sheet returns no records", func(t *testing.T) {
		_, store := newFakeSheetsAPI(t, "Código", "Teléfono", "Ubicación", "Fecha", "Recojo")

		records, err := store.Records(ctx)
		if err != nil {
			t.Fatalf("records: %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Errorf("expected empty slice, got %#v", records)
		}
	})

	t.Run("returns appended rows keyed by header without mutating", func(t *testing.T) {
		f, store := newFakeSheetsAPI(t, "Código", "Teléfono", "Ubicación", "Fecha", "Recojo")

		for _, code := range []string{"6123456789012", "6000000000001"} {
			row := append([]string(nil), testRow...)
			row[0] = code
			if _, err := store.AppendRow(ctx, row); err != nil {
				t.Fatalf("append: %v", err)
			}
		}

		first, err := store.Records(ctx)
		if err != nil {
			t.Fatalf("records: %v", err)
		}
		if f.renderOption != "UNFORMATTED_VALUE" {
			t.Errorf("expected UNFORMATTED_VALUE, got %q", f.renderOption)
		}
		rowsBefore := len(f.rows)

		second, err := store.Records(ctx)
		if err != nil {
			t.Fatalf("records: %v", err)
		}
		if len(f.rows) != rowsBefore {
			t.Errorf("listing changed the sheet: %d rows, was %d", len(f.rows), rowsBefore)
		}

		if len(first) != 2 || len(second) != 2 {
			t.Fatalf("expected 2 records, got %d and %d", len(first), len(second))
		}
		if first[0]["Código"] != "6123456789012" || first[1]["Código"] != "6000000000001" {
			t.Errorf("unexpected order %v", first)
		}
		if first[0]["Recojo"] != "NO" {
			t.Errorf("expected Recojo NO, got %v", first[0]["Recojo"])
		}
	})

	t.Run("returns API errors", func(t *testing.T) {
		f, store := newFakeSheetsAPI(t, "Código")
		f.fail = true

		if _, err := store.Records(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestNewReportsCredentialErrors(t *testing.T) {
	store := sheets.New(sheets.Config{
		SpreadsheetID: testSpreadsheetID,
		Credentials: sheets.CredentialSource{
			EnvVar: "LOGITRACK_TEST_UNSET_CREDENTIALS",
			File:   t.TempDir() + "/missing.json",
		},
	})

	_, err := store.AppendRow(context.Background(), testRow)
	expectCredentialError(t, err)

	if store.Name() != "Google Sheets" {
		t.Errorf("unexpected name %q", store.Name())
	}
}
