package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vrent/internal/activation"
	"vrent/internal/status"
	"vrent/internal/vehicle"
)

type execRecorder struct {
	sql  string
	args []any
	rows [][]any
}

func (e *execRecorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if _, ok := ctx.Deadline(); !ok {
		panic("expected journal writes to carry a deadline")
	}
	e.sql, e.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (e *execRecorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	e.sql, e.args = sql, args
	return &fakeRows{rows: e.rows, i: -1}, nil
}

// fakeRows serves fixed rows in the column order of the ListRecent SELECT.
type fakeRows struct {
	rows   [][]any
	i      int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.rows)
}

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.i], nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *string:
			*p = row[i].(string)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

func (e *execRecorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not used")
}

func TestRecordAttempt_InsertsRow(t *testing.T) {
	rec := &execRecorder{}
	repo := NewRepository(rec)
	at := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)

	err := repo.RecordAttempt(context.Background(), activation.Attempt{
		VehicleKey:  "VEH-0001",
		BookingID:   "RENT-1",
		Source:      vehicle.SourcePlate,
		Stage:       status.VehicleInUse,
		Result:      "failed",
		Error:       "timeout",
		AttemptedAt: at,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(rec.args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(rec.args))
	}
	if rec.args[2] != "plate" || rec.args[3] != "in-use" {
		t.Fatalf("unexpected args %v", rec.args)
	}
	if e, ok := rec.args[5].(*string); !ok || *e != "timeout" {
		t.Fatalf("expected error text, got %v", rec.args[5])
	}
}

func TestRecordAttempt_NullErrorOnSuccess(t *testing.T) {
	rec := &execRecorder{}
	if err := NewRepository(rec).RecordAttempt(context.Background(), activation.Attempt{VehicleKey: "VEH-1", Result: "activated"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if e, ok := rec.args[5].(*string); !ok || e != nil {
		t.Fatalf("expected nil error pointer, got %v", rec.args[5])
	}
}

func TestListRecent_FiltersAndMapsRows(t *testing.T) {
	at := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	rec := &execRecorder{rows: [][]any{
		{int64(2), "VEH-0001", "RENT-2", "plate", "in-use", "failed", "timeout", at, at.Add(time.Second)},
		{int64(1), "VEH-0001", "RENT-1", "vehicle_id", "in-use", "activated", "", at.Add(-time.Hour), at},
	}}

	entries, err := NewRepository(rec).ListRecent(context.Background(), "  VEH-0001 ", 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(rec.sql, "COALESCE(error, '')") || !strings.Contains(rec.sql, "lower(vehicle_key) = $1") {
		t.Fatalf("unexpected query %s", rec.sql)
	}
	if rec.args[0] != "veh-0001" || rec.args[1] != 20 {
		t.Fatalf("unexpected args %v", rec.args)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.ID != 2 || first.BookingID != "RENT-2" || first.Source != "plate" || first.Result != "failed" || first.Error != "timeout" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if !first.AttemptedAt.Equal(at) || !first.CreatedAt.Equal(at.Add(time.Second)) {
		t.Fatalf("unexpected timestamps %+v", first)
	}
	if entries[1].Error != "" {
		t.Fatalf("expected empty error for success, got %q", entries[1].Error)
	}
}

func TestListRecent_ClampsLimit(t *testing.T) {
	for _, limit := range []int{0, -3, 501} {
		rec := &execRecorder{}
		if _, err := NewRepository(rec).ListRecent(context.Background(), "", limit); err != nil {
			t.Fatalf("list: %v", err)
		}
		if rec.args[0] != "" || rec.args[1] != 100 {
			t.Fatalf("limit %d: unexpected args %v", limit, rec.args)
		}
	}
	rec := &execRecorder{}
	if _, err := NewRepository(rec).ListRecent(context.Background(), "", 500); err != nil || rec.args[1] != 500 {
		t.Fatalf("expected 500 kept, got %v (%v)", rec.args, err)
	}
}

func TestListRecent_EmptyIsNotNil(t *testing.T) {
	entries, err := NewRepository(&execRecorder{}).ListRecent(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
}
