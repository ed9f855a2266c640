package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"vrent/internal/rental"
	"vrent/pkg/erp"
)

// Source reads raw rental and vehicle records from the system of record.
type Source interface {
	ListRentals(ctx context.Context) ([]rental.Record, error)
	ListVehicles(ctx context.Context) ([]rental.Record, error)
}

type DocumentLister interface {
	ListDocuments(ctx context.Context, doctype string) ([]erp.Document, error)
}

// ERPSource reads both collections from ERP doctypes.
type ERPSource struct {
	ERP            DocumentLister
	RentalDoctype  string
	VehicleDoctype string
}

func (s ERPSource) ListRentals(ctx context.Context) ([]rental.Record, error) {
	return s.list(ctx, s.RentalDoctype)
}

func (s ERPSource) ListVehicles(ctx context.Context) ([]rental.Record, error) {
	return s.list(ctx, s.VehicleDoctype)
}

func (s ERPSource) list(ctx context.Context, doctype string) ([]rental.Record, error) {
	docs, err := s.ERP.ListDocuments(ctx, doctype)
	if err != nil {
		return nil, err
	}
	out := make([]rental.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, rental.Record(d))
	}
	return out, nil
}

// StaticSource serves fixed records; used by the offline evaluator and tests.
type StaticSource struct {
	Rentals  []rental.Record `json:"rentals"`
	Vehicles []rental.Record `json:"vehicles"`
}

// LoadDump reads a {"rentals": [...], "vehicles": [...]} export. Numbers stay json.Number.
func LoadDump(r io.Reader) (StaticSource, error) {
	var s StaticSource
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return StaticSource{}, fmt.Errorf("decode dump: %w", err)
	}
	return s, nil
}

func (s StaticSource) ListRentals(ctx context.Context) ([]rental.Record, error) {
	return s.Rentals, nil
}

func (s StaticSource) ListVehicles(ctx context.Context) ([]rental.Record, error) {
	return s.Vehicles, nil
}
