package vehicle

import (
	"regexp"
	"strings"

	"vrent/internal/rental"
)

// DefaultCodePattern matches ERP vehicle document codes such as "VEH-00012" embedded in
// free-text vehicle names.
const DefaultCodePattern = `(?i)\bVEH[-_]?\d+(?:[-_]\d+)*\b`

// Source records which fallback produced a vehicle key.
type Source string

const (
	SourceVehicleID Source = "vehicle_id"
	SourceNameCode  Source = "name_code"
	SourcePlate     Source = "plate"
	SourceNamePlate Source = "name_plate"
)

// Key is a resolved vehicle identifier in the form the ERP expects.
type Key string

func (k Key) Normalized() string { return NormalizeKey(string(k)) }

// Resolver maps bookings to vehicle keys.
type Resolver struct {
	Index       *Index
	CodePattern *regexp.Regexp
}

func NewResolver(idx *Index, codePattern string) (*Resolver, error) {
	if strings.TrimSpace(codePattern) == "" {
		codePattern = DefaultCodePattern
	}
	re, err := regexp.Compile(codePattern)
	if err != nil {
		return nil, err
	}
	return &Resolver{Index: idx, CodePattern: re}, nil
}

// WithIndex returns a resolver sharing r's compiled pattern with a different index.
func (r *Resolver) WithIndex(idx *Index) *Resolver {
	return &Resolver{Index: idx, CodePattern: r.CodePattern}
}

// ResolveKey tries, in order: the booking's vehicle id, a document code in the vehicle
// name, the plate, and the (name, plate) pair.
func (r *Resolver) ResolveKey(b rental.Booking) (Key, Source, bool) {
	if id := strings.TrimSpace(b.VehicleID); id != "" {
		return Key(id), SourceVehicleID, true
	}
	if r.CodePattern != nil {
		if code := r.CodePattern.FindString(b.VehicleName); code != "" {
			return Key(strings.ToUpper(code)), SourceNameCode, true
		}
	}
	if v, ok := r.Index.ByPlate(b.Plate); ok {
		return Key(v.ID), SourcePlate, true
	}
	if v, ok := r.Index.ByNamePlate(b.VehicleName, b.Plate); ok {
		return Key(v.ID), SourceNamePlate, true
	}
	return "", "", false
}
