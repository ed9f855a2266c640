package vehicle

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"vrent/internal/status"
)

// Index is the caller-supplied vehicle lookup table. It is never modified after NewIndex.
type Index struct {
	byID        map[string]Vehicle
	byPlate     map[string]Vehicle
	byNamePlate map[namePlate]Vehicle
	// plates shared by more than one vehicle need the name to disambiguate
	ambiguous map[string]bool
}

type namePlate struct {
	name  string
	plate string
}

// NewIndex indexes vehicles by id, plate and (name, plate). The first vehicle wins on
// duplicate ids and pairs; a plate carried by several vehicles only resolves together
// with a name. Vehicles without an id cannot be activated and are skipped.
func NewIndex(vehicles []Vehicle) *Index {
	idx := &Index{
		byID:        make(map[string]Vehicle, len(vehicles)),
		byPlate:     make(map[string]Vehicle, len(vehicles)),
		byNamePlate: make(map[namePlate]Vehicle, len(vehicles)),
		ambiguous:   map[string]bool{},
	}
	for _, v := range vehicles {
		if strings.TrimSpace(v.ID) == "" {
			continue
		}
		if k := NormalizeKey(v.ID); k != "" {
			if _, ok := idx.byID[k]; !ok {
				idx.byID[k] = v
			}
		}
		p := NormalizePlate(v.Plate)
		if p == "" {
			continue
		}
		if _, dup := idx.byPlate[p]; dup {
			idx.ambiguous[p] = true
		} else {
			idx.byPlate[p] = v
		}
		np := namePlate{name: status.Normalize(v.Name), plate: p}
		if _, ok := idx.byNamePlate[np]; !ok {
			idx.byNamePlate[np] = v
		}
	}
	return idx
}

func (i *Index) ByID(id string) (Vehicle, bool) {
	if i == nil {
		return Vehicle{}, false
	}
	v, ok := i.byID[NormalizeKey(id)]
	return v, ok
}

func (i *Index) ByPlate(plate string) (Vehicle, bool) {
	if i == nil {
		return Vehicle{}, false
	}
	p := NormalizePlate(plate)
	if p == "" || i.ambiguous[p] {
		return Vehicle{}, false
	}
	v, ok := i.byPlate[p]
	return v, ok
}

func (i *Index) ByNamePlate(name, plate string) (Vehicle, bool) {
	if i == nil {
		return Vehicle{}, false
	}
	p := NormalizePlate(plate)
	n := status.Normalize(name)
	if p == "" || n == "" {
		return Vehicle{}, false
	}
	v, ok := i.byNamePlate[namePlate{name: n, plate: p}]
	return v, ok
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byID)
}

// NormalizePlate folds plate spellings: "กข-1234", "กข 1234" and "กข1234" are one plate.
func NormalizePlate(plate string) string {
	p := norm.NFKC.String(plate)
	p = strings.ToLower(p)
	var b strings.Builder
	for _, r := range p {
		switch r {
		case ' ', '-', '.', '_', '\t', '\u200b':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeKey is the form under which activations are remembered.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
