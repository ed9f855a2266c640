package activation

import (
	"sort"
	"sync"

	"vrent/internal/vehicle"
)

// Record remembers which vehicle keys already had their activation applied.
// Keys are stored lowercased and trimmed. A Record belongs to one Guard.
type Record struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewRecord() *Record {
	return &Record{keys: map[string]struct{}{}}
}

func (r *Record) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[vehicle.NormalizeKey(key)]
	return ok
}

// Add reports whether the key was not present before.
func (r *Record) Add(key string) bool {
	k := vehicle.NormalizeKey(key)
	if k == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[k]; ok {
		return false
	}
	r.keys[k] = struct{}{}
	return true
}

func (r *Record) Remove(key string) bool {
	k := vehicle.NormalizeKey(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[k]; !ok {
		return false
	}
	delete(r.keys, k)
	return true
}

// Reset forgets every key and returns how many were dropped.
func (r *Record) Reset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.keys)
	r.keys = map[string]struct{}{}
	return n
}

func (r *Record) Keys() []string {
	r.mu.Lock()
	out := make([]string, 0, len(r.keys))
	for k := range r.keys {
		out = append(out, k)
	}
	r.mu.Unlock()
	sort.Strings(out)
	return out
}

func (r *Record) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
