// Command simerp serves a rentals/vehicles dump over the ERP resource API so the
// service can run locally without an ERP. Stage writes are applied in memory and
// printed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"vrent/internal/engine"
	"vrent/internal/rental"
)

type store struct {
	mu   sync.Mutex
	docs map[string][]rental.Record
}

func main() {
	var (
		addr     = flag.String("addr", ":8000", "listen address")
		dump     = flag.String("dump", "testdata/fleet.json", "path to json dump with rentals and vehicles")
		rentals  = flag.String("rental-doctype", "Rental", "doctype served from the rentals list")
		vehicles = flag.String("vehicle-doctype", "Vehicle", "doctype served from the vehicles list")
		failPut  = flag.Int("fail-every", 0, "fail every Nth PUT with a 500 (0 disables)")
	)
	flag.Parse()

	f, err := os.Open(*dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open dump: %v\n", err)
		os.Exit(2)
	}
	src, err := engine.LoadDump(f)
	_ = f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	s := &store{docs: map[string][]rental.Record{*rentals: src.Rentals, *vehicles: src.Vehicles}}
	var puts int

	r := chi.NewRouter()
	r.Get("/api/resource/{doctype}", func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("limit_start"))
		length, _ := strconv.Atoi(r.URL.Query().Get("limit_page_length"))

		s.mu.Lock()
		docs, ok := s.docs[chi.URLParam(r, "doctype")]
		page := paginate(docs, start, length)
		s.mu.Unlock()
		if !ok {
			http.Error(w, `{"exc_type":"DoesNotExistError"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{"data": page})
	})
	r.Put("/api/resource/{doctype}/{name}", func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, `{"exc_type":"ValidationError"}`, http.StatusBadRequest)
			return
		}
		doctype, name := chi.URLParam(r, "doctype"), chi.URLParam(r, "name")

		s.mu.Lock()
		defer s.mu.Unlock()
		puts++
		if *failPut > 0 && puts%*failPut == 0 {
			fmt.Printf("PUT %s/%s -> simulated failure\n", doctype, name)
			http.Error(w, `{"exc_type":"TimestampMismatchError"}`, http.StatusInternalServerError)
			return
		}
		for _, doc := range s.docs[doctype] {
			if doc.First("name") == name {
				for k, v := range fields {
					doc[k] = v
				}
				fmt.Printf("PUT %s/%s %v\n", doctype, name, fields)
				writeJSON(w, map[string]any{"data": doc})
				return
			}
		}
		http.Error(w, `{"exc_type":"DoesNotExistError"}`, http.StatusNotFound)
	})

	fmt.Printf("simerp listening on %s (%d rentals, %d vehicles)\n", *addr, len(src.Rentals), len(src.Vehicles))
	if err := http.ListenAndServe(*addr, r); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}

func paginate(docs []rental.Record, start, length int) []rental.Record {
	if start < 0 || start >= len(docs) {
		return []rental.Record{}
	}
	end := len(docs)
	if length > 0 && start+length < end {
		end = start + length
	}
	return docs[start:end]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
