// Command evaluate runs one offline cycle over a rentals/vehicles dump and prints the
// resolved board plus the activations that would be sent. Nothing is written anywhere.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"vrent/internal/activation"
	"vrent/internal/engine"
	"vrent/internal/status"
	"vrent/pkg/config"
	"vrent/pkg/logger"
)

func main() {
	var (
		dump = flag.String("dump", "testdata/fleet.json", "path to json dump with rentals and vehicles")
		at   = flag.String("now", "", "evaluation time, RFC3339 (defaults to the current time)")
		lang = flag.String("lang", "th", "label language (th or en)")
	)
	flag.Parse()

	cfg := config.Load()
	lg, err := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"}, "dev")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	if *at != "" {
		if now, err = time.Parse(time.RFC3339, *at); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -now: %v\n", err)
			os.Exit(2)
		}
	}

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

	var sent []string
	dryRun := activation.ActivatorFunc(func(ctx context.Context, key string, stage status.Token) error {
		sent = append(sent, fmt.Sprintf("%s -> %s", key, stage))
		return nil
	})
	guard := activation.NewGuard(nil, dryRun, activation.Options{
		Logger:      lg,
		Concurrency: 1,
	})
	eng, err := engine.New(src, guard, lg, engine.Config{
		Location:    cfg.Rental.Location(),
		CodePattern: cfg.Rental.VehicleCodePattern,
		Now:         func() time.Time { return now },
	})
	if err != nil {
		lg.Fatal("engine", zap.Error(err))
	}

	snap, err := eng.Cycle(context.Background(), "manual", true)
	if err != nil {
		lg.Fatal("cycle", zap.Error(err))
	}

	tag := status.MatchLanguage(*lang)
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "BOOKING\tSTAGE\tRAW STATUS\tPAYMENT\tVEHICLE\tKEY SOURCE\n")
	for _, r := range snap.Rentals {
		key := r.VehicleKey
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Booking.ID,
			status.DisplayLabel(status.DomainBooking, r.Stage, tag),
			r.Booking.RawStatus,
			status.DisplayLabel(status.DomainPayment, r.Booking.Payment, tag),
			key,
			r.KeySource,
		)
	}
	_ = tw.Flush()

	fmt.Printf("\nevaluated at %s: %d in use, %d unresolved\n", snap.EvaluatedAt.Format(time.RFC3339), snap.Report.InUse, len(snap.Report.Unresolved))
	for _, s := range sent {
		fmt.Printf("would activate %s\n", s)
	}
}
