// Command inspect walks the wreck assessment collections and reports whether
// each document carries resolvable coordinates. With -query it also runs a
// dry-run dark-spot detection per resolvable wreck and prints the candidate
// count, without writing anything.
//
// Usage:
//
//	go run ./cmd/inspect -project my-gcp-project
//	go run ./cmd/inspect -query
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	cloudfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/joho/godotenv"

	"github.com/ush214/project-guardian/internal/adapter/earthengine"
	"github.com/ush214/project-guardian/internal/config"
	"github.com/ush214/project-guardian/internal/domain"
	"github.com/ush214/project-guardian/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	project := flag.String("project", "", "GCP project ID (defaults to ambient credentials)")
	collections := flag.String("collections", "", "comma-separated collection paths (defaults to READ_COLLECTIONS)")
	query := flag.Bool("query", false, "run a dry-run imagery query per resolvable wreck")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		// The detection endpoint is only needed for -query.
		if *query {
			return err
		}
		cfg = &config.Config{}
	}

	cols := cfg.ReadCollections
	if *collections != "" {
		cols = strings.Split(*collections, ",")
	}
	if len(cols) == 0 {
		cols = []string{
			"artifacts/guardian/public/data/werpassessments",
			"artifacts/guardian-agent-default/public/data/werpassessments",
		}
	}

	ctx := context.Background()

	projectID := *project
	if projectID == "" {
		projectID = cloudfirestore.DetectProjectID
	}
	client, err := cloudfirestore.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("create firestore client: %w", err)
	}
	defer client.Close()

	var querier *earthengine.Client
	if *query {
		logger := observability.NewLogger("warn", "text")
		querier = earthengine.NewClient(cfg.EEBaseURL, cfg.EEToken, cfg.EETimeout, cfg.MaxCandidates, logger)
	}

	var total, resolvable int
	for _, col := range cols {
		col = strings.TrimSpace(col)
		fmt.Printf("collection %s\n", col)

		it := client.Collection(col).Documents(ctx)
		for {
			snap, err := it.Next()
			if err == iterator.Done {
				it.Stop()
				break
			}
			if err != nil {
				it.Stop()
				return fmt.Errorf("iterate %s: %w", col, err)
			}
			total++

			pos, ok := domain.ResolvePosition(snap.Data())
			if !ok {
				fmt.Printf("  %-40s unresolvable\n", snap.Ref.ID)
				continue
			}
			resolvable++
			fmt.Printf("  %-40s lat=%.6f lng=%.6f", snap.Ref.ID, pos.Lat, pos.Lng)

			if querier != nil {
				aoi := domain.NewAreaOfInterest(pos, cfg.AOIRadiusKm)
				window := domain.NewTimeWindow(cfg.LookbackHours)
				start := time.Now()
				candidates, err := querier.QueryCandidates(ctx, aoi, window)
				if err != nil {
					fmt.Printf("  query error: %v", err)
				} else {
					fmt.Printf("  candidates=%d (%.1fs)", len(candidates), time.Since(start).Seconds())
				}
			}
			fmt.Println()
		}
	}

	fmt.Printf("\n%d documents, %d resolvable, %d unresolvable\n", total, resolvable, total-resolvable)
	if resolvable < total {
		os.Exit(1)
	}
	return nil
}
