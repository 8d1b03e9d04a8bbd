// Command patchcoords backfills coordinates onto a wreck assessment
// document. It writes the same position to the coordinates, geometry, and
// position fields with a merge so re-running after a fix is safe.
//
// Usage:
//
//	go run ./cmd/patchcoords \
//	  -project my-gcp-project \
//	  -wreck rio-de-janeiro-maru \
//	  -lat 7.374383 -lng 151.928883
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	cloudfirestore "cloud.google.com/go/firestore"

	"github.com/joho/godotenv"
)

const defaultCollection = "artifacts/guardian/public/data/werpassessments"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	project := flag.String("project", "", "GCP project ID (defaults to ambient credentials)")
	collection := flag.String("collection", defaultCollection, "wreck assessment collection path")
	wreck := flag.String("wreck", "", "wreck document ID")
	lat := flag.Float64("lat", 0, "latitude in decimal degrees")
	lng := flag.Float64("lng", 0, "longitude in decimal degrees")
	flag.Parse()

	if *wreck == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -wreck")
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return fmt.Errorf("coordinates out of range: lat=%v lng=%v", *lat, *lng)
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

	// Write all three shapes the detector probes so downstream consumers
	// with different expectations all resolve the same position.
	patch := map[string]any{
		"coordinates": map[string]any{"lat": *lat, "lng": *lng},
		"geometry":    map[string]any{"coordinates": []any{*lng, *lat}},
		"position":    map[string]any{"lat": *lat, "lng": *lng},
	}

	doc := client.Doc(*collection + "/" + *wreck)
	if _, err := doc.Set(ctx, patch, cloudfirestore.MergeAll); err != nil {
		return fmt.Errorf("patch %s: %w", doc.Path, err)
	}

	fmt.Printf("patched %s/%s with lat=%v lng=%v\n", *collection, *wreck, *lat, *lng)
	return nil
}
