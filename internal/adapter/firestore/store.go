// Package firestore reads wreck assessment documents and writes monitoring
// events into the document store.
package firestore

import (
	"context"
	"fmt"
	"log/slog"

	cloudfirestore "cloud.google.com/go/firestore"

	"github.com/ush214/project-guardian/internal/domain"
)

// Store wraps the Firestore client for wreck reads and event writes.
type Store struct {
	client *cloudfirestore.Client
	logger *slog.Logger
}

// New connects to Firestore. An empty projectID falls back to ambient
// credentials (Cloud Run service account metadata).
func New(ctx context.Context, projectID string, logger *slog.Logger) (*Store, error) {
	if projectID == "" {
		projectID = cloudfirestore.DetectProjectID
	}
	client, err := cloudfirestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ListWrecks returns every document in each of the given collection paths.
// Listing goes through DocumentRefs rather than a query so documents that
// exist only as parents of subcollections still show up; their snapshots
// come back non-existent and are dropped.
func (s *Store) ListWrecks(ctx context.Context, collections []string) ([]domain.WreckRecord, error) {
	var out []domain.WreckRecord
	for _, col := range collections {
		refs, err := s.client.Collection(col).DocumentRefs(ctx).GetAll()
		if err != nil {
			return nil, fmt.Errorf("list documents in %s: %w", col, err)
		}
		if len(refs) == 0 {
			continue
		}

		snaps, err := s.client.GetAll(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("fetch documents in %s: %w", col, err)
		}
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			out = append(out, domain.WreckRecord{
				ID:   snap.Ref.ID,
				Path: col + "/" + snap.Ref.ID,
				Data: snap.Data(),
			})
		}
	}
	return out, nil
}

// WriteEvent merge-upserts a spill event under the wreck's monitoring
// subtree. Merge semantics preserve fields an earlier write set that this
// payload does not carry.
func (s *Store) WriteEvent(ctx context.Context, wreckPath string, event domain.SpillEvent) error {
	ref := s.client.Doc(eventPath(wreckPath, event.ID))
	if _, err := ref.Set(ctx, event.DocData(), cloudfirestore.MergeAll); err != nil {
		return fmt.Errorf("write event %s for %s: %w", event.ID, wreckPath, err)
	}
	return nil
}

// WriteNoDataEvent records a no-imagery marker for the wreck.
func (s *Store) WriteNoDataEvent(ctx context.Context, wreckPath string, marker domain.NoDataMarker) error {
	ref := s.client.Doc(eventPath(wreckPath, marker.ID))
	if _, err := ref.Set(ctx, marker.DocData(), cloudfirestore.MergeAll); err != nil {
		return fmt.Errorf("write no-data marker for %s: %w", wreckPath, err)
	}
	return nil
}

func eventPath(wreckPath, eventID string) string {
	return wreckPath + "/monitoring/oil/events/" + eventID
}
