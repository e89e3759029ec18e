package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defectsCollection = "defects"

	// Firestore limits a batch to 500 writes
	firestoreBatchSize = 500
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on bad project or credentials. An empty collection is fine.
	_, err = client.Collection(defectsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// PutDefects writes records as documents keyed by defect ID
func (f *Firestore) PutDefects(ctx context.Context, records []*model.DefectRecord) error {
	if err := validateForPut(records); err != nil {
		return err
	}

	collection := f.client.Collection(defectsCollection)
	for start := 0; start < len(records); start += firestoreBatchSize {
		end := min(start+firestoreBatchSize, len(records))

		err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, r := range records[start:end] {
				if err := tx.Set(collection.Doc(r.ID.String()), r); err != nil {
					return goerr.Wrap(err, "failed to set defect", goerr.V("id", r.ID))
				}
			}
			return nil
		})
		if err != nil {
			return goerr.Wrap(err, "failed to save defects to firestore",
				goerr.V("offset", start),
				goerr.V("count", end-start),
			)
		}
	}

	return nil
}

// ListDefects reads every document of the defects collection
func (f *Firestore) ListDefects(ctx context.Context) ([]*model.DefectRecord, error) {
	iter := f.client.Collection(defectsCollection).Documents(ctx)
	defer iter.Stop()

	records := []*model.DefectRecord{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate defects")
		}

		var record model.DefectRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode defect", goerr.V("docID", doc.Ref.ID))
		}
		records = append(records, &record)
	}

	// Sorted in memory to avoid requiring an index
	sortByID(records)

	return records, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
