package interfaces

//go:generate moq -out mocks/repository_mock.go -pkg mocks . Repository

import (
	"context"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
)

// Repository is the raw record source behind the analytics endpoint
type Repository interface {
	// PutDefects stores records, replacing any with the same ID
	PutDefects(ctx context.Context, records []*model.DefectRecord) error
	// ListDefects returns every stored record ordered by ID
	ListDefects(ctx context.Context) ([]*model.DefectRecord, error)

	// Close closes the repository connection
	Close() error
}
