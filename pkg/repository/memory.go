package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu      sync.RWMutex
	defects map[types.DefectID]*model.DefectRecord
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		defects: make(map[types.DefectID]*model.DefectRecord),
	}
}

// PutDefects stores copies of the records
func (m *Memory) PutDefects(ctx context.Context, records []*model.DefectRecord) error {
	if err := validateForPut(records); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range records {
		m.defects[r.ID] = copyDefect(r)
	}
	return nil
}

// ListDefects returns copies of all records ordered by ID
func (m *Memory) ListDefects(ctx context.Context) ([]*model.DefectRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*model.DefectRecord, 0, len(m.defects))
	for _, r := range m.defects {
		records = append(records, copyDefect(r))
	}
	sortByID(records)

	return records, nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}

func validateForPut(records []*model.DefectRecord) error {
	for i, r := range records {
		if r == nil {
			return goerr.New("defect record is nil", goerr.V("index", i))
		}
		if r.ID == "" {
			return goerr.New("defect ID is empty", goerr.V("index", i), goerr.V("title", r.Title))
		}
	}
	return nil
}

func copyDefect(r *model.DefectRecord) *model.DefectRecord {
	c := *r
	if r.ResolvedAt != nil {
		resolved := *r.ResolvedAt
		c.ResolvedAt = &resolved
	}
	return &c
}

func sortByID(records []*model.DefectRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}
