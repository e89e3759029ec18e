package repository_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
	"github.com/secmon-lab/defectlens/pkg/repository"
)

func newDefect(id string, created time.Time) *model.DefectRecord {
	return &model.DefectRecord{
		ID:          types.DefectID(id),
		Title:       "Memory Leak",
		Severity:    "HIGH",
		Status:      "In Progress",
		Component:   "payment-processor",
		Owner:       "jane.smith@company.com",
		Description: "heap keeps growing",
		CreatedAt:   created,
		Release:     "v1.3.0",
	}
}

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("PutDefects and ListDefects", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Second)
		prefix := fmt.Sprintf("DEF-%d", now.UnixNano())

		resolved := now.Add(36 * time.Hour)
		closed := newDefect(prefix+"-b", now)
		closed.Status = "Resolved"
		closed.ResolvedAt = &resolved
		sparse := newDefect(prefix+"-a", now.Add(-time.Hour))
		sparse.Component = ""
		sparse.Owner = ""
		sparse.Description = ""

		gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{closed, sparse}))

		records, err := repo.ListDefects(ctx)
		gt.NoError(t, err).Required()

		found := map[types.DefectID]*model.DefectRecord{}
		for _, r := range records {
			found[r.ID] = r
		}

		gotClosed := found[closed.ID]
		gt.V(t, gotClosed).NotNil()
		gt.Equal(t, gotClosed.Title, closed.Title)
		// raw tracker values are stored as delivered
		gt.Equal(t, gotClosed.Severity, types.Severity("HIGH"))
		gt.Equal(t, gotClosed.Status, types.DefectStatus("Resolved"))
		gt.Equal(t, gotClosed.Release, closed.Release)
		gt.True(t, gotClosed.CreatedAt.Equal(now))
		gt.V(t, gotClosed.ResolvedAt).NotNil()
		gt.True(t, gotClosed.ResolvedAt.Equal(resolved))

		gotSparse := found[sparse.ID]
		gt.V(t, gotSparse).NotNil()
		gt.Equal(t, gotSparse.Component, "")
		gt.Equal(t, gotSparse.Owner, "")
		gt.V(t, gotSparse.ResolvedAt).Nil()
	})

	t.Run("ListDefects is ordered by ID", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Second)
		prefix := fmt.Sprintf("DEF-%d", now.UnixNano())
		gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{
			newDefect(prefix+"-3", now),
			newDefect(prefix+"-1", now),
			newDefect(prefix+"-2", now),
		}))

		records, err := repo.ListDefects(ctx)
		gt.NoError(t, err).Required()
		for i := 1; i < len(records); i++ {
			gt.True(t, records[i-1].ID < records[i].ID)
		}
	})

	t.Run("PutDefects replaces existing record", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Second)
		id := fmt.Sprintf("DEF-replace-%d", now.UnixNano())

		gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{newDefect(id, now)}))
		updated := newDefect(id, now)
		updated.Status = "closed"
		resolved := now.Add(time.Hour)
		updated.ResolvedAt = &resolved
		gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{updated}))

		records, err := repo.ListDefects(ctx)
		gt.NoError(t, err).Required()
		matched := 0
		for _, r := range records {
			if r.ID == types.DefectID(id) {
				matched++
				gt.Equal(t, r.Status, types.DefectStatus("closed"))
			}
		}
		gt.Equal(t, matched, 1)
	})

	t.Run("PutDefects rejects empty ID", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		err := repo.PutDefects(context.Background(), []*model.DefectRecord{newDefect("", time.Now())})
		gt.Error(t, err)
	})

	t.Run("PutDefects rejects nil record", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		err := repo.PutDefects(context.Background(), []*model.DefectRecord{nil})
		gt.Error(t, err)
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	original := newDefect("DEF-1", now)
	gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{original}))
	original.Title = "changed after put"

	records, err := repo.ListDefects(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, records[0].Title, "Memory Leak")

	records[0].Title = "changed after list"
	again, err := repo.ListDefects(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, again[0].Title, "Memory Leak")
}

func TestSQLiteRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		path := filepath.Join(t.TempDir(), "defects.db")
		repo, err := repository.NewSQLite(context.Background(), path)
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestSQLiteRepositoryPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "defects.db")
	now := time.Now().UTC().Truncate(time.Second)

	repo, err := repository.NewSQLite(ctx, path)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{newDefect("DEF-1", now)}))
	gt.NoError(t, repo.Close())

	reopened, err := repository.NewSQLite(ctx, path)
	gt.NoError(t, err).Required()
	defer reopened.Close()

	records, err := reopened.ListDefects(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, len(records), 1)
	gt.Equal(t, records[0].ID, types.DefectID("DEF-1"))
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		repo, err := repository.NewFirestore(ctx, projectID, databaseID)
		gt.NoError(t, err).Required()
		return repo
	})
}
