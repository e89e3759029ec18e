package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/defectlens/pkg/analytics"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
	"github.com/secmon-lab/defectlens/pkg/repository"
	"github.com/secmon-lab/defectlens/pkg/usecase"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seededRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	resolved := at("2024-01-10")
	repo := repository.NewMemory()
	gt.NoError(t, repo.PutDefects(context.Background(), []*model.DefectRecord{
		{ID: "DEF-1", Title: "NPE", Severity: "Critical", Status: "Open", CreatedAt: at("2024-01-05"), Release: "v1", Owner: "alice@example.com"},
		{ID: "DEF-2", Title: "npe", Severity: "critical", Status: "closed", CreatedAt: at("2024-01-01"), ResolvedAt: &resolved, Release: "v1", Component: "core", Description: "null deref in parser"},
		{ID: "DEF-3", Title: "Leak", Severity: "HIGH", Status: "open", CreatedAt: at("2024-02-01"), Release: "v2", Component: "core"},
	})).Required()
	return repo
}

func TestAnalytics_ListDefects(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAnalytics(seededRepository(t), nil, nil)

	t.Run("no filter returns everything", func(t *testing.T) {
		records, err := uc.ListDefects(ctx, nil)
		gt.NoError(t, err)
		gt.Equal(t, len(records), 3)
	})

	t.Run("severity filter folds case", func(t *testing.T) {
		filter, err := model.NewDefectFilter("CRITICAL", "", "", "")
		gt.NoError(t, err).Required()
		records, err := uc.ListDefects(ctx, filter)
		gt.NoError(t, err)
		gt.Equal(t, len(records), 2)
	})

	t.Run("component filter is a substring match", func(t *testing.T) {
		filter, err := model.NewDefectFilter("", "", "COR", "")
		gt.NoError(t, err).Required()
		records, err := uc.ListDefects(ctx, filter)
		gt.NoError(t, err)
		gt.Equal(t, len(records), 2)
	})
}

func TestAnalytics_ComputeAnalytics(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAnalytics(seededRepository(t), analytics.New(), model.DefaultClassification())

	t.Run("whole set", func(t *testing.T) {
		payload, err := uc.ComputeAnalytics(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Equal(t, payload.KPIs.TotalDefects, 3)
		gt.Equal(t, payload.KPIs.RecurrenceRate, 66.7)
		gt.Equal(t, payload.DataQuality.OverallQuality, 44.4)
	})

	t.Run("filtered by release", func(t *testing.T) {
		filter, err := model.NewDefectFilter("", "", "", "v2")
		gt.NoError(t, err).Required()
		payload, err := uc.ComputeAnalytics(ctx, filter)
		gt.NoError(t, err).Required()
		gt.Equal(t, payload.KPIs.TotalDefects, 1)
		gt.Equal(t, payload.ReleaseCalendar, []model.ReleaseRow{{Release: "v2", Total: 1, Open: 1}})
	})

	t.Run("filter matching nothing yields empty payload", func(t *testing.T) {
		filter, err := model.NewDefectFilter("low", "", "", "")
		gt.NoError(t, err).Required()
		payload, err := uc.ComputeAnalytics(ctx, filter)
		gt.NoError(t, err).Required()
		gt.Equal(t, payload.KPIs.TotalDefects, 0)
		gt.Equal(t, len(payload.RecurrenceAnalysis), 0)
	})
}

func TestAnalytics_ComputeAnalyticsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	repo := seededRepository(t)
	gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{
		{ID: "DEF-9", Title: "", Severity: "low", Status: "open", CreatedAt: at("2024-03-01"), Release: "v3"},
	})).Required()

	t.Run("fail policy rejects the batch", func(t *testing.T) {
		uc := usecase.NewAnalytics(repo, analytics.New(), nil)
		_, err := uc.ComputeAnalytics(ctx, nil)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagValidation))
		gt.True(t, errors.Is(err, model.ErrInvalidRecord))
	})

	t.Run("skip policy drops the record", func(t *testing.T) {
		uc := usecase.NewAnalytics(repo, analytics.New(analytics.WithValidationPolicy(model.ValidationPolicySkip)), nil)
		payload, err := uc.ComputeAnalytics(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Equal(t, payload.KPIs.TotalDefects, 3)
		gt.Equal(t, payload.DataQuality.RejectedRecords, 1)
	})
}

func TestAnalytics_ComputeAnalyticsFilteredInvalidRecord(t *testing.T) {
	ctx := context.Background()
	repo := seededRepository(t)
	gt.NoError(t, repo.PutDefects(ctx, []*model.DefectRecord{
		{ID: "DEF-9", Title: "Hang", Severity: "urgent", Status: "open", CreatedAt: at("2024-03-01"), Release: "v3"},
	})).Required()

	filter, err := model.NewDefectFilter("critical", "", "", "")
	gt.NoError(t, err).Required()

	t.Run("fail policy rejects the batch", func(t *testing.T) {
		uc := usecase.NewAnalytics(repo, analytics.New(), nil)
		_, err := uc.ComputeAnalytics(ctx, filter)
		gt.True(t, errors.Is(err, model.ErrInvalidRecord))
	})

	t.Run("skip policy counts the record", func(t *testing.T) {
		uc := usecase.NewAnalytics(repo, analytics.New(analytics.WithValidationPolicy(model.ValidationPolicySkip)), nil)
		payload, err := uc.ComputeAnalytics(ctx, filter)
		gt.NoError(t, err).Required()
		gt.Equal(t, payload.KPIs.TotalDefects, 2)
		gt.Equal(t, payload.DataQuality.RejectedRecords, 1)
	})

	t.Run("listing leaves it out", func(t *testing.T) {
		uc := usecase.NewAnalytics(repo, nil, nil)
		records, err := uc.ListDefects(ctx, filter)
		gt.NoError(t, err)
		gt.Equal(t, len(records), 2)
	})
}

func TestAnalytics_ListDefectsRepositoryError(t *testing.T) {
	repo := &mocks.RepositoryMock{
		ListDefectsFunc: func(ctx context.Context) ([]*model.DefectRecord, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := usecase.NewAnalytics(repo, nil, nil)

	_, err := uc.ComputeAnalytics(context.Background(), nil)
	gt.Error(t, err)
	gt.Equal(t, len(repo.ListDefectsCalls()), 1)
}

func TestAnalytics_Classify(t *testing.T) {
	classification := &model.Classification{
		Quality: model.QualityBands{Good: 40, Fair: 20},
		Release: model.ReleaseBands{AtRiskOpenPct: 60},
	}
	uc := usecase.NewAnalytics(seededRepository(t), nil, classification)

	payload, err := uc.ComputeAnalytics(context.Background(), nil)
	gt.NoError(t, err).Required()
	labels := uc.Classify(payload)

	gt.Equal(t, labels.Quality.Label, model.QualityGood)
	gt.Equal(t, labels.Releases, []model.ReleaseLabel{
		{Release: types.ReleaseTag("v1"), OpenPct: 50, Label: model.ReleaseHealthy},
		{Release: types.ReleaseTag("v2"), OpenPct: 100, Label: model.ReleaseAtRisk},
	})
}
