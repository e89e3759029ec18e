package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/analytics"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
)

// Analytics implements interfaces.Analytics over a record repository
type Analytics struct {
	repo           interfaces.Repository
	engine         *analytics.Engine
	classification *model.Classification
}

var _ interfaces.Analytics = (*Analytics)(nil)

// NewAnalytics creates an Analytics use case. A nil engine or
// classification falls back to the defaults.
func NewAnalytics(repo interfaces.Repository, engine *analytics.Engine, classification *model.Classification) *Analytics {
	if engine == nil {
		engine = analytics.New()
	}
	if classification == nil {
		classification = model.DefaultClassification()
	}
	return &Analytics{
		repo:           repo,
		engine:         engine,
		classification: classification,
	}
}

// ListDefects returns stored records passing the filter
func (u *Analytics) ListDefects(ctx context.Context, filter *model.DefectFilter) ([]*model.DefectRecord, error) {
	records, err := u.repo.ListDefects(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list defects")
	}
	return filter.Apply(records), nil
}

// ComputeAnalytics builds the dashboard payload over records passing the filter
func (u *Analytics) ComputeAnalytics(ctx context.Context, filter *model.DefectFilter) (*model.AnalyticsPayload, error) {
	stored, err := u.repo.ListDefects(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list defects")
	}
	records := filter.Candidates(stored)

	payload, err := u.engine.Compute(ctx, records)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute analytics", goerr.V("filter", filter.String()))
	}

	ctxlog.From(ctx).Debug("Computed analytics",
		"filter", filter.String(),
		"records", len(records),
		"rejected", payload.DataQuality.RejectedRecords,
	)

	return payload, nil
}

// Classify labels a payload with the configured bands
func (u *Analytics) Classify(payload *model.AnalyticsPayload) *model.Labels {
	return u.classification.Classify(payload)
}
