package analytics

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/utils/async"
)

// Engine computes analytics payloads. It holds configuration only, so one
// Engine can serve concurrent requests.
type Engine struct {
	policy          model.ValidationPolicy
	recurrenceLimit int
}

// Option configures an Engine
type Option func(*Engine)

// WithValidationPolicy sets how invalid records are handled
func WithValidationPolicy(policy model.ValidationPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithRecurrenceLimit sets how many title groups the recurrence ranking
// keeps. Values above MaxRecurrenceLimit are capped.
func WithRecurrenceLimit(limit int) Option {
	return func(e *Engine) {
		e.recurrenceLimit = min(limit, MaxRecurrenceLimit)
	}
}

// New creates an Engine. The default policy fails the batch on the first
// invalid record.
func New(opts ...Option) *Engine {
	e := &Engine{
		policy:          model.ValidationPolicyFail,
		recurrenceLimit: DefaultRecurrenceLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured validation policy
func (e *Engine) Policy() model.ValidationPolicy {
	return e.policy
}

// Compute builds the analytics payload over one record set with the
// default engine
func Compute(ctx context.Context, records []*model.DefectRecord) (*model.AnalyticsPayload, error) {
	return New().Compute(ctx, records)
}

// Compute normalizes the records once and runs the aggregators concurrently
// over the normalized set. Each aggregator writes only its own result;
// the results are merged after every aggregator has finished.
func (e *Engine) Compute(ctx context.Context, records []*model.DefectRecord) (*model.AnalyticsPayload, error) {
	if err := e.policy.Validate(); err != nil {
		return nil, err
	}

	normalized, rejected := Normalize(records)
	if len(rejected) > 0 {
		if e.policy == model.ValidationPolicyFail {
			return nil, goerr.Wrap(rejected[0], "defect record rejected",
				goerr.V("rejected", len(rejected)),
				goerr.V("total", len(records)),
				goerr.T(model.ErrTagValidation))
		}

		logger := ctxlog.From(ctx)
		for _, r := range rejected {
			logger.Warn("Skipping invalid defect record",
				"index", r.Index,
				"id", r.ID,
				"fields", r.Fields,
			)
		}
	}

	var (
		kpis       model.KPISummary
		quality    model.DataQuality
		recurrence []model.RecurrenceItem
		trends     []model.SeverityTrend
		heatmap    []model.ComponentRow
		releases   []model.ReleaseRow
	)

	err := async.Join(ctx,
		func(ctx context.Context) error {
			kpis = SummarizeKPIs(normalized)
			return nil
		},
		func(ctx context.Context) error {
			quality = ScoreDataQuality(normalized)
			return nil
		},
		func(ctx context.Context) error {
			recurrence = RankRecurrence(normalized, e.recurrenceLimit)
			return nil
		},
		func(ctx context.Context) error {
			trends = BinSeverityTrends(normalized)
			return nil
		},
		func(ctx context.Context) error {
			heatmap = BuildComponentHeatmap(normalized)
			return nil
		},
		func(ctx context.Context) error {
			releases = BuildReleaseCalendar(normalized)
			return nil
		},
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, goerr.Wrap(err, "analytics computation interrupted", goerr.T(model.ErrTagTimeout))
		}
		return nil, goerr.Wrap(err, "failed to compute analytics")
	}

	quality.RejectedRecords = len(rejected)

	return &model.AnalyticsPayload{
		KPIs:                     kpis,
		DataQuality:              quality,
		RecurrenceAnalysis:       recurrence,
		SeverityTrends:           trends,
		ComponentSeverityHeatmap: heatmap,
		ReleaseCalendar:          releases,
	}, nil
}
