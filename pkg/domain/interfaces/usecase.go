package interfaces

import (
	"context"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
)

// Analytics serves the dashboard read operations
type Analytics interface {
	// ListDefects returns stored records passing the filter
	ListDefects(ctx context.Context, filter *model.DefectFilter) ([]*model.DefectRecord, error)
	// ComputeAnalytics builds the payload over records passing the filter
	ComputeAnalytics(ctx context.Context, filter *model.DefectFilter) (*model.AnalyticsPayload, error)
	// Classify labels a payload with the configured bands
	Classify(payload *model.AnalyticsPayload) *model.Labels
}

// Digest publishes KPI summaries to chat
type Digest interface {
	Publish(ctx context.Context, channelID string, filter *model.DefectFilter) error
}
