package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
)

// Handle reports an error that reached the top of a command or request.
// Rejected input is logged as a warning since it is not a service fault.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if goerr.HasTag(err, model.ErrTagValidation) {
		logger.Warn("rejected input", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
