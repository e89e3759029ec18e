package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/utils/apperr"
	"github.com/secmon-lab/defectlens/pkg/utils/async"
)

// serviceName is reported by the health endpoints
const serviceName = "defectlens"

type listDefectsResponse struct {
	Defects []*model.DefectRecord `json:"defects"`
	Total   int                   `json:"total"`
}

type digestRequest struct {
	Channel string `json:"channel"`
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleListDefects(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := s.analyticsUC.ListDefects(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*model.DefectRecord{}
	}

	writeJSON(w, r, http.StatusOK, listDefectsResponse{
		Defects: records,
		Total:   len(records),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	payload, err := s.computeAnalytics(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, payload)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	payload, err := s.computeAnalytics(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.analyticsUC.Classify(payload))
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req digestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, goerr.Wrap(err, "invalid digest request body", goerr.T(model.ErrTagValidation)))
		return
	}
	channel := req.Channel
	if channel == "" {
		channel = s.digestChannel
	}
	if channel == "" {
		writeError(w, r, goerr.New("slack channel is required", goerr.T(model.ErrTagValidation)))
		return
	}

	digestUC := s.digestUC
	async.Dispatch(r.Context(), func(ctx context.Context) error {
		return digestUC.Publish(ctx, channel, filter)
	})

	writeJSON(w, r, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"channel": channel,
	})
}

func (s *Server) computeAnalytics(r *http.Request) (*model.AnalyticsPayload, error) {
	filter, err := filterFromRequest(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.computeTimeout)
	defer cancel()

	return s.analyticsUC.ComputeAnalytics(ctx, filter)
}

func filterFromRequest(r *http.Request) (*model.DefectFilter, error) {
	q := r.URL.Query()
	return model.NewDefectFilter(q.Get("severity"), q.Get("status"), q.Get("component"), q.Get("release"))
}

// statusOf maps an error to its HTTP status
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, model.ErrInvalidRecord):
		return http.StatusUnprocessableEntity
	case goerr.HasTag(err, model.ErrTagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.ErrTagNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
	} else {
		ctxlog.From(r.Context()).Info("Request rejected", "status", status, "error", err)
	}

	writeJSON(w, r, status, map[string]string{
		"error": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}
