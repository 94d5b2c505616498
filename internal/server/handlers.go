package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/chrissnell/clearwatch/pkg/detect"
	"github.com/google/uuid"
)

// detectRequest is the body of POST /api/detect. When predicted is
// omitted, start and interval_seconds must be given so the server can
// generate the clear-sky series from the configured station model.
// Thresholds are five bound pairs in canonical criterion order; window
// and thresholds fall back to the configured defaults when omitted.
type detectRequest struct {
	Measured        []float64    `json:"measured"`
	Predicted       []float64    `json:"predicted,omitempty"`
	Start           *time.Time   `json:"start,omitempty"`
	IntervalSeconds int          `json:"interval_seconds,omitempty"`
	Thresholds      [][2]float64 `json:"thresholds,omitempty"`
	Window          int          `json:"window,omitempty"`
}

type detectResponse struct {
	RequestID     string  `json:"request_id"`
	Clear         []bool  `json:"clear"`
	ClearCount    int     `json:"clear_count"`
	ClearFraction float64 `json:"clear_fraction"`
	RMSE          float64 `json:"rmse"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.Measured) == 0 {
		s.sendError(w, http.StatusBadRequest, "measured series is required", nil)
		return
	}

	predicted := req.Predicted
	if len(predicted) == 0 {
		if req.Start == nil || req.IntervalSeconds <= 0 {
			s.sendError(w, http.StatusBadRequest,
				"either predicted or start and interval_seconds are required", nil)
			return
		}
		interval := time.Duration(req.IntervalSeconds) * time.Second
		predicted = s.model.Series(req.Start.UTC(), interval, len(req.Measured))
	}

	window := req.Window
	if window == 0 {
		window = s.cfg.Detection.WindowLen
	}

	bounds := req.Thresholds
	if len(bounds) == 0 {
		bounds = s.cfg.Detection.Thresholds
	}
	thresholds := make(detect.Thresholds, len(bounds))
	for i, b := range bounds {
		thresholds[i] = detect.Range(b)
	}

	mask, err := detect.ClearPoints(r.Context(), req.Measured, predicted, thresholds, window)
	if err != nil {
		switch {
		case errors.Is(err, detect.ErrLengthMismatch),
			errors.Is(err, detect.ErrWindowLength),
			errors.Is(err, detect.ErrThresholdCount):
			s.sendError(w, http.StatusBadRequest, "invalid detection input", err)
		case errors.Is(err, r.Context().Err()):
			// client went away mid-scan; nothing useful to send
			s.logger.Infow("detection cancelled", "request_id", requestID)
		default:
			s.sendError(w, http.StatusInternalServerError, "detection failed", err)
		}
		return
	}

	clearCount := 0
	for _, c := range mask {
		if c {
			clearCount++
		}
	}

	s.logger.Infow("detection complete",
		"request_id", requestID,
		"samples", len(mask),
		"clear", clearCount,
		"window", window,
	)

	s.sendJSON(w, detectResponse{
		RequestID:     requestID,
		Clear:         mask,
		ClearCount:    clearCount,
		ClearFraction: float64(clearCount) / float64(len(mask)),
		RMSE:          detect.RMSE(req.Measured, predicted),
	})
}
