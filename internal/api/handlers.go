// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/demorec/internal/dispatch"
	"github.com/ManuGH/demorec/internal/domain/capture/controller"
	xglog "github.com/ManuGH/demorec/internal/log"
)

const (
	maxCommandBody   = 64 << 10
	maxCapturesLimit = 500
)

// CommandRequest is the optional body of POST /api/v1/commands/{name}.
type CommandRequest struct {
	Args []string `json:"args"`
}

// CommandResponse reports the outcome of a command.
type CommandResponse struct {
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
	Tone    string `json:"tone,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dispatcher.Snapshot(r.Context())
	if err != nil {
		writeServiceUnavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req CommandRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > maxCommandBody {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	reply, cmdErr := s.dispatcher.Command(r.Context(), name, req.Args)
	resp := CommandResponse{
		Command: dispatch.CanonicalName(name),
		Message: reply.Message,
		Tone:    reply.Tone.String(),
	}
	status := http.StatusOK
	if cmdErr != nil {
		resp.Error = cmdErr.Error()
		status = statusFor(cmdErr)
		logger := xglog.WithContext(r.Context(), s.logger)
		logger.Debug().Err(cmdErr).Str(xglog.FieldCommand, resp.Command).Int("status", status).Msg("command rejected over http")
	}
	writeJSON(w, status, resp)
}

func (s *server) handleCaptures(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeNotFound(w)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxCapturesLimit)
	}
	entries, err := s.journal.RecentCaptures(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"captures": entries})
}

// statusFor maps command errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, controller.ErrConflictingSessionActive):
		return http.StatusConflict
	case errors.Is(err, controller.ErrNoResumeState),
		errors.Is(err, controller.ErrNoStartTarget),
		errors.Is(err, controller.ErrBookmarkUnavailable),
		errors.Is(err, controller.ErrEmptyPlaybackList):
		return http.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrBookmarkUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, dispatch.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
