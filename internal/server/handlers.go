package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
	"bigocheck/internal/runner"

	"github.com/go-playground/validator/v10"
)

type analyzeRequest struct {
	// present but possibly empty; blank code estimates as O(1)
	Code     *string `json:"code" validate:"required"`
	Language string  `json:"language" validate:"omitempty,language"`
}

type analyzeResponse struct {
	Language    models.Language   `json:"language"`
	Complexity  string            `json:"complexity"`
	Explanation string            `json:"explanation"`
	Symbol      complexity.Symbol `json:"symbol"`
	Loops       []models.LoopSite `json:"loops"`
	MaxDepth    int               `json:"maxDepth"`
	Valid       bool              `json:"valid"`
}

type runRequest struct {
	Code string `json:"code"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Output string `json:"output,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	lang := models.LangPython
	if req.Language != "" {
		// already checked by the validator
		lang, _ = models.ParseLanguage(req.Language)
	}

	est := s.analyzer.Estimate(*req.Code, lang)
	s.logger.Debug("estimated",
		"request_id", RequestID(r.Context()),
		"language", lang,
		"complexity", est.Complexity,
		"fingerprint", est.Fingerprint,
	)
	s.writeJSON(w, r, http.StatusOK, analyzeResponse{
		Language:    est.Language,
		Complexity:  est.Complexity,
		Explanation: est.Explanation,
		Symbol:      est.Symbol,
		Loops:       est.Loops,
		MaxDepth:    est.MaxDepth,
		Valid:       est.Valid,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if !s.runner.Enabled() {
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: runner.ErrDisabled.Error()})
		return
	}

	lang, err := models.ParseLanguage(r.PathValue("lang"))
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid language"})
		return
	}

	var req runRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.runner.Run(r.Context(), lang, req.Code)
	var execErr *runner.ExecError
	switch {
	case errors.As(err, &execErr):
		// a failing program is still a successful request
		s.writeJSON(w, r, http.StatusOK, errorResponse{Error: execErr.Message, Output: execErr.Output})
	case errors.Is(err, models.ErrUnsupportedLanguage):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid language"})
	case err != nil:
		s.logger.Error("run failed", "request_id", RequestID(r.Context()), "error", err)
		s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		s.writeJSON(w, r, http.StatusOK, res)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a size-limited JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return s.validateStruct(v)
}

// validateStruct flattens validator errors into one message.
func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "language":
			_, perr := models.ParseLanguage(fmt.Sprint(e.Value()))
			messages = append(messages, perr.Error())
		default:
			messages = append(messages, fmt.Sprintf("Validation failed on field '%s': rule '%s'", e.Field(), e.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "request_id", RequestID(r.Context()), "error", err)
	}
}
