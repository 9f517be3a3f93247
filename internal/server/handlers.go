package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/lingoquiz/internal/quiz"
	"github.com/abhisek/lingoquiz/internal/topic"
	"github.com/abhisek/lingoquiz/internal/topictree"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// topicsResponse wraps the annotated tree with a volatile timestamp.
type topicsResponse struct {
	Topics      []topictree.TopicNode `json:"topics"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var cfg quiz.Config
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&cfg); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	q, err := s.engine.GenerateQuiz(r.Context(), cfg)
	if err != nil {
		var cerr *quiz.ConfigError
		if errors.As(err, &cerr) {
			s.writeError(w, r, http.StatusBadRequest, err.Error(), cerr.Fields)
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.engine.TopicTree(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{Topics: nodes, GeneratedAt: s.now().UTC()})
}

func (s *Server) handleDebugTopics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("reset"); raw != "" {
		reset, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "reset must be a boolean", map[string]string{"reset": raw})
			return
		}
		if reset {
			s.engine.ResetIndex()
		}
	}

	filter := lo.Map(lo.Compact(query["topic"]), func(t string, _ int) topic.ID { return topic.ID(t) })
	report, err := s.engine.DebugTopics(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("request_id", RequestIDFrom(r.Context())).Error("request failed")
	s.writeError(w, r, http.StatusInternalServerError, "internal error", nil)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorResponse{Error: msg, Fields: fields, RequestID: RequestIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
