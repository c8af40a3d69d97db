package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/redact"
	"github.com/dshills/riskscore/internal/report"
	"github.com/dshills/riskscore/internal/session"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

// ScoreRequest is the body of POST /v1/score.
type ScoreRequest struct {
	Survey  string     `json:"survey"`
	Policy  string     `json:"policy"`
	Answers answer.Set `json:"answers"`
	Page    int        `json:"page"`
}

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	Survey string `json:"survey"`
	Policy string `json:"policy"`
}

// CreateSessionResponse returns the new session ID.
type CreateSessionResponse struct {
	ID     string `json:"id"`
	Survey string `json:"survey"`
	Policy string `json:"policy"`
	Pages  int    `json:"pages"`
}

// UpdateAnswersRequest is the body of PUT /v1/sessions/:id/answers.
type UpdateAnswersRequest struct {
	Answers answer.Set `json:"answers"`
	Page    int        `json:"page"`
}

// TupleResponse carries the result tuple of a session.
type TupleResponse struct {
	ID         string    `json:"id"`
	Score      []float64 `json:"score"`
	InProgress bool      `json:"in_progress"`
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  s.version,
		Sessions: s.store.Len(),
	})
}

// HandleScore handles POST /v1/score. It scores a complete answer set
// without keeping a session.
func (s *Server) HandleScore(c *gin.Context) {
	logger := s.requestLogger(c, "HandleScore")

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	sv, p, err := s.resolve(req.Survey, req.Policy)
	if err != nil {
		s.fail(c, logger, err)
		return
	}
	sess := session.New(sv, p)
	if err := sess.Update(req.Answers, req.Page); err != nil {
		s.fail(c, logger, err)
		return
	}

	rep := report.Build(sess, s.version, report.Input{})
	if s.redact {
		rep.Sections = redact.Sections(rep.Sections)
	}
	s.metrics.observeScore(rep.Summary.Level)
	logger.Info("Scored answers", "survey", sv.Name, "policy", p.Name, "level", rep.Summary.Level)
	c.JSON(http.StatusOK, rep)
}

// HandleCreateSession handles POST /v1/sessions.
func (s *Server) HandleCreateSession(c *gin.Context) {
	logger := s.requestLogger(c, "HandleCreateSession")

	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
			return
		}
	}

	sv, p, err := s.resolve(req.Survey, req.Policy)
	if err != nil {
		s.fail(c, logger, err)
		return
	}
	sess := s.store.Create(sv, p)
	s.metrics.setSessions(s.store.Len())

	logger.Info("Session created", "session_id", sess.ID, "survey", sv.Name, "policy", p.Name)
	c.JSON(http.StatusCreated, CreateSessionResponse{
		ID:     sess.ID.String(),
		Survey: sv.Name,
		Policy: p.Name,
		Pages:  sv.PageCount(),
	})
}

// HandleUpdateAnswers handles PUT /v1/sessions/:id/answers.
func (s *Server) HandleUpdateAnswers(c *gin.Context) {
	logger := s.requestLogger(c, "HandleUpdateAnswers")

	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, logger, err)
		return
	}

	var req UpdateAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if err := sess.Update(req.Answers, req.Page); err != nil {
		s.fail(c, logger, err)
		return
	}

	resp := tuple(sess)
	if res, ok := sess.Result(); ok {
		s.metrics.observeScore(res.Level)
	}
	logger.Info("Answers updated", "session_id", sess.ID, "answers", len(req.Answers), "page", req.Page)
	c.JSON(http.StatusOK, resp)
}

// HandleGetScore handles GET /v1/sessions/:id/score.
func (s *Server) HandleGetScore(c *gin.Context) {
	logger := s.requestLogger(c, "HandleGetScore")

	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, tuple(sess))
}

// HandleGetSections handles GET /v1/sessions/:id/sections.
func (s *Server) HandleGetSections(c *gin.Context) {
	logger := s.requestLogger(c, "HandleGetSections")

	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, logger, err)
		return
	}
	sec := sess.Sections()
	if s.redact {
		sec = redact.Sections(sec)
	}
	c.JSON(http.StatusOK, sec)
}

// HandleReset handles POST /v1/sessions/:id/reset.
func (s *Server) HandleReset(c *gin.Context) {
	logger := s.requestLogger(c, "HandleReset")

	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, logger, err)
		return
	}
	sess.Reset()
	logger.Info("Session reset", "session_id", sess.ID)
	c.JSON(http.StatusOK, tuple(sess))
}

// HandleDeleteSession handles DELETE /v1/sessions/:id.
func (s *Server) HandleDeleteSession(c *gin.Context) {
	logger := s.requestLogger(c, "HandleDeleteSession")

	if err := s.store.Delete(c.Param("id")); err != nil {
		s.fail(c, logger, err)
		return
	}
	s.metrics.setSessions(s.store.Len())
	logger.Info("Session deleted", "session_id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

func tuple(sess *session.Session) TupleResponse {
	return TupleResponse{
		ID:         sess.ID.String(),
		Score:      sess.CalcScore(),
		InProgress: sess.InProgress(),
	}
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	switch {
	case errors.Is(err, session.ErrNotFound):
		status, code = http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, survey.ErrUnknown):
		status, code = http.StatusBadRequest, "UNKNOWN_SURVEY"
	case errors.Is(err, policy.ErrUnknown):
		status, code = http.StatusBadRequest, "UNKNOWN_POLICY"
	case errors.Is(err, session.ErrInvalidPage):
		status, code = http.StatusBadRequest, "INVALID_PAGE"
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	} else {
		logger.Warn("Request rejected", "error", err, "code", code)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) requestLogger(c *gin.Context, handler string) *slog.Logger {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return s.logger.With("request_id", requestID, "handler", handler)
}
