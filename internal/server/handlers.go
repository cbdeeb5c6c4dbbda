package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/trapline/internal/engine"
	"github.com/mbd888/trapline/internal/logging"
	"github.com/mbd888/trapline/internal/pagination"
	"github.com/mbd888/trapline/internal/session"
	"github.com/mbd888/trapline/internal/validation"
)

// MessageRequest is the inbound turn payload from the SDK.
type MessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   struct {
		Sender    string    `json:"sender"`
		Text      string    `json:"text"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"message"`
	ConversationHistory []struct {
		Sender    string    `json:"sender"`
		Text      string    `json:"text"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"conversationHistory"`
	Metadata map[string]interface{} `json:"metadata"`
}

// handleMessage processes one scammer turn and returns the agent's reply.
func (s *Server) handleMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if verrs := validation.Validate(
		validation.Required("sessionId", req.SessionID),
		validation.ValidSessionID("sessionId", req.SessionID),
		validation.Required("message.text", req.Message.Text),
		validation.ValidSender("message.sender", req.Message.Sender),
	); len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": verrs.Error(),
			"details": verrs,
		})
		return
	}

	text := validation.SanitizeMessage(req.Message.Text)

	history := make([]engine.HistoryMessage, 0, len(req.ConversationHistory))
	for _, h := range req.ConversationHistory {
		history = append(history, engine.HistoryMessage{
			Sender:    h.Sender,
			Text:      validation.SanitizeMessage(h.Text),
			Timestamp: h.Timestamp,
		})
	}

	result, err := s.engine.ProcessTurn(ctx, req.SessionID, text, req.Message.Timestamp, history)
	if err != nil {
		logging.L(ctx).Error("turn processing failed",
			"sessionId", req.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to process message",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"reply":  result.Reply,
	})
}

// handleListSessions returns a page of sessions, newest first.
func (s *Server) handleListSessions(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be between 1 and 100",
			})
			return
		}
		limit = n
	}

	cursor, err := pagination.Decode(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_cursor",
			"message": "cursor is malformed",
		})
		return
	}

	// Fetch one extra row to detect whether another page exists.
	items, err := s.store.List(ctx, limit+1, cursor)
	if err != nil {
		logging.L(ctx).Error("session list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list sessions",
		})
		return
	}

	page, next, more := pagination.ComputePage(items, limit, func(sess *session.Session) (time.Time, string) {
		return sess.CreatedAt, sess.ID
	})

	summaries := make([]gin.H, 0, len(page))
	for _, sess := range page {
		summaries = append(summaries, gin.H{
			"sessionId":     sess.ID,
			"scamDetected":  sess.Profile.ScamDetected,
			"scamType":      sess.Profile.ScamType,
			"riskScore":     sess.Profile.CumulativeScore,
			"stage":         sess.Engagement.Stage.String(),
			"totalMessages": len(sess.History),
			"finalized":     sess.Finalized,
			"createdAt":     sess.CreatedAt,
			"updatedAt":     sess.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":   summaries,
		"nextCursor": next,
		"hasMore":    more,
	})
}

// handleGetSession returns the live state of a session.
func (s *Server) handleGetSession(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	sess, err := s.engine.Session(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "session_not_found",
				"message": "No session with that id",
			})
			return
		}
		logging.L(ctx).Error("session lookup failed", "sessionId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":     sess.ID,
		"scamDetected":  sess.Profile.ScamDetected,
		"scamType":      sess.Profile.ScamType,
		"riskScore":     sess.Profile.CumulativeScore,
		"stage":         sess.Engagement.Stage.String(),
		"totalMessages": len(sess.History),
		"intelCounts":   sess.Intel.Counts(),
		"quality": gin.H{
			"turns":               sess.Quality.TurnCount,
			"questionsAsked":      sess.Quality.QuestionsAsked,
			"investigative":       sess.Quality.InvestigativeQuestions,
			"redFlags":            sess.Quality.RedFlagList(),
			"elicitationAttempts": sess.Quality.ElicitationAttempts,
		},
		"finalized": sess.Finalized,
		"createdAt": sess.CreatedAt,
		"updatedAt": sess.UpdatedAt,
	})
}

// handleGetReport returns the current report view without finalizing.
func (s *Server) handleGetReport(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	report, err := s.engine.Report(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "session_not_found",
				"message": "No session with that id",
			})
			return
		}
		logging.L(ctx).Error("report build failed", "sessionId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to build report",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
