package chat

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/taxdesk/server/internal/chat"
	"codeberg.org/taxdesk/server/internal/errors"
)

// creates a handler that answers a message within a session, creating
// the session when the request carries no usable session ID
func SendMessageHandler(manager *chat.Manager, answerer chat.Answerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, err := manager.GetOrCreateSession(req.SessionID)
		if err != nil {
			errors.InternalError(c, "failed to create session", err)
			return
		}

		answer, err := session.Send(c.Request.Context(), answerer, req.Message)
		if err != nil {
			if stderrors.Is(err, chat.ErrEmptyMessage) {
				errors.BadRequest(c, "message is empty", nil)
				return
			}

			errors.InternalError(c, "failed to answer message", err)
			return
		}

		c.JSON(http.StatusOK, SendMessageResponse{
			SessionID:    session.ID,
			Answer:       answer.Text,
			UsedChunks:   answer.UsedChunks,
			ContextChars: answer.ContextChars,
			Sources:      answer.Sources,
		})
	}
}

// creates a handler that clears a session's conversation history
func ResetChatHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, err := manager.GetSession(req.SessionID)
		if err != nil {
			errors.SessionNotFound(c)
			return
		}

		session.Reset()

		c.JSON(http.StatusOK, gin.H{
			"message":    "chat history cleared",
			"session_id": session.ID,
		})
	}
}

// creates a handler that removes a session entirely
func DeleteSessionHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			errors.BadRequest(c, "session_id is required", nil)
			return
		}

		if _, err := manager.GetSession(sessionID); err != nil {
			errors.SessionNotFound(c)
			return
		}

		manager.DeleteSession(sessionID)

		c.JSON(http.StatusOK, gin.H{
			"message":    "session deleted",
			"session_id": sessionID,
		})
	}
}

// creates a handler that returns a session's conversation history
func HistoryHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			errors.BadRequest(c, "session_id is required", nil)
			return
		}

		session, err := manager.GetSession(sessionID)
		if err != nil {
			errors.SessionNotFound(c)
			return
		}

		c.JSON(http.StatusOK, HistoryResponse{
			SessionID: session.ID,
			Messages:  session.History(),
		})
	}
}

// creates a handler that returns a session's conversation stats
func StatsHandler(manager *chat.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			errors.BadRequest(c, "session_id is required", nil)
			return
		}

		session, err := manager.GetSession(sessionID)
		if err != nil {
			errors.SessionNotFound(c)
			return
		}

		c.JSON(http.StatusOK, StatsResponse{
			Session:        session.Stats(),
			ActiveSessions: manager.SessionCount(),
		})
	}
}
