package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/taxdesk/server/internal/chat"
	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/retriever"
)

type fakeAnswerer struct {
	err error
}

func (f *fakeAnswerer) Answer(ctx context.Context, query string, history []llm.Message) (*retriever.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &retriever.Answer{
		Text:         "answer to: " + query,
		UsedChunks:   2,
		ContextChars: 900,
		Sources:      []string{"pub-501.pdf"},
	}, nil
}

func setupRouter(manager *chat.Manager, answerer chat.Answerer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api"), manager, answerer)

	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestSendMessageCreatesSession(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	recorder := postJSON(t, router, "/api/send_message", SendMessageRequest{Message: "what is a 1040?"})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response SendMessageResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.NotEmpty(t, response.SessionID)
	assert.Equal(t, "answer to: what is a 1040?", response.Answer)
	assert.Equal(t, 2, response.UsedChunks)
	assert.Equal(t, []string{"pub-501.pdf"}, response.Sources)
}

func TestSendMessageReusesSession(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	first := postJSON(t, router, "/api/send_message", SendMessageRequest{Message: "first"})
	require.Equal(t, http.StatusOK, first.Code)

	var firstResponse SendMessageResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResponse))

	second := postJSON(t, router, "/api/send_message", SendMessageRequest{
		SessionID: firstResponse.SessionID,
		Message:   "second",
	})
	require.Equal(t, http.StatusOK, second.Code)

	var secondResponse SendMessageResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResponse))

	assert.Equal(t, firstResponse.SessionID, secondResponse.SessionID)

	session, err := manager.GetSession(firstResponse.SessionID)
	require.NoError(t, err)
	assert.Len(t, session.History(), 4)
}

func TestSendMessageValidation(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	recorder := postJSON(t, router, "/api/send_message", map[string]string{"session_id": "abc"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestResetChat(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	sent := postJSON(t, router, "/api/send_message", SendMessageRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, sent.Code)

	var response SendMessageResponse
	require.NoError(t, json.Unmarshal(sent.Body.Bytes(), &response))

	recorder := postJSON(t, router, "/api/reset_chat", ResetRequest{SessionID: response.SessionID})
	assert.Equal(t, http.StatusOK, recorder.Code)

	session, err := manager.GetSession(response.SessionID)
	require.NoError(t, err)
	assert.Empty(t, session.History())
}

func TestResetChatUnknownSession(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	recorder := postJSON(t, router, "/api/reset_chat", ResetRequest{SessionID: "missing"})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	sent := postJSON(t, router, "/api/send_message", SendMessageRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, sent.Code)

	var sendResponse SendMessageResponse
	require.NoError(t, json.Unmarshal(sent.Body.Bytes(), &sendResponse))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history?session_id="+sendResponse.SessionID, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response HistoryResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.Len(t, response.Messages, 2)
	assert.Equal(t, "user", response.Messages[0].Role)
	assert.Equal(t, "hello", response.Messages[0].Content)
}

func TestStatsEndpoint(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	sent := postJSON(t, router, "/api/send_message", SendMessageRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, sent.Code)

	var sendResponse SendMessageResponse
	require.NoError(t, json.Unmarshal(sent.Body.Bytes(), &sendResponse))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/stats?session_id="+sendResponse.SessionID, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response StatsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.Equal(t, 2, response.Session.TotalMessages)
	assert.Equal(t, 1, response.Session.UserMessages)
	assert.Equal(t, 1, response.Session.AssistantMessages)
	assert.Equal(t, 1, response.Session.ConversationTurns)
	assert.Equal(t, 1, response.ActiveSessions)
}

func TestDeleteSession(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	sent := postJSON(t, router, "/api/send_message", SendMessageRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, sent.Code)

	var sendResponse SendMessageResponse
	require.NoError(t, json.Unmarshal(sent.Body.Bytes(), &sendResponse))

	req := httptest.NewRequest(http.MethodDelete, "/api/chat/session?session_id="+sendResponse.SessionID, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 0, manager.SessionCount())

	_, err := manager.GetSession(sendResponse.SessionID)
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestDeleteSessionUnknown(t *testing.T) {
	manager := chat.NewManager(time.Hour, 10)
	router := setupRouter(manager, &fakeAnswerer{})

	req := httptest.NewRequest(http.MethodDelete, "/api/chat/session?session_id=missing", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
