package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/internal/session"
)

type fakeChatClient struct {
	reply string
	err   error
}

func (f *fakeChatClient) Reply(context.Context, []models.Message, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newAssistantFixture(t *testing.T, client *fakeChatClient) *AssistantHandler {
	t.Helper()
	sessions := session.NewStore(&memorySnapshot{}, zap.NewNop())
	require.NoError(t, sessions.Login(context.Background(), portalStudent()))
	svc := service.NewAssistantService(client, sessions, zap.NewNop(), nil)
	svc.Greet(*portalStudent())
	return NewAssistantHandler(svc)
}

func postMessage(h *AssistantHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/assistant/messages", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Send(c)
	return rec
}

func TestAssistantHandlerSend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAssistantFixture(t, &fakeChatClient{reply: "نصيحة دراسية"})

	rec := postMessage(h, `{"text":"كيف أنظم وقتي؟"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var transcript []models.Message
	require.NoError(t, json.Unmarshal(envelope.Data, &transcript))
	require.Len(t, transcript, 3)
	assert.Equal(t, "نصيحة دراسية", transcript[2].Text)
}

func TestAssistantHandlerBlankMessageRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAssistantFixture(t, &fakeChatClient{reply: "x"})

	rec := postMessage(h, `{"text":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "EMPTY_PROMPT", envelope.Error["code"])

	assert.Len(t, h.service.Transcript(), 1, "a blank message leaves only the greeting")
}

func TestAssistantHandlerTranscriptAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAssistantFixture(t, &fakeChatClient{reply: "رد"})

	rec := postMessage(h, `{"text":"سؤال"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/assistant/messages", nil)
	h.Transcript(c)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/assistant/messages", nil)
	h.Clear(c)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var transcript []models.Message
	require.NoError(t, json.Unmarshal(envelope.Data, &transcript))
	require.Len(t, transcript, 1)
	assert.Equal(t, models.RoleModel, transcript[0].Role)
}
