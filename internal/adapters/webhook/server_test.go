package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/mikey/llm-scam-check/internal/adapters/console"
	"github.com/mikey/llm-scam-check/internal/core"
	"github.com/mikey/llm-scam-check/internal/storage"
	"github.com/mikey/llm-scam-check/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	assessCalls   int
	converseCalls int
	lastTurns     []core.Turn
	converseReply string
	err           error
}

func (f *fakeLLM) Assess(_ context.Context, turns []core.Turn) (*core.Assessment, error) {
	f.assessCalls++
	f.lastTurns = turns
	if f.err != nil {
		return nil, f.err
	}
	return &core.Assessment{
		Verdict:    core.VerdictLikelyScam,
		RiskScore:  90,
		Confidence: 0.95,
		Summary:    "Phishing attempt.",
		RedFlags:   []string{"spoofed sender"},
	}, nil
}

func (f *fakeLLM) Converse(_ context.Context, _ []core.Turn) (string, error) {
	f.converseCalls++
	return f.converseReply, nil
}

func newTestServer(t *testing.T, llm *fakeLLM, prescreen *core.PrescreenService) (*Server, string) {
	t.Helper()
	logger := zap.NewNop()
	dir := t.TempDir()

	anonymizer := utils.NewAnonymizer(logger)
	return NewServer(
		core.NewAssessmentService(llm, logger),
		prescreen,
		console.NewPresenter(&bytes.Buffer{}),
		storage.NewFileStore(dir, logger),
		utils.NewTextProcessor(logger, anonymizer),
		anonymizer,
		0,
		logger,
		":0",
	), dir
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, srv *Server, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/inbound", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestInboundBlankBodyIsAcknowledgedAndSkipped(t *testing.T) {
	llm := &fakeLLM{}
	srv, dir := newTestServer(t, llm, nil)

	rr := postForm(t, srv, url.Values{
		"From":     {"scammer@example.com"},
		"Subject":  {"urgent"},
		"TextBody": {"   \n\t "},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, llm.assessCalls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no record for a skipped email")
}

func TestInboundFormPayloadIsAssessedAndSaved(t *testing.T) {
	llm := &fakeLLM{}
	srv, dir := newTestServer(t, llm, nil)

	rr := postForm(t, srv, url.Values{
		"From":     {"scammer@example.com"},
		"Subject":  {"You won"},
		"TextBody": {"Send a fee to claim your prize"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, llm.assessCalls)

	// The composed prompt carries sender and subject; the raw address is
	// redacted on its way in.
	last := llm.lastTurns[len(llm.lastTurns)-1].Content
	assert.Contains(t, last, "From: <EMAIL_ADDRESS>")
	assert.NotContains(t, last, "scammer@example.com")
	assert.Contains(t, last, "Subject: You won")
	assert.Contains(t, last, "Send a fee to claim your prize")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "email-"))
}

func TestInboundJSONPayload(t *testing.T) {
	llm := &fakeLLM{}
	srv, _ := newTestServer(t, llm, nil)

	rr := postJSON(t, srv, "/inbound", `{"From": "", "Subject": "", "TextBody": "wire me money now"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, llm.assessCalls)

	// Missing sender and subject get placeholders.
	last := llm.lastTurns[len(llm.lastTurns)-1].Content
	assert.Contains(t, last, "From: Unknown sender")
	assert.Contains(t, last, "Subject: No subject")
}

func TestInboundAcknowledgesDespiteAssessmentFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider down")}
	srv, dir := newTestServer(t, llm, nil)

	rr := postForm(t, srv, url.Values{"TextBody": {"some scam text"}})

	assert.Equal(t, http.StatusOK, rr.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInboundPrescreenGate(t *testing.T) {
	llm := &fakeLLM{converseReply: "no"}
	prescreen := core.NewPrescreenService(llm, nil, 0, zap.NewNop())
	srv, dir := newTestServer(t, llm, prescreen)

	rr := postForm(t, srv, url.Values{"TextBody": {"weather is nice today"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, llm.converseCalls)
	assert.Equal(t, 0, llm.assessCalls, "gated email must not reach the assessment call")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInboundHistoryStaysOnTheWebhookChannel(t *testing.T) {
	llm := &fakeLLM{}
	srv, _ := newTestServer(t, llm, nil)

	postForm(t, srv, url.Values{"TextBody": {"first email"}})
	postForm(t, srv, url.Values{"TextBody": {"second email"}})

	// Second request sees the first exchange: system turn plus three history turns.
	assert.Equal(t, 2, llm.assessCalls)
	assert.Len(t, llm.lastTurns, 4)
	assert.Equal(t, 4, srv.history.Len(), "webhook history holds both exchanges")
}

func TestInboundBodyIsScrubbedBeforeAssessment(t *testing.T) {
	llm := &fakeLLM{}
	srv, _ := newTestServer(t, llm, nil)

	postForm(t, srv, url.Values{
		"TextBody": {"Call (555) 123-4567 and pay with card 4111 1111 1111 1111"},
	})

	require.Equal(t, 1, llm.assessCalls)
	last := llm.lastTurns[len(llm.lastTurns)-1].Content
	assert.Contains(t, last, "<PHONE_NUMBER>")
	assert.Contains(t, last, "<CREDIT_CARD>")
	assert.NotContains(t, last, "4111")
}

func TestAnonymizeEndpointRedactsText(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLLM{}, nil)

	rr := postJSON(t, srv, "/anonymize",
		`{"text": "Email bob@example.com, SSN 078-05-1120, server at 10.0.0.1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status string `json:"status"`
		Output struct {
			AnonymizedText string `json:"anonymized_text"`
		} `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Email <EMAIL_ADDRESS>, SSN <US_SSN>, server at <IP_ADDRESS>", resp.Output.AnonymizedText)
}

func TestAnonymizeEndpointRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLLM{}, nil)

	cases := []struct {
		name string
		body string
	}{
		{"not json", "plain text"},
		{"no text", `{}`},
		{"image url only", `{"url": "https://example.com/screenshot.png"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postJSON(t, srv, "/anonymize", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "error")
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLLM{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}
