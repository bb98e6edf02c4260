package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/qgen/internal/form"
	"github.com/abhisek/qgen/internal/orchestrator"
	"github.com/abhisek/qgen/internal/questiongen"
)

// browser replays the session cookie like a real browser would.
type browser struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (b *browser) do(method, path string, values url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if values != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) status() statusResponse {
	b.t.Helper()
	rec := b.do(http.MethodGet, "/status", nil)
	require.Equal(b.t, http.StatusOK, rec.Code)
	var s statusResponse
	require.NoError(b.t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func (b *browser) waitFor(state string) {
	b.t.Helper()
	require.Eventually(b.t, func() bool { return b.status().State == state }, 2*time.Second, 5*time.Millisecond)
}

type recordingCapability struct {
	mu    sync.Mutex
	calls []questiongen.Request
	fn    func(ctx context.Context, req questiongen.Request) (questiongen.QuestionSet, error)
}

func (c *recordingCapability) Generate(ctx context.Context, req questiongen.Request) (questiongen.QuestionSet, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.mu.Unlock()
	return c.fn(ctx, req)
}

func (c *recordingCapability) requests() []questiongen.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]questiongen.Request(nil), c.calls...)
}

func sampleSet() *questiongen.MCQList {
	return &questiongen.MCQList{Questions: []questiongen.MultipleChoiceQuestion{
		{Question: "Is 3 < 5?", Answer: "Yes", Explanation: "Three is less than five.", Options: []string{"Yes", "No"}},
	}}
}

func newBrowser(t *testing.T, capability questiongen.Capability) *browser {
	t.Helper()
	srv := NewServer(orchestrator.NewSessionStore(orchestrator.New(capability)), Options{})
	return &browser{t: t, h: srv.Routes()}
}

func submit(text, count string) url.Values {
	return url.Values{form.FieldSourceText: {text}, form.FieldQuestionCount: {count}}
}

func TestIndex_FreshSession(t *testing.T) {
	b := newBrowser(t, &recordingCapability{})

	rec := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, b.cookie, "a session cookie should be issued")
	assert.True(t, b.cookie.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Educational Question Generator from content")
	assert.Contains(t, body, `name="question_count" type="number"`)
	assert.Contains(t, body, `min="1" max="20" step="1" value="5"`)
	assert.Contains(t, body, "Show/Edit Instructions")
	assert.Contains(t, body, "Focus on Key Concepts:")
	assert.Contains(t, body, "<strong>Paste your text</strong>")
	assert.NotContains(t, body, "http-equiv=\"refresh\"")
	assert.NotContains(t, body, "Error generating questions")
	assert.NotContains(t, body, "View Generated Questions")

	cookie := b.cookie
	b.do(http.MethodGet, "/", nil)
	assert.Equal(t, cookie.Value, b.cookie.Value, "the session should be reused")
}

func TestGenerate_EmptyTextIsSilent(t *testing.T) {
	capability := &recordingCapability{}
	b := newBrowser(t, capability)

	rec := b.do(http.MethodPost, "/generate", submit("   ", "3"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	assert.Equal(t, "idle", b.status().State)
	assert.Empty(t, capability.requests())

	body := b.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "Error generating questions")
	assert.NotContains(t, body, "View Generated Questions")
}

func TestGenerate_SuccessThenDownload(t *testing.T) {
	capability := &recordingCapability{fn: func(context.Context, questiongen.Request) (questiongen.QuestionSet, error) {
		return sampleSet(), nil
	}}
	b := newBrowser(t, capability)

	rec := b.do(http.MethodPost, "/generate", submit("Three is less than five.", "3"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	b.waitFor("displayed")

	reqs := capability.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, questiongen.Request{
		Source:       "Three is less than five.",
		SourceType:   questiongen.SourceText,
		Count:        3,
		Instructions: form.DefaultInstructions,
	}, reqs[0])

	body := b.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Questions generated successfully!")
	assert.Contains(t, body, "<details open>")
	assert.Contains(t, body, "Question: Is 3 &lt; 5?")
	assert.Contains(t, body, "Download Questions")
	assert.Contains(t, body, ">Three is less than five.</textarea>", "the form keeps the submitted text")

	dl := b.do(http.MethodGet, "/download", nil)
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "application/json", dl.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="generated_questions.json"`, dl.Header().Get("Content-Disposition"))

	want, err := sampleSet().Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), dl.Body.String())

	s := b.status()
	assert.Equal(t, 1, s.Questions)
	assert.NotEmpty(t, s.TaskID)
}

func TestGenerate_EmptyTextClearsPreviousResult(t *testing.T) {
	capability := &recordingCapability{fn: func(context.Context, questiongen.Request) (questiongen.QuestionSet, error) {
		return sampleSet(), nil
	}}
	b := newBrowser(t, capability)

	b.do(http.MethodPost, "/generate", submit("Three is less than five.", "3"))
	b.waitFor("displayed")
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/download", nil).Code)

	rec := b.do(http.MethodPost, "/generate", submit("", "4"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "idle", b.status().State)
	assert.Len(t, capability.requests(), 1)

	body := b.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "View Generated Questions")
	assert.NotContains(t, body, "Download Questions")
	assert.NotContains(t, body, "Error generating questions")
	assert.NotContains(t, body, "Three is less than five.", "the cleared textarea stays cleared")
	assert.Contains(t, body, `value="4"`)

	assert.Equal(t, http.StatusNotFound, b.do(http.MethodGet, "/download", nil).Code)
}

func TestGenerate_FailureShowsError(t *testing.T) {
	b := newBrowser(t, &recordingCapability{fn: func(context.Context, questiongen.Request) (questiongen.QuestionSet, error) {
		return nil, errors.New("Incorrect API key provided")
	}})

	b.do(http.MethodPost, "/generate", submit("Some text.", "2"))
	b.waitFor("error")

	body := b.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Error generating questions: Incorrect API key provided")
	assert.NotContains(t, body, "Download Questions")

	assert.Equal(t, http.StatusNotFound, b.do(http.MethodGet, "/download", nil).Code)
	assert.Equal(t, "Incorrect API key provided", b.status().Error)
}

func TestGenerate_PageRefreshesWhileGenerating(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	b := newBrowser(t, &recordingCapability{fn: func(ctx context.Context, _ questiongen.Request) (questiongen.QuestionSet, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return sampleSet(), nil
	}})

	b.do(http.MethodPost, "/generate", submit("Slow text.", "1"))

	body := b.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, `<meta http-equiv="refresh" content="2">`)
	assert.Contains(t, body, "Generating questions... This may take a minute.")
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodGet, "/download", nil).Code)
}

func TestGenerate_EditedInstructions(t *testing.T) {
	capability := &recordingCapability{fn: func(context.Context, questiongen.Request) (questiongen.QuestionSet, error) {
		return sampleSet(), nil
	}}
	b := newBrowser(t, capability)

	values := submit("Text.", "50")
	values.Set(form.FieldEditInstructions, "on")
	values.Set(form.FieldInstructions, "Only ask about numbers.")
	b.do(http.MethodPost, "/generate", values)
	b.waitFor("displayed")

	reqs := capability.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Only ask about numbers.", reqs[0].Instructions)
	assert.Equal(t, form.MaxQuestions, reqs[0].Count)

	body := b.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, `type="checkbox" checked`)
	assert.Contains(t, body, `value="20"`)
}

func TestSessionsAreIsolated(t *testing.T) {
	capability := &recordingCapability{fn: func(context.Context, questiongen.Request) (questiongen.QuestionSet, error) {
		return sampleSet(), nil
	}}
	srv := NewServer(orchestrator.NewSessionStore(orchestrator.New(capability)), Options{})
	h := srv.Routes()
	alice := &browser{t: t, h: h}
	bob := &browser{t: t, h: h}

	alice.do(http.MethodPost, "/generate", submit("Alice's notes.", "1"))
	alice.waitFor("displayed")

	assert.Equal(t, "idle", bob.status().State)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/download", nil).Code)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}

func TestHealthz(t *testing.T) {
	b := newBrowser(t, &recordingCapability{})
	rec := b.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	out := string(renderMarkdown([]byte("**bold** <script>alert(1)</script> [x](javascript:alert(1))")))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `href="javascript:`)
}
