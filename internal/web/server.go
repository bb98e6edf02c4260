// Package web serves the question-generation form over HTTP.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/qgen/internal/form"
	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/orchestrator"
	"github.com/abhisek/qgen/internal/questiongen"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	// SessionCookie carries the browser session ID.
	SessionCookie = "qgen_session"

	// ExportFilename is offered for the downloaded question set.
	ExportFilename = "generated_questions.json"

	maxFormBytes = 2 << 20
)

// Options tune the HTTP surface.
type Options struct {
	// SecureCookie marks the session cookie Secure; set behind TLS.
	SecureCookie bool

	// RefreshInterval is how often the page reloads while generating.
	RefreshInterval time.Duration
}

// Server holds the handlers for the form.
type Server struct {
	sessions *orchestrator.SessionStore
	opts     Options
}

// NewServer creates a Server backed by sessions.
func NewServer(sessions *orchestrator.SessionStore, opts Options) *Server {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 2 * time.Second
	}
	return &Server{sessions: sessions, opts: opts}
}

// Routes returns the router with middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.Index)
	r.Post("/generate", s.Generate)
	r.Get("/download", s.Download)
	r.Get("/status", s.Status)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// session resolves the caller's session, issuing a cookie for new ones.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *orchestrator.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.opts.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

type pageData struct {
	Form           form.Input
	MinQuestions   int
	MaxQuestions   int
	Generating     bool
	RefreshSeconds int
	Questions      questiongen.QuestionSet
	Error          string
	Filename       string
	Help           template.HTML
}

// Index renders the form and the session's current result.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	view := sess.View()

	data := pageData{
		Form:           formFromView(view),
		MinQuestions:   form.MinQuestions,
		MaxQuestions:   form.MaxQuestions,
		Generating:     view.State == orchestrator.StateGenerating,
		RefreshSeconds: max(1, int(s.opts.RefreshInterval.Seconds())),
		Questions:      view.Questions,
		Error:          view.Err,
		Filename:       ExportFilename,
		Help:           helpPanel(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		ctx := logging.WithSession(r.Context(), sess.ID)
		logging.WithContext(ctx).WithError(err).Error("render page")
	}
}

// formFromView refills the form with what the session last submitted.
func formFromView(v orchestrator.View) form.Input {
	if v.Request.Count == 0 {
		return form.Default()
	}
	in := form.Input{
		SourceText:    v.Request.Source,
		QuestionCount: v.Request.Count,
		Instructions:  v.Request.Instructions,
	}
	if in.Instructions == "" {
		in.Instructions = form.DefaultInstructions
	}
	in.EditInstructions = in.Instructions != form.DefaultInstructions
	return in
}

// Generate collects the form and, when there is text, starts a generation.
// Either way the browser is sent back to the page.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	ctx := logging.WithSession(r.Context(), sess.ID)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		logging.WithContext(ctx).WithError(err).Warn("parse form")
		http.Error(w, "form too large or malformed", http.StatusRequestEntityTooLarge)
		return
	}

	in := form.Parse(r.PostForm)
	if in.Ready() {
		sess.Start(ctx, in.Request())
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Download returns the displayed question set as a JSON attachment.
func (s *Server) Download(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	view := sess.View()
	if view.State != orchestrator.StateDisplayed || view.Questions == nil {
		http.NotFound(w, r)
		return
	}

	data, err := view.Questions.Serialize()
	if err != nil {
		ctx := logging.WithSession(r.Context(), sess.ID)
		logging.WithContext(ctx).WithError(err).Error("serialize questions")
		http.Error(w, "failed to export questions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.Write(data)
}

type statusResponse struct {
	State     string `json:"state"`
	Error     string `json:"error,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	Questions int    `json:"questions,omitempty"`
}

// Status reports the session view as JSON.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	view := s.session(w, r).View()

	resp := statusResponse{
		State:  view.State.String(),
		Error:  view.Err,
		TaskID: view.TaskID,
	}
	if view.Questions != nil {
		resp.Questions = view.Questions.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.WithError(err).Warn("encode json response")
	}
}
