package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/questiongen"
)

// State is what a session's result area shows.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateDisplayed
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateDisplayed:
		return "displayed"
	case StateErrorShown:
		return "error"
	}
	return "unknown"
}

// View is a snapshot of a session.
type View struct {
	State     State
	TaskID    string
	Request   questiongen.Request
	Questions questiongen.QuestionSet
	Err       string
}

// Session holds the view state of one browser session. At most one task is
// in flight; starting another cancels it and its result is never shown.
type Session struct {
	ID string

	orch *Orchestrator

	mu       sync.Mutex
	state    State
	task     *Task
	req      questiongen.Request
	result   Result
	lastSeen time.Time
}

func newSession(id string, orch *Orchestrator) *Session {
	return &Session{ID: id, orch: orch, lastSeen: time.Now()}
}

// Start triggers a generation for req. With an empty source nothing is
// generated and it returns false; the view goes back to Idle, keeping req
// as the submitted form, and any in-flight task is canceled.
func (s *Session) Start(ctx context.Context, req questiongen.Request) (*Task, bool) {
	// The task outlives the HTTP request that triggered it.
	ctx = logging.WithSession(context.WithoutCancel(ctx), s.ID)

	task, ok := s.orch.Submit(ctx, req)
	if !ok {
		s.reset(req)
		return nil, false
	}

	s.mu.Lock()
	if s.task != nil {
		s.task.Cancel()
	}
	s.task = task
	s.req = req
	s.state = StateGenerating
	s.result = Result{}
	s.lastSeen = time.Now()
	s.mu.Unlock()

	go func() {
		<-task.Done()
		s.complete(task)
	}()

	return task, true
}

func (s *Session) reset(req questiongen.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != nil {
		s.task.Cancel()
	}
	s.task = nil
	s.req = req
	s.state = StateIdle
	s.result = Result{}
	s.lastSeen = time.Now()
}

func (s *Session) complete(task *Task) {
	res, _ := task.Result()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != task {
		logging.Logger.WithField("session_id", s.ID).
			WithField("task_id", task.ID).
			Debug("discarding result of superseded task")
		return
	}

	s.result = res
	if res.Succeeded() {
		s.state = StateDisplayed
	} else {
		s.state = StateErrorShown
	}
}

// View returns the current state and marks the session as seen.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = time.Now()
	v := View{State: s.state, Request: s.req}
	if s.task != nil {
		v.TaskID = s.task.ID
	}
	switch s.state {
	case StateDisplayed:
		v.Questions = s.result.Questions
	case StateErrorShown:
		v.Err = s.result.Err
	}
	return v
}

// Cancel stops the in-flight task, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		s.task.Cancel()
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore maps session IDs to Sessions.
type SessionStore struct {
	orch *Orchestrator

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store whose sessions run on orch.
func NewSessionStore(orch *Orchestrator) *SessionStore {
	return &SessionStore{orch: orch, sessions: make(map[string]*Session)}
}

// Get returns the session with id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with id, or a new session under a fresh
// ID when id is empty or unknown. created reports the latter.
func (st *SessionStore) GetOrCreate(id string) (s *Session, created bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok && id != "" {
		return s, false
	}
	s = newSession(uuid.NewString(), st.orch)
	st.sessions[s.ID] = s
	return s, true
}

// Delete removes a session and cancels its task.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		s.Cancel()
	}
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep deletes sessions not viewed for longer than idle and returns how
// many were removed.
func (st *SessionStore) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	st.mu.Lock()
	var stale []*Session
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range stale {
		s.Cancel()
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *SessionStore) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(idle); n > 0 {
				logging.Logger.WithField("removed", n).Debug("swept idle sessions")
			}
		}
	}
}
