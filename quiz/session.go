// Package quiz implements the quiz state machine: loading a module's quiz
// from the course snapshot, tracking answers, scoring a submission and
// pushing completion to the progress store as a detached side effect.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"mentai-server/logger"
	"mentai-server/models"
	"mentai-server/snapshot"
	"mentai-server/utils"
)

// State is the quiz session lifecycle. Loading exists only transiently while
// the snapshot is read; NotFound is terminal.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitted
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitted:
		return "submitted"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound reports a quiz whose module is absent from the snapshot,
	// or a session that was never loaded.
	ErrNotFound = errors.New("quiz not found")
	// ErrNotReady rejects answer changes outside the Ready state.
	ErrNotReady = errors.New("quiz is not accepting answers")
	// ErrNotSubmitted rejects a retake before a submission exists.
	ErrNotSubmitted = errors.New("quiz has not been submitted")
	// ErrIncomplete rejects submission while any question is unanswered.
	ErrIncomplete = errors.New("all questions must be answered before submitting")
)

// Session holds one loaded quiz. All mutation goes through Service, which
// serializes access.
type Session struct {
	State             State
	ModuleID          int
	ModuleName        string
	ModuleDescription string
	Topic             string
	Questions         []models.Question
	Answers           map[int]string
	Result            *models.SubmissionResult
}

// ProgressPusher is the progress store collaborator.
type ProgressPusher interface {
	Push(ctx context.Context, record models.ProgressRecord) error
}

// Service is the registry of live quiz sessions, keyed by owner and module.
type Service struct {
	store    snapshot.Store
	progress ProgressPusher
	log      *logger.Logger

	pushTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	// wg tracks detached progress pushes so tests can wait for them.
	wg sync.WaitGroup
}

func NewService(store snapshot.Store, progress ProgressPusher, log *logger.Logger) *Service {
	return &Service{
		store:       store,
		progress:    progress,
		log:         log,
		pushTimeout: 10 * time.Second,
		sessions:    make(map[string]*Session),
	}
}

func sessionKey(owner string, moduleID int) string {
	return owner + ":" + strconv.Itoa(moduleID)
}

// Load reads the snapshot and builds a fresh session for the module. A
// missing snapshot or unresolvable module id yields a NotFound session, not
// an error: absence is a normal, rendered state. Reloading discards any
// previous answers for the module.
func (s *Service) Load(ctx context.Context, owner string, moduleID int) *Session {
	sess := &Session{State: StateLoading, ModuleID: moduleID}

	course, err := s.store.Load(ctx, owner)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			s.log.Error("failed to load course snapshot", "owner", owner, "error", err)
		}
		sess.State = StateNotFound
	} else {
		var mod *models.Module
		for i := range course.Modules {
			if course.Modules[i].ID == moduleID {
				mod = &course.Modules[i]
				break
			}
		}
		if mod == nil {
			sess.State = StateNotFound
		} else {
			sess.State = StateReady
			sess.ModuleName = mod.Name
			sess.ModuleDescription = mod.Description
			sess.Topic = course.Topic
			sess.Questions = mod.QuizSource().Normalize()
			sess.Answers = make(map[int]string)
		}
	}

	s.mu.Lock()
	s.sessions[sessionKey(owner, moduleID)] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the live session for the module, if one was loaded.
func (s *Service) Get(owner string, moduleID int) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey(owner, moduleID)]
	return sess, ok
}

// SelectAnswer upserts the user's selection for a question. The option is
// not validated against the question's listed options; the view only offers
// valid ones.
func (s *Service) SelectAnswer(owner string, moduleID, questionID int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey(owner, moduleID)]
	if !ok || sess.State == StateNotFound {
		return ErrNotFound
	}
	if sess.State != StateReady {
		return ErrNotReady
	}
	sess.Answers[questionID] = option
	return nil
}

// Submit scores the session and transitions it to Submitted. Every question
// must carry an answer. When an identity is present, completion is pushed to
// the progress store as a detached best-effort call whose failure never
// reaches the caller; topicOverride (from the route) takes priority over the
// snapshot topic for the pushed slug.
func (s *Service) Submit(owner string, moduleID int, email, topicOverride string) (*models.SubmissionResult, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionKey(owner, moduleID)]
	if !ok || (sess != nil && sess.State == StateNotFound) {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if sess.State != StateReady {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	for _, q := range sess.Questions {
		if _, answered := sess.Answers[q.ID]; !answered {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: question %d", ErrIncomplete, q.ID)
		}
	}

	result := Score(sess.ModuleName, sess.Questions, sess.Answers)
	sess.Result = result
	sess.State = StateSubmitted

	topic := sess.Topic
	s.mu.Unlock()

	if topicOverride != "" {
		topic = topicOverride
	}
	if email != "" && topic != "" {
		s.pushProgress(models.ProgressRecord{
			Email:       email,
			TopicSlug:   utils.Slugify(topic),
			ModuleID:    moduleID,
			IsCompleted: true,
			QuizScore:   utils.RoundPercent(result.ScorePercentage),
		})
	}

	return result, nil
}

func (s *Service) pushProgress(record models.ProgressRecord) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
		defer cancel()
		if err := s.progress.Push(ctx, record); err != nil {
			s.log.Warn("failed to save progress",
				"email", record.Email, "topic_slug", record.TopicSlug,
				"module_id", record.ModuleID, "error", err)
		}
	}()
}

// WaitForPushes blocks until all detached progress pushes finish. Test hook.
func (s *Service) WaitForPushes() {
	s.wg.Wait()
}

// Retake clears the answers and result and returns the session to Ready.
// The next submission builds an independent result.
func (s *Service) Retake(owner string, moduleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey(owner, moduleID)]
	if !ok || sess.State == StateNotFound {
		return ErrNotFound
	}
	if sess.State != StateSubmitted {
		return ErrNotSubmitted
	}
	sess.Answers = make(map[int]string)
	sess.Result = nil
	sess.State = StateReady
	return nil
}
