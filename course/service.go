// Package course implements the course view: generation, the active-module
// pointer, and restoration from a quiz-return route. All course structure
// flows through the snapshot store; nothing here calls the generation service
// on behalf of the quiz view.
package course

import (
	"context"
	"errors"
	"strings"
	"sync"

	"mentai-server/clients"
	"mentai-server/logger"
	"mentai-server/models"
	"mentai-server/snapshot"
	"mentai-server/utils"
)

// ErrBlankTopic rejects generation for an empty or whitespace-only topic.
var ErrBlankTopic = errors.New("topic must not be blank")

// ErrSuperseded marks a generation response that lost the race to a newer
// request for the same owner. The stale course is discarded, never saved.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// User-facing generation failure messages, selected per failure class.
const (
	MsgGatewayTimeout = "The server took too long to generate the course. Please try again in a few minutes."
	MsgTimeout        = "The server timed out. Please try again later."
	MsgGenericRetry   = "Sorry, the server is taking too long to respond. Please try again later."
)

// Generator is the course generation collaborator.
type Generator interface {
	Generate(ctx context.Context, topic string) (*models.Course, error)
}

type ownerState struct {
	activeModule int
	generation   uint64
}

// Service owns per-user course view state on top of the snapshot store.
type Service struct {
	store snapshot.Store
	gen   Generator
	log   *logger.Logger

	mu    sync.Mutex
	state map[string]*ownerState
}

func NewService(store snapshot.Store, gen Generator, log *logger.Logger) *Service {
	return &Service{
		store: store,
		gen:   gen,
		log:   log,
		state: make(map[string]*ownerState),
	}
}

func (s *Service) ownerState(owner string) *ownerState {
	st, ok := s.state[owner]
	if !ok {
		st = &ownerState{}
		s.state[owner] = st
	}
	return st
}

// Generate produces a new course for the topic and replaces the owner's
// snapshot. Any prior snapshot is cleared first, so a failed generation
// leaves no stale course behind. A response superseded by a newer Generate
// call for the same owner is discarded.
func (s *Service) Generate(ctx context.Context, owner, topic string) (*models.Course, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrBlankTopic
	}

	if err := s.store.Clear(ctx, owner); err != nil {
		return nil, err
	}

	s.mu.Lock()
	st := s.ownerState(owner)
	st.generation++
	gen := st.generation
	s.mu.Unlock()

	course, err := s.gen.Generate(ctx, topic)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	stale := s.ownerState(owner).generation != gen
	if !stale {
		s.ownerState(owner).activeModule = 0
	}
	s.mu.Unlock()
	if stale {
		s.log.Warn("discarding stale generation response", "owner", owner, "topic", topic)
		return nil, ErrSuperseded
	}

	if err := s.store.Save(ctx, owner, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Current returns the owner's snapshot and active module index.
func (s *Service) Current(ctx context.Context, owner string) (*models.Course, int, error) {
	course, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	active := s.ownerState(owner).activeModule
	s.mu.Unlock()
	return course, active, nil
}

// RestoreFromRoute applies a quiz-return route carrying a course slug and a
// 1-based module number. The active module moves only when the snapshot's
// derived slug matches the route's and the number is in range; otherwise
// state is left untouched.
func (s *Service) RestoreFromRoute(ctx context.Context, owner, slug string, moduleNumber int) {
	course, err := s.store.Load(ctx, owner)
	if err != nil {
		return
	}
	if utils.Slugify(course.Topic) != slug {
		return
	}
	if moduleNumber < 1 || moduleNumber > len(course.Modules) {
		return
	}
	s.mu.Lock()
	s.ownerState(owner).activeModule = moduleNumber - 1
	s.mu.Unlock()
}

// Clear drops the owner's snapshot and resets the view state.
func (s *Service) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	delete(s.state, owner)
	s.mu.Unlock()
	return s.store.Clear(ctx, owner)
}

// UserMessage maps a generation failure to the message shown in the inline
// error banner. A structured server error is surfaced verbatim; everything
// else falls into the timeout/retry buckets.
func UserMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 504 {
			return MsgGatewayTimeout
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return MsgTimeout
	}
	return MsgGenericRetry
}
