package client

import (
	"context"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/squadup/squadnet/protocol"
	Logger "github.com/squadup/squadnet/utils/log"
	"github.com/sirupsen/logrus"
)

const (
	syncMetric     = "squadnet.client.sync"
	mutationMetric = "squadnet.client.mutation"
)

/*

Session is one user's client: the state container, the gateway it syncs
against, and the reconciliation loop keeping the two consistent.

The loop runs while a user is logged in. It starts with an immediate fetch on
login/registration (independent of the trigger, so the view is never blank for
a whole interval), re-fetches on every trigger signal, and stops when the
session ends. Login under a different identity restarts the loop, since the
polling scope (the friends list) depends on who is asking.

Each cycle replaces the three remote-owned collections as one combined swap.
On any fetch failure the previous snapshot is retained untouched. A
generation counter guards in-flight fetches: a response that started under an
older session is discarded instead of clobbering the new one.

*/
type Session struct {
	State *StateContainer

	gateway    Gateway
	newTrigger TriggerFactory
	statsd     statsd.ClientInterface
	log        *logrus.Entry

	mu         sync.Mutex
	generation int64
	cancelSync context.CancelFunc
}

// NewSession wires a session against the given gateway. A nil trigger factory
// defaults to the 5 second timer; a nil statsd client defaults to a no-op.
func NewSession(gateway Gateway, newTrigger TriggerFactory, statsdClient statsd.ClientInterface) *Session {
	if newTrigger == nil {
		newTrigger = func() RefreshTrigger { return NewTimerTrigger(DefaultSyncInterval) }
	}
	if statsdClient == nil {
		statsdClient = &statsd.NoOpClient{}
	}
	return &Session{
		State:      NewStateContainer(),
		gateway:    gateway,
		newTrigger: newTrigger,
		statsd:     statsdClient,
		log:        Logger.Log,
	}
}

// Active reports whether a user is logged in.
func (s *Session) Active() bool {
	return s.State.CurrentUser() != nil
}

// Logout stops the sync loop and drops the snapshot.
func (s *Session) Logout() {
	s.mu.Lock()
	if s.cancelSync != nil {
		s.cancelSync()
		s.cancelSync = nil
	}
	s.generation++
	s.mu.Unlock()

	s.State.Clear()
}

// begin installs the confirmed user and (re)starts the sync loop under a new
// generation. Any previous loop is cancelled first.
func (s *Session) begin(user *protocol.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelSync != nil {
		s.cancelSync()
	}
	s.generation++

	s.State.SetCurrentUser(user)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelSync = cancel
	go s.syncLoop(ctx, s.generation)
}

func (s *Session) syncLoop(ctx context.Context, gen int64) {
	trigger := s.newTrigger()
	defer trigger.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger.C():
			s.refresh(ctx, gen)
		}
	}
}

func (s *Session) currentGeneration() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Refresh pulls one full snapshot right now, outside the trigger cadence.
func (s *Session) Refresh(ctx context.Context) error {
	return s.refresh(ctx, s.currentGeneration())
}

func (s *Session) refresh(ctx context.Context, gen int64) error {
	if s.State.CurrentUser() == nil {
		return ErrNoActiveSession
	}

	var (
		users    []*protocol.User
		posts    []*protocol.Post
		messages []*protocol.Message
		uErr     error
		pErr     error
		mErr     error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		users, uErr = s.gateway.GetUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		posts, pErr = s.gateway.GetPosts(ctx)
	}()
	go func() {
		defer wg.Done()
		messages, mErr = s.gateway.GetMessages(ctx)
	}()
	wg.Wait()

	for _, err := range []error{uErr, pErr, mErr} {
		if err != nil {
			// Previous snapshot is retained whole; no partial overwrite.
			s.log.Error("failed to sync data: ", err)
			s.statsd.Incr(syncMetric, []string{"result:failure"}, 1)
			return err
		}
	}

	// A fetch that started under an older session must not apply.
	if gen != s.currentGeneration() || s.State.CurrentUser() == nil {
		s.statsd.Incr(syncMetric, []string{"result:stale"}, 1)
		return nil
	}

	s.State.ReplaceCollections(users, posts, messages)
	s.statsd.Incr(syncMetric, []string{"result:success"}, 1)
	return nil
}
