package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"solemate-be/internal/repository/contract"
	"solemate-be/pkg/llm"
	"solemate-be/pkg/store"
)

// Manager is the session memory store. It owns every transcript; other
// components read and append through it and never keep their own copy.
type Manager struct {
	repo   contract.HistoryRepository
	remote RemoteLocker

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// RemoteLocker serializes a session across API instances sharing one history backend
type RemoteLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(repo contract.HistoryRepository) *Manager {
	return &Manager{
		repo:  repo,
		locks: make(map[string]*sessionLock),
	}
}

// WithRemoteLock adds a cross-instance lock taken after the in-process one
func (m *Manager) WithRemoteLock(l RemoteLocker) *Manager {
	m.remote = l
	return m
}

// GetHistory returns the ordered transcript, creating an empty one for an unseen id
func (m *Manager) GetHistory(ctx context.Context, sessionID string) ([]store.Turn, error) {
	return m.repo.Load(ctx, sessionID)
}

// Append adds turns to the end of the transcript
func (m *Manager) Append(ctx context.Context, sessionID string, turns ...store.Turn) error {
	return m.repo.Append(ctx, sessionID, turns...)
}

// Reset clears the transcript. It waits for an in-flight turn of the session.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	unlock, err := m.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()
	return m.repo.Delete(ctx, sessionID)
}

// Lock serializes turns of one session. Different sessions never contend.
// The returned func releases the lock.
func (m *Manager) Lock(ctx context.Context, sessionID string) (func(), error) {
	release := m.lockLocal(sessionID)
	if m.remote == nil {
		return release, nil
	}

	remoteRelease, err := m.remote.Acquire(ctx, sessionID)
	if err != nil {
		release()
		return nil, fmt.Errorf("lock session %s: %w", sessionID, err)
	}
	return func() {
		remoteRelease()
		release()
	}, nil
}

func (m *Manager) lockLocal(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, sessionID)
		}
		m.mu.Unlock()
	}
}

// Transcript is the display view: the greeting followed by every stored turn
func (m *Manager) Transcript(ctx context.Context, sessionID string) ([]store.Turn, error) {
	turns, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]store.Turn, 0, len(turns)+1)
	out = append(out, store.Turn{Role: store.RoleAssistant, Content: store.GreetingMessage, At: time.Time{}})
	return append(out, turns...), nil
}

// ToMessages converts stored turns into model chat history
func ToMessages(turns []store.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		role := "user"
		if turn.Role == store.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	return messages
}
