package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// ErrSessionNotFound is returned when a session ID has no matching session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStatus tracks the lifecycle of one run.
type SessionStatus string

const (
	StatusRunning  SessionStatus = "running"
	StatusFinished SessionStatus = "finished"
	StatusFailed   SessionStatus = "failed"
)

// Session is one bound VM plus the function invocation it is running,
// observable over the broadcaster. A session owns one VM outright rather
// than sharing a debugger service, since each run is independent.
type Session struct {
	ID        string
	CreatedAt time.Time

	VM *vm.VM

	mu     sync.Mutex
	status SessionStatus
	result vm.Slot
	errMsg string
}

func (s *Session) Status() (SessionStatus, vm.Slot, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.result, s.errMsg
}

func (s *Session) finish(result vm.Slot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusFailed
		s.errMsg = err.Error()
		return
	}
	s.status = StatusFinished
	s.result = result
}

// SessionManager owns the set of live sessions, wiring each one's output and
// events through the shared Broadcaster.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster *Broadcaster
}

// NewSessionManager creates a session manager broadcasting through bus.
func NewSessionManager(bus *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: bus,
	}
}

// StartSession binds module, wires output/event broadcasting for a fresh
// session ID, and runs fnName in the background.
func (sm *SessionManager) StartSession(module *il.Module, fnName string, args []vm.Slot) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	machine := vm.NewVM()
	if sm.broadcaster != nil {
		machine.OutputWriter = NewEventWriter(sm.broadcaster, id, "stdout")
		machine.Debug = &EventHooks{SessionID: id, Bus: sm.broadcaster}
	}
	if err := machine.BindModule(module); err != nil {
		return nil, err
	}

	sess := &Session{ID: id, CreatedAt: time.Now(), VM: machine, status: StatusRunning}

	sm.mu.Lock()
	sm.sessions[id] = sess
	sm.mu.Unlock()

	go func() {
		result, runErr := machine.RunFunction(fnName, args)
		sess.finish(result, runErr)
		if sm.broadcaster != nil {
			if runErr != nil {
				sm.broadcaster.BroadcastTrap(id, "unhandled", runErr.Error())
			}
			sm.broadcaster.Broadcast(BroadcastEvent{
				Type:      EventTypeExecution,
				SessionID: id,
				Data:      map[string]interface{}{"event": "finished", "result": result.I64},
			})
		}
	}()

	return sess, nil
}

// Get looks a session up by ID.
func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove deletes a session's bookkeeping entry.
func (sm *SessionManager) Remove(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// Count returns the number of tracked sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
