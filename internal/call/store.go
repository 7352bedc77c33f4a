package call

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store is the process-wide conversation table, keyed by CallSid. Telephony
// call SIDs are provider-generated and unique per call, so lookups never
// resume a prior call's state: a missing key always means a fresh session.
//
// Entries are removed on explicit End (hangup, voicemail done) and swept on
// an idle TTL so abandoned calls cannot accumulate for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Conversation

	threshold int
	idleTTL   time.Duration

	cron *cron.Cron
}

// NewStore creates a store with the given escalation threshold and idle TTL.
// A non-positive TTL disables sweeping.
func NewStore(threshold int, idleTTL time.Duration) *Store {
	return &Store{
		sessions:  make(map[string]*Conversation),
		threshold: threshold,
		idleTTL:   idleTTL,
	}
}

// GetOrCreate returns the conversation for callSID, creating it on first
// touch with the given caller identifier.
func (s *Store) GetOrCreate(callSID, callerID string) *Conversation {
	s.mu.RLock()
	conv, ok := s.sessions[callSID]
	s.mu.RUnlock()
	if ok {
		return conv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok = s.sessions[callSID]; ok {
		return conv
	}
	conv = NewConversation(callSID, callerID, s.threshold)
	s.sessions[callSID] = conv
	return conv
}

// Get returns the conversation for callSID, or nil if the table has no entry
// (e.g. a transcription callback arriving after eviction).
func (s *Store) Get(callSID string) *Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[callSID]
}

// End removes a finished call's entry.
func (s *Store) End(callSID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, callSID)
}

// Active returns a snapshot of all live conversations.
func (s *Store) Active() []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Conversation, 0, len(s.sessions))
	for _, conv := range s.sessions {
		out = append(out, conv)
	}
	return out
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepIdle evicts conversations idle longer than the TTL and returns how
// many were removed.
func (s *Store) SweepIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for sid, conv := range s.sessions {
		if conv.IdleSince().Before(cutoff) {
			delete(s.sessions, sid)
			evicted++
		}
	}
	return evicted
}

// StartSweeper schedules a periodic SweepIdle until StopSweeper is called.
func (s *Store) StartSweeper() error {
	if s.idleTTL <= 0 {
		return nil
	}
	s.cron = cron.New()
	_, err := s.cron.AddFunc("@every 1m", func() {
		if n := s.SweepIdle(); n > 0 {
			logrus.WithField("evicted", n).Info("Swept idle call sessions")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// StopSweeper stops the eviction schedule.
func (s *Store) StopSweeper() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
