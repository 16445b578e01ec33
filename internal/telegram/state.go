package telegram

import (
	"sync"

	"mlebedev/ledgerbot/internal/models"
)

// pendingTransaction is a parsed record waiting for a category choice or a
// confirmation.
type pendingTransaction struct {
	record models.TransactionRecord
	source string
}

// conversationState tracks one pending transaction per user. A new message
// from the same user replaces whatever was pending.
type conversationState struct {
	mu      sync.Mutex
	pending map[int64]pendingTransaction
}

func newConversationState() *conversationState {
	return &conversationState{pending: make(map[int64]pendingTransaction)}
}

func (s *conversationState) set(userID int64, p pendingTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = p
}

func (s *conversationState) get(userID int64) (pendingTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[userID]
	return p, ok
}

func (s *conversationState) setCategory(userID int64, category string) (pendingTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[userID]
	if !ok {
		return pendingTransaction{}, false
	}
	p.record.Category = category
	s.pending[userID] = p
	return p, true
}

func (s *conversationState) clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}
