package registration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/notify"
)

// memStore is an in-memory Store. WithinMatch holds one mutex for the whole
// callback and restores the previous state when the callback fails.
type memStore struct {
	mu      sync.Mutex
	matches map[uuid.UUID]models.Match
	players map[uuid.UUID]models.Player
	regs    map[uuid.UUID]models.Registration
	history []models.RegistrationHistory
}

func newMemStore() *memStore {
	return &memStore{
		matches: map[uuid.UUID]models.Match{},
		players: map[uuid.UUID]models.Player{},
		regs:    map[uuid.UUID]models.Registration{},
	}
}

func (m *memStore) WithinMatch(_ context.Context, matchID uuid.UUID, fn func(tx Tx, match *models.Match) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matches[matchID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	savedRegs := make(map[uuid.UUID]models.Registration, len(m.regs))
	for k, v := range m.regs {
		savedRegs[k] = v
	}
	savedMatch := match
	savedHistory := len(m.history)

	if err := fn(memTx{m: m}, &match); err != nil {
		m.regs = savedRegs
		m.matches[matchID] = savedMatch
		m.history = m.history[:savedHistory]
		return err
	}
	return nil
}

func (m *memStore) FindMatch(_ context.Context, matchID uuid.UUID) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return &match, nil
}

func (m *memStore) FindPlayer(_ context.Context, playerID uuid.UUID) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx{m: m}.FindPlayer(playerID)
}

func (m *memStore) ListRegistrations(_ context.Context, matchID uuid.UUID) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx{m: m}.ListRegistrations(matchID)
}

func (m *memStore) ListHistory(_ context.Context, matchID uuid.UUID) ([]models.RegistrationHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RegistrationHistory
	for _, h := range m.history {
		if h.MatchID == matchID {
			out = append(out, h)
		}
	}
	return out, nil
}

// status returns the stored status of the pair, NO_RESPONSE when absent.
func (m *memStore) status(matchID, playerID uuid.UUID) models.RegistrationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.MatchID == matchID && r.PlayerID == playerID {
			return r.Status
		}
	}
	return models.RegistrationStatusNoResponse
}

func (m *memStore) countStatus(matchID uuid.UUID, status models.RegistrationStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.regs {
		if r.MatchID == matchID && r.Status == status {
			n++
		}
	}
	return n
}

type memTx struct {
	m *memStore
}

func (t memTx) FindPlayer(playerID uuid.UUID) (*models.Player, error) {
	p, ok := t.m.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return &p, nil
}

func (t memTx) FindRegistration(matchID, playerID uuid.UUID) (*models.Registration, error) {
	for _, r := range t.m.regs {
		if r.MatchID == matchID && r.PlayerID == playerID {
			return &r, nil
		}
	}
	return nil, nil
}

func (t memTx) CountRegistered(matchID, exclude uuid.UUID) (int, error) {
	n := 0
	for _, r := range t.m.regs {
		if r.MatchID == matchID && r.Status == models.RegistrationStatusRegistered && r.PlayerID != exclude {
			n++
		}
	}
	return n, nil
}

func (t memTx) sorted(matchID uuid.UUID) []models.Registration {
	var out []models.Registration
	for _, r := range t.m.regs {
		if r.MatchID == matchID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].QueuedAt.Equal(out[j].QueuedAt) {
			return out[i].QueuedAt.Before(out[j].QueuedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (t memTx) FindOldestReserve(matchID uuid.UUID) (*models.Registration, error) {
	for _, r := range t.sorted(matchID) {
		if r.Status == models.RegistrationStatusReserve {
			return &r, nil
		}
	}
	return nil, nil
}

func (t memTx) ListRegistrations(matchID uuid.UUID) ([]models.Registration, error) {
	out := t.sorted(matchID)
	for i := range out {
		if p, ok := t.m.players[out[i].PlayerID]; ok {
			out[i].Player = &p
		}
	}
	return out, nil
}

func (t memTx) CreateRegistration(reg *models.Registration) error {
	for _, r := range t.m.regs {
		if r.MatchID == reg.MatchID && r.PlayerID == reg.PlayerID {
			return ErrDuplicateRegistration
		}
	}
	return t.SaveRegistration(reg)
}

func (t memTx) SaveRegistration(reg *models.Registration) error {
	stored := *reg
	stored.Player = nil
	t.m.regs[reg.ID] = stored
	return nil
}

func (t memTx) AppendHistory(entry *models.RegistrationHistory) error {
	t.m.history = append(t.m.history, *entry)
	return nil
}

func (t memTx) SaveMatch(match *models.Match) error {
	t.m.matches[match.ID] = *match
	return nil
}

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingNotifier) types() []notify.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// tickingClock advances one second per call so queue order follows call order.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, time.January, 10, 18, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// sequentialIDs hands out 00000000-0000-0000-0000-000000000001, ...002, ...
type sequentialIDs struct {
	mu sync.Mutex
	n  uint64
}

func (s *sequentialIDs) Next() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	var id uuid.UUID
	for i := 0; i < 8; i++ {
		id[15-i] = byte(s.n >> (8 * i))
	}
	return id
}
