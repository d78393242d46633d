package core

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

// Manager owns the live sessions. Sessions never share state, so the
// manager lock only guards the map; dispatches into different markets run
// in parallel.
type Manager struct {
	log   *zap.Logger
	repo  port.Repository
	cache port.Cache
	clock port.Clock

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(log *zap.Logger, repo port.Repository, cache port.Cache, clock port.Clock) *Manager {
	return &Manager{
		log:      log,
		repo:     repo,
		cache:    cache,
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

// Open creates a market with a fresh roster and starts its trading period.
func (m *Manager) Open(cfg SessionConfig, rng *rand.Rand) *Session {
	market := &domain.Market{
		ID:            uuid.NewString(),
		Period:        cfg.Period,
		Framing:       cfg.Framing,
		EndowmentType: cfg.EndowmentType,
		MarketTime:    cfg.MarketTime,
	}
	traders := SetupTraders(market, cfg, rng)
	s := NewSession(m.log.With(zap.String("market", market.ID)), m.repo, m.cache, m.clock, market, traders)

	m.mu.Lock()
	m.sessions[market.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(marketID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[marketID]
	return s, ok
}

func (m *Manager) Markets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}
