package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/events"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type authFixture struct {
	svc       *AuthService
	store     *memory.Manager
	signer    *auth.Signer
	publisher *recordingPublisher
	clock     *testClock
}

func newSigner(t *testing.T, clock *testClock) *auth.Signer {
	t.Helper()
	signer, err := auth.NewSigner(auth.SignerConfig{
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}, auth.WithClock(clock.Now))
	require.NoError(t, err)
	return signer
}

// newAuthFixture wires an AuthService over the in-memory store. A non-nil
// wrap decorates the store before the service sees it.
func newAuthFixture(t *testing.T, wrap func(repomanager.RepositoryManager) repomanager.RepositoryManager) *authFixture {
	t.Helper()
	clock := newTestClock()
	store := memory.NewManager()
	signer := newSigner(t, clock)
	pub := &recordingPublisher{}

	var m repomanager.RepositoryManager = store
	if wrap != nil {
		m = wrap(store)
	}

	svc := NewAuthService(m, signer, auth.NewBcryptHasher(bcrypt.MinCost), pub, logging.Nop(), WithNow(clock.Now))
	return &authFixture{svc: svc, store: store, signer: signer, publisher: pub, clock: clock}
}
