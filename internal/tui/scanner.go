package tui

import (
	"context"

	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/queue"
)

// scanner runs at most one discovery session at a time. Every session gets a
// new generation number so addresses from a cancelled session can be told
// apart from current ones.
type scanner struct {
	out *queue.Unbounded[discoveredMsg]

	gen    int
	ctx    context.Context
	cancel context.CancelFunc
}

func newScanner(out *queue.Unbounded[discoveredMsg]) *scanner {
	return &scanner{out: out}
}

// Start cancels the running session, if any, and starts a new one below
// parent. It returns the new generation.
func (s *scanner) Start(parent context.Context, adapter bluetooth.Adapter) int {
	s.Stop()

	s.gen++
	s.ctx, s.cancel = context.WithCancel(parent)
	go s.run(s.ctx, adapter, s.gen)
	return s.gen
}

// Stop cancels the running session.
func (s *scanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Current reports the generation of the running session.
func (s *scanner) Current() int {
	return s.gen
}

// Context is cancelled when the current session ends. Work that only makes
// sense for this session's devices hangs off it.
func (s *scanner) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *scanner) run(ctx context.Context, adapter bluetooth.Adapter, gen int) {
	addrs, err := adapter.Discover(ctx)
	if err != nil {
		logging.Error("Failed to start discovery", zap.String("adapter", adapter.Name()), zap.Error(err))
		return
	}
	logging.Info("Discovery started", zap.String("adapter", adapter.Name()), zap.Int("generation", gen))

	for addr := range addrs {
		if err := s.out.Send(discoveredMsg{gen: gen, addr: addr}); err != nil {
			logging.Warn("Failed to send discovered address", zap.String("addr", addr.String()), zap.Error(err))
			return
		}
	}
	logging.Debug("Discovery ended", zap.Int("generation", gen))
}
