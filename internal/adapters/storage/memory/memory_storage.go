// Package memory disponibiliza a implementação do storage em memória do processo.
//
// Cada processo mantém o próprio mapa: com vários workers o limite efetivo
// é multiplicado pelo número de processos. Use o storage Redis quando o
// limite precisar ser global.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

type Storage struct {
	mu           sync.Mutex
	windows      map[string]*clientWindow
	cleanupEvery time.Duration
	now          func() time.Time
}

var _ ports.WindowStorage = (*Storage)(nil)

type clientWindow struct {
	stamps []time.Time
	window time.Duration
}

type Option func(*Storage)

// WithCleanupEvery define o intervalo do janitor. Zero desliga a limpeza periódica.
func WithCleanupEvery(d time.Duration) Option {
	return func(s *Storage) { s.cleanupEvery = d }
}

// WithClock substitui o relógio usado pelo Cleanup.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

func New(opts ...Option) *Storage {
	s := &Storage{
		windows:      make(map[string]*clientWindow),
		cleanupEvery: time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Record(_ context.Context, key string, now time.Time, window time.Duration, limit int) (ports.WindowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw, ok := s.windows[key]
	if !ok {
		cw = &clientWindow{}
		s.windows[key] = cw
	}
	cw.window = window
	cw.stamps = purge(cw.stamps, now, window)

	state := ports.WindowState{Count: len(cw.stamps)}
	if len(cw.stamps) < limit {
		cw.stamps = append(cw.stamps, now)
		state.Count++
		state.Recorded = true
	}
	if len(cw.stamps) == 0 {
		delete(s.windows, key)
		return state, nil
	}
	state.Oldest = cw.stamps[0]
	return state, nil
}

// Cleanup remove clientes cuja janela não tem mais nenhum timestamp válido.
func (s *Storage) Cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, cw := range s.windows {
		cw.stamps = purge(cw.stamps, now, cw.window)
		if len(cw.stamps) == 0 {
			delete(s.windows, k)
		}
	}
}

// Len devolve quantos clientes estão sendo rastreados.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// StartJanitor inicia uma goroutine que limpa janelas expiradas periodicamente.
// Pare cancelando o contexto.
func (s *Storage) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// purge descarta timestamps com idade >= window, preservando a ordem.
func purge(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(stamps) && now.Sub(stamps[i]) >= window {
		i++
	}
	if i == 0 {
		return stamps
	}
	kept := make([]time.Time, len(stamps)-i)
	copy(kept, stamps[i:])
	return kept
}
