package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"illitworld/internal/storage"
)

// Store is the persistence a Session needs. Load returns nil, nil for a user
// with no saved data. Every storage.Store satisfies it; the session never
// closes its store, the owner does.
type Store interface {
	Load(ctx context.Context, userID string) (*storage.Snapshot, error)
	Save(ctx context.Context, userID string, s *storage.Snapshot) error
}

// saver writes snapshots in the background. Every change gets its own write;
// a write that lost the race to a newer one for the same user is dropped.
type saver struct {
	store Store
	log   *zap.Logger

	seq atomic.Uint64
	wg  sync.WaitGroup

	mu      sync.Mutex
	written map[string]uint64
}

func newSaver(store Store, log *zap.Logger) *saver {
	return &saver{store: store, log: log, written: make(map[string]uint64)}
}

func (s *saver) save(userID string, snap *storage.Snapshot) {
	seq := s.seq.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.write(userID, seq, snap)
	}()
}

func (s *saver) write(userID string, seq uint64, snap *storage.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.written[userID] {
		s.log.Debug("skip stale save", zap.String("user", userID), zap.Uint64("seq", seq))
		return
	}
	if err := s.store.Save(context.Background(), userID, snap); err != nil {
		s.log.Error("save game data", zap.String("user", userID), zap.Uint64("seq", seq), zap.Error(err))
		return
	}
	s.written[userID] = seq
}

// wait blocks until every pending write has finished.
func (s *saver) wait() {
	s.wg.Wait()
}
