package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"illitworld/internal/catalog"
	"illitworld/internal/storage"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string]*storage.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]*storage.Snapshot)}
}

func (m *memStore) Load(_ context.Context, userID string) (*storage.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	s, ok := m.data[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) Save(_ context.Context, userID string, s *storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[userID] = s
	return nil
}

func (m *memStore) get(userID string) *storage.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[userID]
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var testVideos = []catalog.Video{
	{ID: "mv-a", Title: "A", Duration: 180, Category: catalog.CategoryMusicVideo},
	{ID: "misc-b", Title: "B", Duration: 100, Category: catalog.CategoryMisc},
	{ID: "mv-c", Title: "C", Duration: 200, Category: catalog.CategoryMusicVideo},
}

func newTestSession(store Store) *Session {
	return NewSession(Options{Store: store, Videos: testVideos, Now: fixedNow, Rand: testRand()})
}

func TestSessionGuestDefaults(t *testing.T) {
	sess := newTestSession(nil)

	roster := sess.Roster()
	require.Len(t, roster, 5)
	assert.Equal(t, "yunah", roster[0].ID)
	assert.Equal(t, "#FF6B9D", roster[0].Color)
	assert.Equal(t, "yunah-misc-1", roster[0].SelectedPhotoCard)
	assert.Equal(t, storage.DefaultBackground, sess.SelectedBackground())
	assert.Empty(t, sess.UserID())
}

func TestSessionRewardGuard(t *testing.T) {
	store := newMemStore()
	sess := newTestSession(store)
	sess.SignIn(context.Background(), "u1")

	require.True(t, sess.SelectAndPlay("mv-a", FilterAll))
	assert.Nil(t, sess.OnProgressTick(100, 180), "below threshold")
	assert.Nil(t, sess.OnProgressTick(10, 0), "unknown duration")

	res := sess.OnProgressTick(165, 180)
	require.NotNil(t, res)
	assert.Equal(t, 162, res.SecondsWatched)
	assert.Nil(t, sess.OnProgressTick(170, 180))
	assert.Nil(t, sess.CompleteCurrent(1))

	for _, c := range sess.Roster() {
		assert.Equal(t, 162, c.XP)
	}

	sess.Wait()
	saved := store.get("u1")
	require.NotNil(t, saved)
	assert.Equal(t, 162, saved.Characters[0].XP)
	assert.Equal(t, testNow.UnixMilli(), saved.WatchedVideos["mv-a"])
}

func TestSessionConcurrentTicksRewardOnce(t *testing.T) {
	sess := newTestSession(nil)
	sess.StartSequentialAutoPlay()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		rewards int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sess.OnProgressTick(179, 180) != nil {
				mu.Lock()
				rewards++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, rewards)
	assert.Equal(t, 162, sess.Roster()[0].XP)
}

func TestSessionCompleteWithoutVideoIsNoop(t *testing.T) {
	sess := newTestSession(nil)
	assert.Nil(t, sess.CompleteCurrent(RewardThreshold))
	assert.Zero(t, sess.Roster()[0].XP)
}

func TestSessionLoopSeesNewlyWatched(t *testing.T) {
	sess := newTestSession(nil)

	s := sess.StartSequentialAutoPlay()
	assert.Equal(t, "mv-a", currentID(s))
	assert.Equal(t, []string{"mv-c", "misc-b"}, ids(s.Forward))
	require.NotNil(t, sess.CompleteCurrent(1))

	sess.Next()
	sess.Next()
	s = sess.Next()
	assert.Equal(t, "mv-c", currentID(s), "loop regenerates without the watched video")
	assert.Equal(t, []string{"misc-b"}, ids(s.Forward))
}

func TestSessionSignInMigratesAndResyncs(t *testing.T) {
	store := newMemStore()
	roster := DefaultRoster()
	roster[0].XP = 450
	roster[0].Level = 1
	store.data["u1"] = &storage.Snapshot{
		Characters:    roster,
		LegacyWatched: []string{"mv-a", "misc-b"},
		ShowPhotos:    true,
	}

	sess := newTestSession(store)
	sess.SignIn(context.Background(), "u1")

	c, ok := sess.Character(roster[0].ID)
	require.True(t, ok)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, WatchedVideos{"mv-a": testNow.UnixMilli(), "misc-b": testNow.UnixMilli()}, sess.Watched())
	assert.True(t, sess.ShowPhotos())

	sess.Wait()
	saved := store.get("u1")
	assert.Nil(t, saved.LegacyWatched)
	assert.Len(t, saved.WatchedVideos, 2)
}

func TestSessionLoadFailureFallsBackToDefaults(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("network down")
	sess := newTestSession(store)

	sess.SignIn(context.Background(), "u1")
	assert.Zero(t, sess.Roster()[0].XP)

	store.mu.Lock()
	store.loadErr = nil
	store.mu.Unlock()

	sess.ToggleFavorite("mv-a")
	sess.Wait()
	require.NotNil(t, store.get("u1"))
	assert.True(t, store.get("u1").FavoriteVideos["mv-a"])
}

func TestSessionSaveFailureKeepsLocalState(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("denied")
	sess := newTestSession(store)
	sess.SignIn(context.Background(), "u1")

	sess.AdjustXP(DevXPStep)
	sess.Wait()
	assert.Equal(t, DevXPStep, sess.Roster()[0].XP)
	assert.Equal(t, 1, store.saveCount())
	assert.Nil(t, store.get("u1"))
}

func TestSessionGuestDoesNotPersist(t *testing.T) {
	store := newMemStore()
	sess := newTestSession(store)

	sess.ToggleFavorite("mv-a")
	sess.SetShowPhotos(true)
	sess.Wait()
	assert.Zero(t, store.saveCount())
}

func TestSessionToggleFavorite(t *testing.T) {
	sess := newTestSession(nil)
	assert.True(t, sess.ToggleFavorite("mv-a"))
	assert.Equal(t, FavoriteVideos{"mv-a": true}, sess.Favorites())
	assert.False(t, sess.ToggleFavorite("mv-a"))
	assert.Empty(t, sess.Favorites())
}

func TestSessionSelectPhotoCard(t *testing.T) {
	sess := NewSession(Options{Now: fixedNow})

	err := sess.SelectPhotoCard("yunah", "yunah-srm-1")
	var locked CardLockedError
	require.ErrorAs(t, err, &locked)

	require.NoError(t, sess.SelectPhotoCard("yunah", "yunah-run-2"))
	c, _ := sess.Character("yunah")
	assert.Equal(t, "yunah-run-2", c.SelectedPhotoCard)

	assert.Error(t, sess.SelectPhotoCard("yunah", "minju-run-1"))
	assert.Error(t, sess.SelectPhotoCard("yunah", "yunah-zzz-9"))
	assert.NoError(t, sess.SelectPhotoCard("nobody", "yunah-run-1"), "unknown character is ignored")
}

func TestSessionSignOutResetsPlayer(t *testing.T) {
	store := newMemStore()
	sess := newTestSession(store)
	sess.SignIn(context.Background(), "u1")
	sess.StartShuffledAutoPlay()
	sess.AdjustLevels(2)
	sess.SetBackground("rooftop")

	sess.SignOut()
	s := sess.QueueState()
	assert.Nil(t, s.Current)
	assert.False(t, s.AutoPlay)
	assert.Zero(t, sess.Roster()[0].XP)
	assert.Equal(t, storage.DefaultBackground, sess.SelectedBackground())
	assert.Empty(t, sess.UserID())
}

func TestSessionExitKeepsAutoPlay(t *testing.T) {
	sess := newTestSession(nil)
	sess.StartFilteredAutoPlay(FilterMusicVideo)
	s := sess.Exit()
	assert.Nil(t, s.Current)
	assert.True(t, s.AutoPlay)
}

func TestSaverDropsStaleWrites(t *testing.T) {
	store := newMemStore()
	sv := newSaver(store, zap.NewNop())

	newer := &storage.Snapshot{LastUpdated: 2}
	older := &storage.Snapshot{LastUpdated: 1}
	sv.write("u1", 2, newer)
	sv.write("u1", 1, older)
	sv.write("u2", 1, older)

	assert.Equal(t, int64(2), store.get("u1").LastUpdated)
	assert.Equal(t, int64(1), store.get("u2").LastUpdated)
	assert.Equal(t, 2, store.saveCount())
}

func TestSessionAchievements(t *testing.T) {
	sess := newTestSession(nil)
	sess.SelectAndPlay("mv-a", FilterAll)
	sess.CompleteCurrent(1)
	sess.ToggleFavorite("mv-a")

	earned := map[string]bool{}
	for _, a := range sess.Achievements() {
		earned[a.ID] = a.Earned
	}
	assert.True(t, earned["first_watch"])
	assert.True(t, earned["first_favorite"])
	assert.False(t, earned["mv_complete"])
	assert.False(t, earned["completionist"])
}

func TestSessionRecordWatchAppliesThreshold(t *testing.T) {
	sess := newTestSession(nil)
	require.True(t, sess.SelectAndPlay("misc-b", FilterAll))
	before := sess.QueueState()

	res, ok := sess.RecordWatch("mv-a", 0.05)
	require.True(t, ok)
	assert.Nil(t, res)
	assert.Empty(t, sess.Watched())
	assert.Zero(t, sess.Roster()[0].XP)

	res, ok = sess.RecordWatch("mv-a", 1)
	require.True(t, ok)
	require.NotNil(t, res)
	assert.Equal(t, 180, res.SecondsWatched)
	assert.Contains(t, sess.Watched(), "mv-a")

	_, ok = sess.RecordWatch("nope", 1)
	assert.False(t, ok)

	after := sess.QueueState()
	assert.Equal(t, before, after, "queue untouched")
	assert.Nil(t, sess.CompleteCurrent(0.5), "below threshold")
	assert.Nil(t, sess.OnProgressTick(10, 100))
	assert.NotNil(t, sess.OnProgressTick(95, 100), "current viewing keeps its own reward")
}

func TestRewardLevelUpsAreCharacterIDs(t *testing.T) {
	sess := newTestSession(nil)
	res, ok := sess.RecordWatch("mv-c", 1)
	require.True(t, ok)
	require.NotNil(t, res)
	require.NotEmpty(t, res.LevelUps)
	for _, id := range res.LevelUps {
		c, found := sess.Character(id)
		require.True(t, found, "level-up %q should name a roster id", id)
		assert.Equal(t, 2, c.Level)
	}
}
