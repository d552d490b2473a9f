package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"illitworld/internal/catalog"
	"illitworld/internal/storage"
)

// Every opened backend must be usable as a session store.
var _ Store = storage.Store(nil)

var testNow = time.UnixMilli(1_700_000_000_000)

func fixedNow() time.Time { return testNow }

func newSQLiteSession(t *testing.T, path string) (*Session, func()) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sess := NewSession(Options{Store: storage.NewSnapshotRepo(db), Now: fixedNow})
	cleanup := func() {
		sess.Wait()
		_ = db.Close()
	}
	return sess, cleanup
}

func TestXPBoundaries(t *testing.T) {
	cases := []struct {
		xp, level int
	}{
		{0, 1}, {1, 1}, {199, 1}, {200, 2}, {399, 2}, {400, 3}, {2000, 11}, {-5, 1},
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.level {
			t.Fatalf("LevelForXP(%d)=%d, want %d", c.xp, got, c.level)
		}
	}

	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		lvl := LevelForXP(xp)
		if lvl < prev {
			t.Fatalf("level decreased at xp=%d: %d < %d", xp, lvl, prev)
		}
		if want := xp/200 + 1; lvl != want {
			t.Fatalf("LevelForXP(%d)=%d, want %d", xp, lvl, want)
		}
		prev = lvl
	}
}

func TestRulesOverrideAndDefaults(t *testing.T) {
	r := Rules{XPPerLevel: 100}
	if got := r.LevelForXP(250); got != 3 {
		t.Fatalf("LevelForXP(250) with 100/level = %d, want 3", got)
	}
	if got := r.XPForLevel(3); got != 200 {
		t.Fatalf("XPForLevel(3)=%d, want 200", got)
	}
	if got := r.XPIntoLevel(250); got != 50 {
		t.Fatalf("XPIntoLevel(250)=%d, want 50", got)
	}
	if got := (Rules{}).withDefaults(); got != DefaultRules() {
		t.Fatalf("zero rules = %+v, want defaults", got)
	}
}

func TestApplyRewardScenario(t *testing.T) {
	video := catalog.Video{ID: "v180", Title: "Three Minutes", Duration: 180, Category: catalog.CategoryMusicVideo}
	roster := DefaultRoster()
	roster[0].XP = 50

	next, watched, res := DefaultRules().ApplyReward(roster, WatchedVideos{}, video, 0.9, testNow)

	if res.SecondsWatched != 162 {
		t.Fatalf("SecondsWatched=%d, want 162", res.SecondsWatched)
	}
	if !res.FirstWatch {
		t.Fatalf("expected first watch")
	}
	if len(next) != 5 {
		t.Fatalf("roster size=%d, want 5", len(next))
	}
	if next[0].XP != 212 || next[0].Level != 2 {
		t.Fatalf("first character xp=%d level=%d, want 212/2", next[0].XP, next[0].Level)
	}
	for _, c := range next[1:] {
		if c.XP != 162 || c.Level != 1 {
			t.Fatalf("%s xp=%d level=%d, want 162/1", c.ID, c.XP, c.Level)
		}
	}
	if got := watched["v180"]; got != testNow.UnixMilli() {
		t.Fatalf("watched timestamp=%d, want %d", got, testNow.UnixMilli())
	}
	if roster[0].XP != 50 {
		t.Fatalf("input roster was modified")
	}
	if len(res.LevelUps) != 1 || res.LevelUps[0] != roster[0].ID {
		t.Fatalf("LevelUps=%v, want [%s]", res.LevelUps, roster[0].ID)
	}
}

func TestApplyRewardKeepsFirstTimestamp(t *testing.T) {
	video := catalog.Video{ID: "v", Duration: 100}
	watched := WatchedVideos{"v": 111}

	_, next, res := DefaultRules().ApplyReward(DefaultRoster(), watched, video, 1, testNow)
	if res.FirstWatch {
		t.Fatalf("rewatch reported as first watch")
	}
	if next["v"] != 111 {
		t.Fatalf("timestamp overwritten: %d", next["v"])
	}
	if res.SecondsWatched != 100 {
		t.Fatalf("rewatch should still award xp, got %d", res.SecondsWatched)
	}
}

func TestAdjustXPClampsAtZero(t *testing.T) {
	roster := DefaultRoster()
	roster[0].XP = 30
	next := DefaultRules().AdjustXP(roster, -DevXPStep)
	if next[0].XP != 0 || next[0].Level != 1 {
		t.Fatalf("xp=%d level=%d, want 0/1", next[0].XP, next[0].Level)
	}
	next = DefaultRules().AdjustXP(next, XPPerLevel)
	if next[0].Level != 2 {
		t.Fatalf("level=%d after +1 level, want 2", next[0].Level)
	}
}

func TestSessionPersistsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	sess, cleanup := newSQLiteSession(t, path)
	sess.SignIn(ctx, "user-1")
	if !sess.SelectAndPlay("magnetic-mv", FilterAll) {
		t.Fatalf("SelectAndPlay(magnetic-mv) failed")
	}
	res := sess.OnProgressTick(170, 180)
	if res == nil {
		t.Fatalf("expected reward at 94%%")
	}
	if !sess.ToggleFavorite("magnetic-mv") {
		t.Fatalf("expected favorite to be set")
	}
	cleanup()

	again, cleanup2 := newSQLiteSession(t, path)
	defer cleanup2()
	again.SignIn(ctx, "user-1")

	for _, c := range again.Roster() {
		if c.XP != res.SecondsWatched {
			t.Fatalf("%s xp=%d after reload, want %d", c.ID, c.XP, res.SecondsWatched)
		}
	}
	if _, ok := again.Watched()["magnetic-mv"]; !ok {
		t.Fatalf("watched state not reloaded")
	}
	if !again.Favorites()["magnetic-mv"] {
		t.Fatalf("favorite not reloaded")
	}
}
