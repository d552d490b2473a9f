package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"illitworld/internal/catalog"
	"illitworld/internal/engine"
	"illitworld/internal/player"
)

var testVideos = []catalog.Video{
	{ID: "one", Title: "First Song", Duration: 100, Category: catalog.CategoryMusicVideo},
	{ID: "two", Title: "Second Song", Duration: 100, Category: catalog.CategoryDancePractice},
}

type fakeTransport struct {
	pos    player.Position
	paused bool
	seeked float64
}

func (f *fakeTransport) Position(context.Context) (player.Position, error) { return f.pos, nil }
func (f *fakeTransport) TogglePause() bool { f.paused = !f.paused; return f.paused }
func (f *fakeTransport) Seek(d float64) { f.seeked += d }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m playerModel, msg tea.Msg) playerModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(playerModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm
}

func newTestModel() (playerModel, *engine.Session, *fakeTransport) {
	sess := engine.NewSession(engine.Options{Videos: testVideos})
	tr := &fakeTransport{}
	return newPlayerModel(sess, tr), sess, tr
}

func TestPlaySelectedVideo(t *testing.T) {
	m, sess, _ := newTestModel()
	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	st := sess.QueueState()
	if st.Current == nil || st.Current.ID != "two" {
		t.Fatalf("current=%v, want two", st.Current)
	}
	if !strings.Contains(m.lastLog, "Second Song") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
	if !strings.Contains(m.View(), "Now Playing") {
		t.Fatalf("view missing now playing section")
	}
}

func TestAutoPlayAndNext(t *testing.T) {
	m, sess, _ := newTestModel()
	m = press(t, m, runes("a"))
	if st := sess.QueueState(); !st.AutoPlay || st.Current == nil || st.Current.ID != "one" {
		t.Fatalf("after autoplay state=%+v", st)
	}
	m = press(t, m, runes("n"))
	if st := sess.QueueState(); st.Current == nil || st.Current.ID != "two" {
		t.Fatalf("after next current=%v, want two", st.Current)
	}
	m = press(t, m, runes("x"))
	if st := sess.QueueState(); st.Current != nil || !st.AutoPlay {
		t.Fatalf("after exit state=%+v", st)
	}
	_ = m
}

func TestFilterCycleAndFavorite(t *testing.T) {
	m, sess, _ := newTestModel()
	m = press(t, m, runes("v"))
	if !sess.Favorites()["one"] {
		t.Fatalf("expected one to be favorited")
	}
	for m.currentFilter() != engine.FilterFavorites {
		m = press(t, m, runes("f"))
	}
	if got := m.videos(); len(got) != 1 || got[0].ID != "one" {
		t.Fatalf("favorites grid=%v", got)
	}
	m = press(t, m, runes("v"))
	if len(m.videos()) != 0 || m.selected != 0 {
		t.Fatalf("expected empty grid after unfavorite, selected=%d", m.selected)
	}
	if !strings.Contains(m.View(), "(empty)") {
		t.Fatalf("view should show empty grid")
	}
}

func TestPauseOnlyWhilePlaying(t *testing.T) {
	m, _, tr := newTestModel()
	m = press(t, m, runes(" "))
	if tr.paused {
		t.Fatalf("paused with nothing playing")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes(" "))
	if !tr.paused || !m.paused {
		t.Fatalf("expected paused")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if tr.seeked != 10 {
		t.Fatalf("seeked=%v, want 10", tr.seeked)
	}
}

func TestRewardMessage(t *testing.T) {
	m, _, _ := newTestModel()
	m = press(t, m, rewardMsg{res: engine.RewardResult{VideoID: "one", SecondsWatched: 90, FirstWatch: true, LevelUps: []string{"moka"}}})
	if !strings.Contains(m.lastLog, "+90 XP") || !strings.Contains(m.lastLog, "Moka") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
}

func TestRefreshSamplesPosition(t *testing.T) {
	m, _, tr := newTestModel()
	tr.pos = player.Position{VideoID: "one", Seconds: 42, Duration: 100}
	m = press(t, m, refreshMsg{})
	if m.pos.Seconds != 42 {
		t.Fatalf("pos=%+v", m.pos)
	}
}

func TestHelpers(t *testing.T) {
	if got := progressBar(5, 10, 4); got != "[██░░]" {
		t.Fatalf("progressBar()=%q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight()=%q", got)
	}
	if got := clock(125); got != "2:05" {
		t.Fatalf("clock()=%q", got)
	}
}
