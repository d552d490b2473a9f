package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"illitworld/internal/catalog"
	"illitworld/internal/engine"
	"illitworld/internal/player"
	"illitworld/internal/ui"
)

const refreshInterval = 250 * time.Millisecond

// transport is the part of a player the UI controls directly.
type transport interface {
	Position(ctx context.Context) (player.Position, error)
	TogglePause() bool
	Seek(delta float64)
}

type playerModel struct {
	sess *engine.Session
	sim  transport

	keys keyMap
	help help.Model

	width  int
	height int

	filter   int
	selected int
	pos      player.Position
	paused   bool

	lastLog string
}

type refreshMsg time.Time

type rewardMsg struct {
	res engine.RewardResult
}

type endedMsg struct {
	advanced bool
}

func newPlayerModel(sess *engine.Session, sim transport) playerModel {
	return playerModel{
		sess:    sess,
		sim:     sim,
		keys:    defaultKeys,
		help:    help.New(),
		lastLog: "Ready.",
	}
}

func (m playerModel) Init() tea.Cmd {
	return refreshCmd()
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m playerModel) currentFilter() engine.VideoFilter {
	return engine.Filters[m.filter]
}

func (m playerModel) videos() []catalog.Video {
	return m.sess.FilteredVideos(m.currentFilter())
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case refreshMsg:
		if pos, err := m.sim.Position(context.Background()); err == nil {
			m.pos = pos
		}
		return m, refreshCmd()
	case rewardMsg:
		m.lastLog = describeReward(m.sess, msg.res)
		return m, nil
	case endedMsg:
		if msg.advanced {
			if cur := m.sess.QueueState().Current; cur != nil {
				m.lastLog = "Up next: " + cur.Title
			}
		} else {
			m.lastLog = "Playback finished."
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m playerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.videos())-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Filter):
		m.filter = (m.filter + 1) % len(engine.Filters)
		m.selected = 0
		m.lastLog = "Filter: " + string(m.currentFilter())
	case key.Matches(msg, m.keys.Play):
		list := m.videos()
		if m.selected < 0 || m.selected >= len(list) {
			m.lastLog = "Nothing to play."
			return m, nil
		}
		v := list[m.selected]
		if m.sess.SelectAndPlay(v.ID, m.currentFilter()) {
			m.lastLog = ui.IconPlay + " " + v.Title
		}
	case key.Matches(msg, m.keys.Favorite):
		list := m.videos()
		if m.selected < 0 || m.selected >= len(list) {
			return m, nil
		}
		v := list[m.selected]
		if m.sess.ToggleFavorite(v.ID) {
			m.lastLog = "Favorited " + v.Title
		} else {
			m.lastLog = "Unfavorited " + v.Title
		}
		if n := len(m.videos()); m.selected >= n {
			m.selected = max(n-1, 0)
		}
	case key.Matches(msg, m.keys.AutoPlay):
		m.lastLog = startedLog("Autoplay", m.sess.StartSequentialAutoPlay())
	case key.Matches(msg, m.keys.Shuffle):
		m.lastLog = startedLog(ui.IconShuffle+" Shuffle", m.sess.StartShuffledAutoPlay())
	case key.Matches(msg, m.keys.PlayGrid):
		m.lastLog = startedLog("Play "+string(m.currentFilter()), m.sess.StartFilteredAutoPlay(m.currentFilter()))
	case key.Matches(msg, m.keys.ShuffleGrid):
		m.lastLog = startedLog(ui.IconShuffle+" Shuffle "+string(m.currentFilter()), m.sess.StartShuffledFilteredAutoPlay(m.currentFilter()))
	case key.Matches(msg, m.keys.Next):
		m.lastLog = startedLog("Next", m.sess.Next())
	case key.Matches(msg, m.keys.Prev):
		m.lastLog = startedLog("Previous", m.sess.Prev())
	case key.Matches(msg, m.keys.Loop):
		st := m.sess.SetAutoPlay(!m.sess.QueueState().AutoPlay)
		m.lastLog = fmt.Sprintf("%s Autoplay %s.", ui.IconLoop, onOff(st.AutoPlay))
	case key.Matches(msg, m.keys.Pause):
		if !m.sess.QueueState().Playing() {
			return m, nil
		}
		m.paused = m.sim.TogglePause()
		if m.paused {
			m.lastLog = ui.IconPause + " Paused."
		} else {
			m.lastLog = ui.IconPlay + " Resumed."
		}
	case key.Matches(msg, m.keys.Forward):
		m.sim.Seek(10)
	case key.Matches(msg, m.keys.Back):
		m.sim.Seek(-10)
	case key.Matches(msg, m.keys.Exit):
		m.sess.Exit()
		m.pos = player.Position{}
		m.lastLog = "Closed player."
	}
	return m, nil
}

func startedLog(what string, st engine.QueueState) string {
	if st.Current == nil {
		return what + ": nothing to play."
	}
	return fmt.Sprintf("%s: %s %s", what, ui.IconPlay, st.Current.Title)
}

func describeReward(sess *engine.Session, res engine.RewardResult) string {
	title := res.VideoID
	if v, ok := sess.Video(res.VideoID); ok {
		title = v.Title
	}
	s := fmt.Sprintf("%s +%d XP for everyone from %s", ui.IconSparkle, res.SecondsWatched, title)
	if !res.FirstWatch {
		s += " (rewatch)"
	}
	if len(res.LevelUps) > 0 {
		names := make([]string, 0, len(res.LevelUps))
		for _, id := range res.LevelUps {
			if c, ok := sess.Character(id); ok {
				names = append(names, ui.Member(c.Name, c.Color))
			} else {
				names = append(names, id)
			}
		}
		s += " | " + ui.BadgeLevelUp + " " + strings.Join(names, ", ")
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m playerModel) View() string {
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 34
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 24 {
			leftW = 24
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m playerModel) renderHeader() string {
	user := m.sess.UserID()
	if user == "" {
		user = "guest"
	}
	st := m.sess.QueueState()
	return fmt.Sprintf("%s | %s | Filter: %s | Autoplay %s",
		ui.Title.Render("ILLIT World"), user, m.currentFilter(), onOff(st.AutoPlay))
}

func (m playerModel) renderSidebar() string {
	rules := m.sess.Rules()
	lines := []string{ui.H2.Render("Members")}
	for _, c := range m.sess.Roster() {
		lines = append(lines, fmt.Sprintf("%s Lv %d", ui.Member(c.Name, c.Color), c.Level))
		lines = append(lines, "  "+progressBar(rules.XPIntoLevel(c.XP), rules.XPPerLevel, 16)+fmt.Sprintf(" %d XP", c.XP))
	}

	earned := 0
	achievements := m.sess.Achievements()
	for _, a := range achievements {
		if a.Earned {
			earned++
		}
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s Achievements %d/%d", ui.IconTrophy, earned, len(achievements)))
	lines = append(lines, fmt.Sprintf("%s Watched %d/%d", ui.IconCheck, len(m.sess.Watched()), len(m.sess.FilteredVideos(engine.FilterAll))))
	return strings.Join(lines, "\n")
}

func (m playerModel) renderMain() string {
	var out []string
	st := m.sess.QueueState()
	out = append(out, ui.H2.Render("Now Playing"))
	if st.Current == nil {
		out = append(out, ui.Muted.Render("(nothing playing)"))
	} else {
		icon := ui.IconPlay
		if m.paused {
			icon = ui.IconPause
		}
		out = append(out, fmt.Sprintf("%s %s", icon, st.Current.Title))
		secs := 0.0
		if m.pos.VideoID == st.Current.ID {
			secs = m.pos.Seconds
		}
		out = append(out, fmt.Sprintf("%s %s / %s",
			progressBar(int(secs), st.Current.Duration, 30), clock(int(secs)), clock(st.Current.Duration)))
		status := fmt.Sprintf("Up next %d | History %d", len(st.Forward), len(st.History))
		if st.Rewarded {
			status += " | " + ui.Good.Render("rewarded")
		}
		out = append(out, status)
	}
	out = append(out, "")
	out = append(out, ui.H2.Render("Videos ("+string(m.currentFilter())+")"))

	list := m.videos()
	if len(list) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	watched := m.sess.Watched()
	favs := m.sess.Favorites()
	for i, v := range list {
		cursor := "  "
		title := v.Title
		if i == m.selected {
			cursor = "> "
			title = ui.SelectedRow.Render(title)
		}
		_, seen := watched[v.ID]
		line := fmt.Sprintf("%s%s%s %s %s", cursor, ui.WatchedMark(seen), ui.FavoriteMark(favs[v.ID]), title, ui.Muted.Render("["+string(v.Category)+"]"))
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m playerModel) renderFooter() string {
	return "\n" + m.lastLog + "\n" + m.help.View(m.keys)
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func progressBar(value, total, width int) string {
	if width <= 0 {
		return ""
	}
	if total <= 0 {
		total = 1
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(width) * float64(value) / float64(total))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
