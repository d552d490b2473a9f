package tui

import (
	"context"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"illitworld/internal/engine"
	"illitworld/internal/player"
)

type Options struct {
	Out      io.Writer
	Interval time.Duration
	// Speed scales simulated playback; 1 is real time.
	Speed  float64
	Logger *zap.Logger
}

// RunPlayer runs the interactive player until the user quits. A progress
// poller drives the session from a simulated player in the background.
func RunPlayer(ctx context.Context, sess *engine.Session, opts Options) error {
	sim := player.NewSimulatedPlayer(sess.QueueState, opts.Speed)

	m := newPlayerModel(sess, sim)
	p := tea.NewProgram(m, tea.WithOutput(opts.Out), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poller := player.NewPoller(sim, sess, opts.Interval, player.Hooks{
		OnReward: func(res engine.RewardResult) { p.Send(rewardMsg{res: res}) },
		OnEnded:  func(advanced bool) { p.Send(endedMsg{advanced: advanced}) },
	}, opts.Logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = poller.Run(ctx)
	}()

	_, err := p.Run()
	cancel()
	wg.Wait()
	return err
}
