package player

import (
	"context"
	"time"

	"go.uber.org/zap"

	"illitworld/internal/engine"
)

// DefaultInterval is how often the playback position is sampled.
const DefaultInterval = time.Second

// Position is one sample of the external player. Viewing distinguishes
// replays of the same video; sources that cannot tell leave it zero.
type Position struct {
	VideoID  string
	Viewing  uint64
	Seconds  float64
	Duration float64
	Ended    bool
}

// PositionSource reports where playback currently is. An empty VideoID means
// nothing is playing.
type PositionSource interface {
	Position(ctx context.Context) (Position, error)
}

// Sink receives playback stimuli. *engine.Session implements it.
type Sink interface {
	OnProgressTick(position, duration float64) *engine.RewardResult
	OnPlaybackEnded() bool
}

// Hooks are optional callbacks invoked from the polling goroutine.
type Hooks struct {
	OnReward func(engine.RewardResult)
	OnEnded  func(advanced bool)
}

// Poller samples a PositionSource on an interval and forwards progress and
// end-of-playback to a Sink.
type Poller struct {
	source   PositionSource
	sink     Sink
	interval time.Duration
	hooks    Hooks
	log      *zap.Logger

	endedFor viewing
}

type viewing struct {
	videoID string
	n       uint64
}

func NewPoller(source PositionSource, sink Sink, interval time.Duration, hooks Hooks, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{source: source, sink: sink, interval: interval, hooks: hooks, log: log}
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll takes one sample. The end signal is delivered once per viewing, on
// the transition into the ended state.
func (p *Poller) Poll(ctx context.Context) {
	pos, err := p.source.Position(ctx)
	if err != nil {
		p.log.Warn("read playback position", zap.Error(err))
		return
	}
	if pos.VideoID == "" {
		p.endedFor = viewing{}
		return
	}
	cur := viewing{videoID: pos.VideoID, n: pos.Viewing}

	if res := p.sink.OnProgressTick(pos.Seconds, pos.Duration); res != nil && p.hooks.OnReward != nil {
		p.hooks.OnReward(*res)
	}

	if !pos.Ended {
		if p.endedFor == cur {
			p.endedFor = viewing{}
		}
		return
	}
	if p.endedFor == cur {
		return
	}
	p.endedFor = cur
	advanced := p.sink.OnPlaybackEnded()
	p.log.Debug("playback ended", zap.String("video", pos.VideoID), zap.Bool("advanced", advanced))
	if p.hooks.OnEnded != nil {
		p.hooks.OnEnded(advanced)
	}
}
