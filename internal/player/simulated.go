package player

import (
	"context"
	"sync"
	"time"

	"illitworld/internal/engine"
)

// SimulatedPlayer stands in for an embedded video player. It plays whatever
// video the tracked queue has current, advancing in wall-clock time scaled by
// speed. Each new viewing, including a replay of the same video, starts at 0.
type SimulatedPlayer struct {
	mu sync.Mutex

	tracker func() engine.QueueState
	now     func() time.Time
	speed   float64

	videoID string
	viewing uint64
	pos     float64
	last    time.Time
	paused  bool
}

// NewSimulatedPlayer returns a player following tracker at the given speed
// (1 is real time).
func NewSimulatedPlayer(tracker func() engine.QueueState, speed float64) *SimulatedPlayer {
	if speed <= 0 {
		speed = 1
	}
	return &SimulatedPlayer{tracker: tracker, now: time.Now, speed: speed}
}

func (p *SimulatedPlayer) Position(_ context.Context) (Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.tracker()
	v := st.Current
	now := p.now()
	if v == nil {
		p.videoID = ""
		return Position{}, nil
	}
	if v.ID != p.videoID || st.Viewing != p.viewing {
		p.videoID = v.ID
		p.viewing = st.Viewing
		p.pos = 0
	} else if !p.paused {
		p.pos += now.Sub(p.last).Seconds() * p.speed
	}
	p.last = now

	dur := float64(v.Duration)
	if p.pos > dur {
		p.pos = dur
	}
	return Position{VideoID: v.ID, Viewing: p.viewing, Seconds: p.pos, Duration: dur, Ended: dur > 0 && p.pos >= dur}, nil
}

// TogglePause pauses or resumes and reports whether the player is now paused.
func (p *SimulatedPlayer) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	return p.paused
}

// Seek moves by delta seconds within the current video.
func (p *SimulatedPlayer) Seek(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos += delta
	if p.pos < 0 {
		p.pos = 0
	}
}

func (p *SimulatedPlayer) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
}

func (p *SimulatedPlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}
