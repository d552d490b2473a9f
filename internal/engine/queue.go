package engine

import (
	"math/rand/v2"
	"slices"

	"illitworld/internal/catalog"
)

// SeedKind names the list producer a queue regenerates from when it loops.
type SeedKind int

const (
	// SeedFiltered regenerates the grid for Seed.Filter. The zero seed is the
	// unfiltered catalog.
	SeedFiltered SeedKind = iota
	// SeedUnwatchedOrdered regenerates the unwatched-first ordering.
	SeedUnwatchedOrdered
)

func (k SeedKind) String() string {
	switch k {
	case SeedUnwatchedOrdered:
		return "unwatched"
	default:
		return "filtered"
	}
}

// SeedDescriptor describes how to rebuild the queue. It is resolved against
// the watch state at the time of the rebuild, not at the time it was stored.
type SeedDescriptor struct {
	Kind    SeedKind    `json:"kind"`
	Filter  VideoFilter `json:"filter,omitempty"`
	Shuffle bool        `json:"shuffle"`
}

// SeedResolver produces the current list for a seed, before shuffling.
type SeedResolver interface {
	Resolve(seed SeedDescriptor) []catalog.Video
}

type SeedResolverFunc func(seed SeedDescriptor) []catalog.Video

func (f SeedResolverFunc) Resolve(seed SeedDescriptor) []catalog.Video { return f(seed) }

// QueueState is a snapshot of the playback queue.
type QueueState struct {
	Current  *catalog.Video  `json:"current"`
	Forward  []catalog.Video `json:"forward"`
	History  []catalog.Video `json:"history"`
	AutoPlay bool            `json:"autoPlay"`
	Rewarded bool            `json:"rewarded"`
	Seed     SeedDescriptor  `json:"seed"`
	// Viewing increases every time a video becomes current, so a replay of
	// the same video is a new viewing.
	Viewing uint64 `json:"viewing"`
}

// Playing reports whether a video is selected.
func (s QueueState) Playing() bool { return s.Current != nil }

// Queue is the playback queue controller. It is not safe for concurrent use;
// Session serialises access to it.
type Queue struct {
	state    QueueState
	resolver SeedResolver
	rng      *rand.Rand
}

// NewQueue returns an idle queue. A nil rng uses a randomly seeded source.
func NewQueue(resolver SeedResolver, rng *rand.Rand) *Queue {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Queue{resolver: resolver, rng: rng}
}

// State returns a copy of the queue state.
func (q *Queue) State() QueueState {
	s := q.state
	if s.Current != nil {
		v := *s.Current
		s.Current = &v
	}
	s.Forward = slices.Clone(s.Forward)
	s.History = slices.Clone(s.History)
	return s
}

func (q *Queue) setCurrent(v catalog.Video) {
	q.state.Current = &v
	q.state.Rewarded = false
	q.state.Viewing++
}

func (q *Queue) fresh() []catalog.Video {
	list := slices.Clone(q.resolver.Resolve(q.state.Seed))
	if q.state.Seed.Shuffle {
		q.shuffle(list)
	}
	return list
}

// shuffle is a Fisher-Yates shuffle.
func (q *Queue) shuffle(list []catalog.Video) {
	for i := len(list) - 1; i > 0; i-- {
		j := q.rng.IntN(i + 1)
		list[i], list[j] = list[j], list[i]
	}
}

// SelectAndPlay makes video current and splits the list produced by seed
// around it. A video not in that list plays with empty history and queue.
func (q *Queue) SelectAndPlay(video catalog.Video, seed SeedDescriptor) {
	seed.Shuffle = false
	list := q.resolver.Resolve(seed)
	idx := slices.IndexFunc(list, func(v catalog.Video) bool { return v.ID == video.ID })

	q.state.History, q.state.Forward = nil, nil
	if idx >= 0 {
		q.state.History = slices.Clone(list[:idx])
		q.state.Forward = slices.Clone(list[idx+1:])
	}
	q.state.Seed = seed
	q.setCurrent(video)
}

// Start begins auto-play from seed. An empty list leaves the queue unchanged.
func (q *Queue) Start(seed SeedDescriptor) {
	list := slices.Clone(q.resolver.Resolve(seed))
	if len(list) == 0 {
		return
	}
	if seed.Shuffle {
		q.shuffle(list)
	}
	q.state.Seed = seed
	q.state.History = nil
	q.state.Forward = list[1:]
	q.state.AutoPlay = true
	q.setCurrent(list[0])
}

func (q *Queue) StartSequentialAutoPlay() {
	q.Start(SeedDescriptor{Kind: SeedUnwatchedOrdered})
}

func (q *Queue) StartShuffledAutoPlay() {
	q.Start(SeedDescriptor{Kind: SeedUnwatchedOrdered, Shuffle: true})
}

func (q *Queue) StartFilteredAutoPlay(f VideoFilter) {
	q.Start(SeedDescriptor{Kind: SeedFiltered, Filter: f})
}

func (q *Queue) StartShuffledFilteredAutoPlay(f VideoFilter) {
	q.Start(SeedDescriptor{Kind: SeedFiltered, Filter: f, Shuffle: true})
}

// Next advances to the head of the forward queue, or loops by regenerating
// from the seed when the queue is exhausted.
func (q *Queue) Next() {
	if len(q.state.Forward) > 0 {
		next := q.state.Forward[0]
		if q.state.Current != nil {
			q.state.History = append(q.state.History, *q.state.Current)
		}
		q.state.Forward = slices.Clone(q.state.Forward[1:])
		q.setCurrent(next)
		return
	}
	list := q.fresh()
	if len(list) == 0 {
		return
	}
	q.state.History = nil
	q.state.Forward = list[1:]
	q.setCurrent(list[0])
}

// Prev steps back through history, or loops to the end of a regenerated list.
func (q *Queue) Prev() {
	if n := len(q.state.History); n > 0 {
		prev := q.state.History[n-1]
		q.state.History = slices.Clone(q.state.History[:n-1])
		if q.state.Current != nil {
			q.state.Forward = append([]catalog.Video{*q.state.Current}, q.state.Forward...)
		}
		q.setCurrent(prev)
		return
	}
	list := q.fresh()
	if len(list) == 0 {
		return
	}
	last := list[len(list)-1]
	q.state.History = list[:len(list)-1]
	q.state.Forward = nil
	q.setCurrent(last)
}

// OnPlaybackEnded advances only when auto-play is on and there is somewhere
// to go.
func (q *Queue) OnPlaybackEnded() bool {
	if !q.state.AutoPlay || (len(q.state.Forward) == 0 && len(q.state.History) == 0) {
		return false
	}
	q.Next()
	return true
}

// Exit returns to idle. AutoPlay is left as is.
func (q *Queue) Exit() {
	q.state.Current = nil
	q.state.Forward = nil
	q.state.History = nil
	q.state.Rewarded = false
}

// Reset returns to idle and disables auto-play.
func (q *Queue) Reset() {
	q.Exit()
	q.state.AutoPlay = false
	q.state.Seed = SeedDescriptor{}
}

func (q *Queue) SetAutoPlay(on bool) { q.state.AutoPlay = on }

// markRewarded sets the reward guard and reports whether it was previously
// clear for a current video.
func (q *Queue) markRewarded() (catalog.Video, bool) {
	if q.state.Current == nil || q.state.Rewarded {
		return catalog.Video{}, false
	}
	q.state.Rewarded = true
	return *q.state.Current, true
}
