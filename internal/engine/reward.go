package engine

import (
	"time"

	"illitworld/internal/catalog"
)

// RewardResult describes one applied reward.
type RewardResult struct {
	VideoID        string `json:"videoId"`
	SecondsWatched int    `json:"secondsWatched"`
	FirstWatch     bool   `json:"firstWatch"`
	// LevelUps lists the ids of characters whose level increased.
	LevelUps []string `json:"levelUps,omitempty"`
}

// ApplyReward grants floor(duration*fraction) XP to every character and marks
// the video watched at now if it was not watched before. The inputs are not
// modified.
func (r Rules) ApplyReward(roster []Character, watched WatchedVideos, video catalog.Video, fraction float64, now time.Time) ([]Character, WatchedVideos, RewardResult) {
	gained := SecondsWatched(video.Duration, fraction)
	res := RewardResult{VideoID: video.ID, SecondsWatched: gained}

	next := cloneRoster(roster)
	for i := range next {
		before := next[i].Level
		next[i].XP += gained
		next[i].Level = r.LevelForXP(next[i].XP)
		if next[i].Level > before {
			res.LevelUps = append(res.LevelUps, next[i].ID)
		}
	}

	nextWatched := cloneWatched(watched)
	if _, ok := nextWatched[video.ID]; !ok {
		nextWatched[video.ID] = now.UnixMilli()
		res.FirstWatch = true
	}
	return next, nextWatched, res
}

// AdjustXP adds delta to every character, clamping at zero.
func (r Rules) AdjustXP(roster []Character, delta int) []Character {
	next := cloneRoster(roster)
	for i := range next {
		next[i].XP += delta
		if next[i].XP < 0 {
			next[i].XP = 0
		}
		next[i].Level = r.LevelForXP(next[i].XP)
	}
	return next
}

// MigrateLegacyWatched converts watched ids stored without timestamps,
// stamping them with now. Existing entries win.
func MigrateLegacyWatched(watched WatchedVideos, legacy []string, now time.Time) WatchedVideos {
	out := cloneWatched(watched)
	ts := now.UnixMilli()
	for _, id := range legacy {
		if _, ok := out[id]; !ok {
			out[id] = ts
		}
	}
	return out
}
