package engine

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"illitworld/internal/catalog"
	"illitworld/internal/storage"
)

type Options struct {
	// Store is required for signed-in persistence. A nil Store keeps the
	// session in guest mode even after SignIn.
	Store  Store
	Logger *zap.Logger
	Rules  Rules
	// Videos overrides the built-in catalog.
	Videos []catalog.Video
	Now    func() time.Time
	Rand   *rand.Rand
}

// Session owns one player's roster, watch state and playback queue. All
// methods are safe for concurrent use; stimuli from a progress poller and a
// UI are applied one at a time.
type Session struct {
	mu sync.Mutex

	rules  Rules
	log    *zap.Logger
	now    func() time.Time
	videos []catalog.Video
	store  Store
	saver  *saver

	userID     string
	persist    bool
	roster     []Character
	watched    WatchedVideos
	favorites  FavoriteVideos
	showPhotos bool
	background string

	queue *Queue
}

func NewSession(opts Options) *Session {
	s := &Session{
		rules:  opts.Rules.withDefaults(),
		log:    opts.Logger,
		now:    opts.Now,
		videos: opts.Videos,
		store:  opts.Store,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.videos == nil {
		s.videos = catalog.Videos()
	}
	if s.store != nil {
		s.saver = newSaver(s.store, s.log)
	}
	s.queue = NewQueue(SeedResolverFunc(s.resolve), opts.Rand)
	s.resetState()
	return s
}

// resolve is called with s.mu held.
func (s *Session) resolve(seed SeedDescriptor) []catalog.Video {
	switch seed.Kind {
	case SeedUnwatchedOrdered:
		return OrderUnwatched(s.videos, s.watched)
	default:
		return FilterVideos(s.videos, seed.Filter, s.watched, s.favorites)
	}
}

func (s *Session) resetState() {
	s.roster = DefaultRoster()
	s.watched = WatchedVideos{}
	s.favorites = FavoriteVideos{}
	s.showPhotos = false
	s.background = storage.DefaultBackground
}

func (s *Session) Rules() Rules { return s.rules }

// SignIn loads the user's saved data, falling back to defaults when there is
// none or the load fails. Persistence is enabled once loading is done.
func (s *Session) SignIn(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist = false
	s.userID = userID
	s.resetState()
	if s.store == nil {
		return
	}

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		s.log.Error("load game data", zap.String("user", userID), zap.Error(err))
	}
	dirty := false
	if snap != nil {
		dirty = s.applySnapshot(snap)
	}
	s.persist = true
	if dirty {
		s.persistLocked()
	}
	s.log.Debug("signed in", zap.String("user", userID), zap.Bool("found", snap != nil))
}

// applySnapshot reports whether the loaded data needed repair.
func (s *Session) applySnapshot(snap *storage.Snapshot) bool {
	dirty := false
	if len(snap.Characters) > 0 {
		s.roster = cloneRoster(snap.Characters)
	}
	if s.rules.syncLevels(s.roster) {
		dirty = true
	}
	s.watched = cloneWatched(snap.WatchedVideos)
	if len(snap.LegacyWatched) > 0 {
		s.watched = MigrateLegacyWatched(s.watched, snap.LegacyWatched, s.now())
		s.log.Info("migrated legacy watched videos", zap.Int("count", len(snap.LegacyWatched)))
		dirty = true
	}
	s.favorites = cloneFavorites(snap.FavoriteVideos)
	s.showPhotos = snap.ShowPhotos
	if snap.SelectedBackground != "" {
		s.background = snap.SelectedBackground
	}
	return dirty
}

// SignOut returns to guest defaults and resets the player.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.persist = false
	s.resetState()
	s.queue.Reset()
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Wait blocks until background saves have finished.
func (s *Session) Wait() {
	if s.saver != nil {
		s.saver.wait()
	}
}

func (s *Session) persistLocked() {
	if !s.persist || s.userID == "" || s.saver == nil {
		return
	}
	s.saver.save(s.userID, s.snapshotLocked())
}

func (s *Session) snapshotLocked() *storage.Snapshot {
	return &storage.Snapshot{
		Characters:         cloneRoster(s.roster),
		ShowPhotos:         s.showPhotos,
		WatchedVideos:      cloneWatched(s.watched),
		FavoriteVideos:     cloneFavorites(s.favorites),
		SelectedBackground: s.background,
		LastUpdated:        s.now().UnixMilli(),
	}
}

// Snapshot returns the current state in its persisted form.
func (s *Session) Snapshot() *storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Roster() []Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRoster(s.roster)
}

func (s *Session) Character(id string) (Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.roster {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

func (s *Session) Watched() WatchedVideos {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWatched(s.watched)
}

func (s *Session) Favorites() FavoriteVideos {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFavorites(s.favorites)
}

func (s *Session) QueueState() QueueState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.State()
}

func (s *Session) Video(id string) (catalog.Video, bool) {
	for _, v := range s.videos {
		if v.ID == id {
			return v, true
		}
	}
	return catalog.Video{}, false
}

func (s *Session) FilteredVideos(f VideoFilter) []catalog.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterVideos(s.videos, f, s.watched, s.favorites)
}

func (s *Session) UnwatchedOrdered() []catalog.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OrderUnwatched(s.videos, s.watched)
}

// CompleteCurrent rewards the current viewing once. It returns nil when there
// is nothing to reward or fraction is below the reward threshold.
func (s *Session) CompleteCurrent(fraction float64) *RewardResult {
	fraction = min(fraction, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if fraction < s.rules.RewardThreshold {
		return nil
	}
	return s.completeLocked(fraction)
}

func (s *Session) completeLocked(fraction float64) *RewardResult {
	video, ok := s.queue.markRewarded()
	if !ok {
		return nil
	}
	return s.rewardLocked(video, fraction)
}

func (s *Session) rewardLocked(video catalog.Video, fraction float64) *RewardResult {
	roster, watched, res := s.rules.ApplyReward(s.roster, s.watched, video, fraction, s.now())
	s.roster, s.watched = roster, watched
	s.log.Info("awarded xp",
		zap.String("video", video.ID),
		zap.Int("xp", res.SecondsWatched),
		zap.Bool("first_watch", res.FirstWatch),
		zap.Strings("level_ups", res.LevelUps),
	)
	s.persistLocked()
	return &res
}

// OnProgressTick rewards the current viewing when position crosses the
// reward threshold.
func (s *Session) OnProgressTick(position, duration float64) *RewardResult {
	if duration <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if position/duration < s.rules.RewardThreshold {
		return nil
	}
	return s.completeLocked(s.rules.RewardThreshold)
}

// RecordWatch rewards a viewing of videoID that happened outside the queue.
// Nothing is awarded below the reward threshold, and the queue is left as is.
// ok is false for an unknown video.
func (s *Session) RecordWatch(videoID string, fraction float64) (res *RewardResult, ok bool) {
	v, ok := s.Video(videoID)
	if !ok {
		return nil, false
	}
	fraction = min(fraction, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if fraction < s.rules.RewardThreshold {
		return nil, true
	}
	return s.rewardLocked(v, fraction), true
}

// OnPlaybackEnded reports whether the queue advanced.
func (s *Session) OnPlaybackEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.OnPlaybackEnded()
}

// SelectAndPlay plays videoID from the grid for filter. It returns false for
// an unknown video.
func (s *Session) SelectAndPlay(videoID string, f VideoFilter) bool {
	v, ok := s.Video(videoID)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SelectAndPlay(v, SeedDescriptor{Kind: SeedFiltered, Filter: f})
	return true
}

func (s *Session) withQueue(fn func(q *Queue)) QueueState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.queue)
	return s.queue.State()
}

func (s *Session) StartSequentialAutoPlay() QueueState {
	return s.withQueue((*Queue).StartSequentialAutoPlay)
}

func (s *Session) StartShuffledAutoPlay() QueueState {
	return s.withQueue((*Queue).StartShuffledAutoPlay)
}

func (s *Session) StartFilteredAutoPlay(f VideoFilter) QueueState {
	return s.withQueue(func(q *Queue) { q.StartFilteredAutoPlay(f) })
}

func (s *Session) StartShuffledFilteredAutoPlay(f VideoFilter) QueueState {
	return s.withQueue(func(q *Queue) { q.StartShuffledFilteredAutoPlay(f) })
}

func (s *Session) Next() QueueState { return s.withQueue((*Queue).Next) }
func (s *Session) Prev() QueueState { return s.withQueue((*Queue).Prev) }
func (s *Session) Exit() QueueState { return s.withQueue((*Queue).Exit) }

func (s *Session) SetAutoPlay(on bool) QueueState {
	return s.withQueue(func(q *Queue) { q.SetAutoPlay(on) })
}

// ToggleFavorite flips membership of videoID in the favorites set and
// returns the new membership.
func (s *Session) ToggleFavorite(videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneFavorites(s.favorites)
	fav := !next[videoID]
	if fav {
		next[videoID] = true
	} else {
		delete(next, videoID)
	}
	s.favorites = next
	s.persistLocked()
	return fav
}

// SelectPhotoCard equips cardID on characterID. An unknown character is
// ignored. The card must exist, belong to the character and be unlocked.
func (s *Session) SelectPhotoCard(characterID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.roster {
		if s.roster[i].ID == characterID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	card, ok := catalog.PhotoCardByID(cardID)
	if !ok {
		return CardLockedError{CardID: cardID, Reason: "no such card"}
	}
	if owner, _ := catalog.OwnerOf(cardID); owner != characterID {
		return CardLockedError{CardID: cardID, Reason: "belongs to " + owner}
	}
	if err := CanSelectCard(card, s.roster[idx].Level, s.watched); err != nil {
		return err
	}
	next := cloneRoster(s.roster)
	next[idx].SelectedPhotoCard = cardID
	s.roster = next
	s.persistLocked()
	return nil
}

func (s *Session) ShowPhotos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showPhotos
}

func (s *Session) SetShowPhotos(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showPhotos = on
	s.persistLocked()
}

func (s *Session) SelectedBackground() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *Session) SetBackground(bg string) {
	if bg == "" {
		bg = storage.DefaultBackground
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = bg
	s.persistLocked()
}

// AdjustXP adds delta XP to every character, clamped at zero.
func (s *Session) AdjustXP(delta int) []Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = s.rules.AdjustXP(s.roster, delta)
	s.persistLocked()
	return cloneRoster(s.roster)
}

// AdjustLevels moves every character by n whole levels of XP.
func (s *Session) AdjustLevels(n int) []Character {
	return s.AdjustXP(n * s.rules.XPPerLevel)
}
