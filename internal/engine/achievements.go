package engine

import "illitworld/internal/catalog"

// Achievement is a badge earned from progress.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

// AchievementChecker evaluates achievements against a roster and watch state.
type AchievementChecker struct {
	roster    []Character
	watched   WatchedVideos
	favorites FavoriteVideos
	videos    []catalog.Video
}

func NewAchievementChecker(roster []Character, watched WatchedVideos, favorites FavoriteVideos, videos []catalog.Video) *AchievementChecker {
	return &AchievementChecker{roster: roster, watched: watched, favorites: favorites, videos: videos}
}

func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Level milestones
		c.levelAchievement("trainee", "Trainee", "Reach level 2", "🌱", 2),
		c.levelAchievement("rookie", "Rookie", "Reach level 5", "🌸", 5),
		c.levelAchievement("center", "Center", "Reach level 10", "⭐", 10),

		// Watch milestones
		c.watchCountAchievement("first_watch", "First Watch", "Watch 1 video", "▶", 1),
		c.watchCountAchievement("binge", "Binge", "Watch 5 videos", "📺", 5),
		c.categoryAchievement("mv_complete", "Every MV", "Watch every music video", "🎬", catalog.CategoryMusicVideo),
		c.watchCountAchievement("completionist", "Completionist", "Watch every video", "🏆", len(c.videos)),

		c.favoriteAchievement("first_favorite", "Fan Pick", "Favorite a video", "♥"),
		c.cardAchievement("first_card", "Collector", "Equip a photo card other than the default", "🃏"),
	}
}

func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) CountTotal() int {
	return len(c.GetAchievements())
}

func (c *AchievementChecker) levelAchievement(id, name, desc, icon string, level int) Achievement {
	earned := false
	for _, ch := range c.roster {
		if ch.Level >= level {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) watchCountAchievement(id, name, desc, icon string, count int) Achievement {
	seen := 0
	for _, v := range c.videos {
		if _, ok := c.watched[v.ID]; ok {
			seen++
		}
	}
	earned := count > 0 && seen >= count
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) categoryAchievement(id, name, desc, icon string, cat catalog.Category) Achievement {
	total, seen := 0, 0
	for _, v := range c.videos {
		if v.Category != cat {
			continue
		}
		total++
		if _, ok := c.watched[v.ID]; ok {
			seen++
		}
	}
	earned := total > 0 && seen == total
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) favoriteAchievement(id, name, desc, icon string) Achievement {
	earned := false
	for _, fav := range c.favorites {
		if fav {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) cardAchievement(id, name, desc, icon string) Achievement {
	earned := false
	for _, ch := range c.roster {
		if ch.SelectedPhotoCard != "" && ch.SelectedPhotoCard != ch.ID+"-misc-1" {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

// Achievements evaluates the session's current state.
func (s *Session) Achievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewAchievementChecker(s.roster, s.watched, s.favorites, s.videos).GetAchievements()
}
