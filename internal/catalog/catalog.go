// Package catalog holds the static, compiled-in content of the app: the video
// catalog, the member roster and the photo card inventory.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed videos.yaml
var videosYAML []byte

type Category string

const (
	CategoryMusicVideo    Category = "Music Video"
	CategoryDancePractice Category = "Dance Practice"
	CategorySuperIllit    Category = "SUPER ILLIT"
	CategoryMisc          Category = "Misc"
)

// Categories lists the categories in display order.
var Categories = []Category{CategoryMusicVideo, CategoryDancePractice, CategorySuperIllit, CategoryMisc}

func (c Category) IsValid() bool {
	return slices.Contains(Categories, c)
}

// Video is an immutable catalog entry. Duration is in seconds.
type Video struct {
	ID          string   `yaml:"id" json:"id"`
	YouTubeID   string   `yaml:"youtube_id" json:"youtubeId"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Duration    int      `yaml:"duration" json:"duration"`
	Category    Category `yaml:"category" json:"category"`
}

type videoFile struct {
	Videos []Video `yaml:"videos"`
}

var (
	videos     = mustParseVideos(videosYAML)
	videoIndex = indexVideos(videos)
)

func parseVideos(data []byte) ([]Video, error) {
	var f videoFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse videos: %w", err)
	}
	seen := map[string]bool{}
	for _, v := range f.Videos {
		if v.ID == "" {
			return nil, fmt.Errorf("video %q: id is required", v.Title)
		}
		if seen[v.ID] {
			return nil, fmt.Errorf("video %q: duplicate id", v.ID)
		}
		seen[v.ID] = true
		if !v.Category.IsValid() {
			return nil, fmt.Errorf("video %q: invalid category %q", v.ID, v.Category)
		}
		if v.Duration <= 0 {
			return nil, fmt.Errorf("video %q: duration must be positive", v.ID)
		}
	}
	return f.Videos, nil
}

func mustParseVideos(data []byte) []Video {
	v, err := parseVideos(data)
	if err != nil {
		panic(err)
	}
	return v
}

func indexVideos(list []Video) map[string]int {
	idx := make(map[string]int, len(list))
	for i, v := range list {
		idx[v.ID] = i
	}
	return idx
}

// Videos returns the catalog in grid order. The slice is a copy.
func Videos() []Video {
	return slices.Clone(videos)
}

func VideoByID(id string) (Video, bool) {
	i, ok := videoIndex[id]
	if !ok {
		return Video{}, false
	}
	return videos[i], true
}
