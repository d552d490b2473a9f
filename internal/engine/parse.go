package engine

import (
	"fmt"
	"strconv"
	"strings"
)

var filterAliases = map[string]VideoFilter{
	"":          FilterAll,
	"all":       FilterAll,
	"watched":   FilterWatched,
	"unwatched": FilterUnwatched,
	"favorites": FilterFavorites,
	"fav":       FilterFavorites,
	"mv":        FilterMusicVideo,
	"dance":     FilterDancePractice,
	"super":     FilterSuperIllit,
	"misc":      FilterMisc,
}

// ParseVideoFilter accepts a display name or a short alias, case-insensitively.
func ParseVideoFilter(s string) (VideoFilter, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := filterAliases[key]; ok {
		return f, nil
	}
	for _, f := range Filters {
		if strings.ToLower(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown video filter: %q", s)
}

// ParseDelta parses a developer adjustment such as "+50", "-1" or "200".
func ParseDelta(input string) (int, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid adjustment %q: %w", input, err)
	}
	return n, nil
}
