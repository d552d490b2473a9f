package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed photocards.yaml
var photoCardsYAML []byte

type UnlockType string

const (
	UnlockDefault   UnlockType = "default"
	UnlockVideo     UnlockType = "video"
	UnlockLevel     UnlockType = "level"
	UnlockPurchase  UnlockType = "purchase"
	UnlockExclusive UnlockType = "exclusive"
	UnlockEvent     UnlockType = "event"
)

func (u UnlockType) IsValid() bool {
	switch u {
	case UnlockDefault, UnlockVideo, UnlockLevel, UnlockPurchase, UnlockExclusive, UnlockEvent:
		return true
	default:
		return false
	}
}

// Requirement is the unlock parameter of a card: a video id for UnlockVideo,
// a level number for UnlockLevel, empty otherwise.
type Requirement struct {
	VideoID string `json:"videoId,omitempty"`
	Level   int    `json:"level,omitempty"`
}

type PhotoCard struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Color       string      `json:"color"`
	UnlockType  UnlockType  `json:"unlockType"`
	Requirement Requirement `json:"requirement"`
}

// Era is an ordered display group of a member's cards.
type Era struct {
	Key   string      `json:"key"`
	Name  string      `json:"name"`
	Cards []PhotoCard `json:"cards"`
}

type Member struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

type unlockSpec struct {
	Name   string     `yaml:"name"`
	Unlock UnlockType `yaml:"unlock"`
	Video  string     `yaml:"video"`
	Level  int        `yaml:"level"`
	Color  string     `yaml:"color"`
}

func (s unlockSpec) requirement() Requirement {
	switch s.Unlock {
	case UnlockVideo:
		return Requirement{VideoID: s.Video}
	case UnlockLevel:
		return Requirement{Level: s.Level}
	default:
		return Requirement{}
	}
}

type memberSpec struct {
	Member `yaml:",inline"`
	Cards  []string `yaml:"cards"`
}

type cardFile struct {
	EraOrder        []string                         `yaml:"era_order"`
	Eras            map[string]unlockSpec            `yaml:"eras"`
	Members         []memberSpec                     `yaml:"members"`
	MemberOverrides map[string]map[string]unlockSpec `yaml:"member_overrides"`
	CardOverrides   map[string]unlockSpec            `yaml:"card_overrides"`
}

type photoCardSet struct {
	members []Member
	eras    map[string][]Era
	cards   map[string]PhotoCard
	owner   map[string]string
}

var cardSet = mustParsePhotoCards(photoCardsYAML)

func mustParsePhotoCards(data []byte) *photoCardSet {
	set, err := parsePhotoCards(data)
	if err != nil {
		panic(err)
	}
	return set
}

func parsePhotoCards(data []byte) (*photoCardSet, error) {
	var f cardFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse photo cards: %w", err)
	}
	return buildPhotoCards(f)
}

type cardKey struct {
	id  string
	num int
}

// buildPhotoCards groups each member's card keys by era. Known eras come first
// in era_order; unknown era prefixes follow in name order with a default unlock.
func buildPhotoCards(f cardFile) (*photoCardSet, error) {
	set := &photoCardSet{
		eras:  map[string][]Era{},
		cards: map[string]PhotoCard{},
		owner: map[string]string{},
	}

	for _, m := range f.Members {
		if m.ID == "" {
			return nil, fmt.Errorf("member %q: id is required", m.Name)
		}
		set.members = append(set.members, m.Member)

		groups := map[string][]cardKey{}
		for _, key := range m.Cards {
			dash := strings.LastIndex(key, "-")
			if dash <= 0 {
				continue
			}
			num, err := strconv.Atoi(key[dash+1:])
			if err != nil {
				continue
			}
			era := key[:dash]
			groups[era] = append(groups[era], cardKey{id: m.ID + "-" + key, num: num})
		}

		var eras []Era
		for _, era := range f.EraOrder {
			group := groups[era]
			if len(group) == 0 {
				continue
			}
			spec := f.Eras[era]
			if ov, ok := f.MemberOverrides[m.ID][era]; ok {
				spec = mergeSpec(spec, ov)
			}
			eras = append(eras, buildEra(era, spec.Name, spec, group, m.Color, f.CardOverrides))
		}

		var unknown []string
		for era := range groups {
			if !slices.Contains(f.EraOrder, era) {
				unknown = append(unknown, era)
			}
		}
		sort.Strings(unknown)
		for _, era := range unknown {
			spec := unlockSpec{Unlock: UnlockDefault}
			eras = append(eras, buildEra(era, strings.ToUpper(era), spec, groups[era], m.Color, f.CardOverrides))
		}

		for _, e := range eras {
			for _, c := range e.Cards {
				if !c.UnlockType.IsValid() {
					return nil, fmt.Errorf("card %q: invalid unlock type %q", c.ID, c.UnlockType)
				}
				set.cards[c.ID] = c
				set.owner[c.ID] = m.ID
			}
		}
		set.eras[m.ID] = eras
	}
	return set, nil
}

func buildEra(key, name string, spec unlockSpec, group []cardKey, color string, overrides map[string]unlockSpec) Era {
	sort.SliceStable(group, func(i, j int) bool { return group[i].num < group[j].num })
	if color == "" {
		color = "#888"
	}
	era := Era{Key: key, Name: name}
	for _, k := range group {
		card := PhotoCard{
			ID:          k.id,
			Name:        fmt.Sprintf("Photocard %d", k.num),
			Color:       color,
			UnlockType:  spec.Unlock,
			Requirement: spec.requirement(),
		}
		if ov, ok := overrides[k.id]; ok {
			card = applyCardOverride(card, ov)
		}
		era.Cards = append(era.Cards, card)
	}
	return era
}

func mergeSpec(base, ov unlockSpec) unlockSpec {
	if ov.Name != "" {
		base.Name = ov.Name
	}
	if ov.Unlock != "" {
		base.Unlock = ov.Unlock
		base.Video = ov.Video
		base.Level = ov.Level
	}
	return base
}

func applyCardOverride(card PhotoCard, ov unlockSpec) PhotoCard {
	if ov.Name != "" {
		card.Name = ov.Name
	}
	if ov.Color != "" {
		card.Color = ov.Color
	}
	if ov.Unlock != "" {
		card.UnlockType = ov.Unlock
		card.Requirement = ov.requirement()
	}
	return card
}

// Members returns the roster in display order.
func Members() []Member {
	return slices.Clone(cardSet.members)
}

func MemberByID(id string) (Member, bool) {
	for _, m := range cardSet.members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// ErasFor returns the card groups of a member, or nil for an unknown member.
func ErasFor(memberID string) []Era {
	eras, ok := cardSet.eras[memberID]
	if !ok {
		return nil
	}
	out := make([]Era, len(eras))
	for i, e := range eras {
		out[i] = Era{Key: e.Key, Name: e.Name, Cards: slices.Clone(e.Cards)}
	}
	return out
}

func PhotoCardByID(id string) (PhotoCard, bool) {
	c, ok := cardSet.cards[id]
	return c, ok
}

// OwnerOf returns the member a card belongs to.
func OwnerOf(cardID string) (string, bool) {
	m, ok := cardSet.owner[cardID]
	return m, ok
}
