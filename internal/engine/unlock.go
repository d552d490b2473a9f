package engine

import (
	"fmt"

	"illitworld/internal/catalog"
)

// IsUnlocked reports whether card is available at the given level and watch
// history. Purchase, exclusive and event cards have no unlock path.
func IsUnlocked(card catalog.PhotoCard, level int, watched WatchedVideos) bool {
	switch card.UnlockType {
	case catalog.UnlockDefault:
		return true
	case catalog.UnlockVideo:
		_, ok := watched[card.Requirement.VideoID]
		return ok
	case catalog.UnlockLevel:
		return level >= card.Requirement.Level
	default:
		return false
	}
}

func UnlockDescription(card catalog.PhotoCard) string {
	switch card.UnlockType {
	case catalog.UnlockVideo:
		if v, ok := catalog.VideoByID(card.Requirement.VideoID); ok {
			return "Watch: " + v.Title
		}
		return "Watch a video to unlock"
	case catalog.UnlockLevel:
		return fmt.Sprintf("Unlock at Level %d", card.Requirement.Level)
	case catalog.UnlockPurchase:
		return "Available for Purchase"
	case catalog.UnlockExclusive:
		return "Exclusive Reward"
	case catalog.UnlockEvent:
		return "Limited Event Reward"
	default:
		return "Locked"
	}
}

// CanSelectCard returns a CardLockedError if card cannot be equipped yet.
func CanSelectCard(card catalog.PhotoCard, level int, watched WatchedVideos) error {
	if IsUnlocked(card, level, watched) {
		return nil
	}
	return CardLockedError{CardID: card.ID, Reason: UnlockDescription(card)}
}

// CardStatus pairs a card with its current availability.
type CardStatus struct {
	Card        catalog.PhotoCard `json:"card"`
	Unlocked    bool              `json:"unlocked"`
	Description string            `json:"description"`
	Selected    bool              `json:"selected"`
}

// EraStatus is an era with evaluated cards.
type EraStatus struct {
	Key   string       `json:"key"`
	Name  string       `json:"name"`
	Cards []CardStatus `json:"cards"`
}

// CardBook evaluates every card of a character, grouped by era.
func CardBook(c Character, watched WatchedVideos) []EraStatus {
	eras := catalog.ErasFor(c.ID)
	out := make([]EraStatus, 0, len(eras))
	for _, e := range eras {
		es := EraStatus{Key: e.Key, Name: e.Name, Cards: make([]CardStatus, 0, len(e.Cards))}
		for _, card := range e.Cards {
			es.Cards = append(es.Cards, CardStatus{
				Card:        card,
				Unlocked:    IsUnlocked(card, c.Level, watched),
				Description: UnlockDescription(card),
				Selected:    card.ID == c.SelectedPhotoCard,
			})
		}
		out = append(out, es)
	}
	return out
}
