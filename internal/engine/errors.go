package engine

import "fmt"

// CardLockedError is returned when selecting a photo card that is not yet
// unlocked for the character.
type CardLockedError struct {
	CardID string
	Reason string
}

func (e CardLockedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("photo card '%s' is locked", e.CardID)
	}
	return fmt.Sprintf("photo card '%s' is locked (%s)", e.CardID, e.Reason)
}

// UnknownCharacterError is returned for a character id not in the roster.
type UnknownCharacterError struct {
	CharacterID string
}

func (e UnknownCharacterError) Error() string {
	return fmt.Sprintf("unknown character '%s'", e.CharacterID)
}
