package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Metadata holds the free-form descriptive fields of a tournament. There are
// no cross-field invariants; all of it is editable at any time.
type Metadata struct {
	Name     string `json:"name" db:"name"`
	Location string `json:"location" db:"location"`
	Date     string `json:"date" db:"event_date"`
	Time     string `json:"time" db:"event_time"`
}

// Tournament is the aggregate persisted per identifier: metadata, the roster
// in registration order, and at most one bracket (nil until generated).
type Tournament struct {
	ID           uuid.UUID `json:"id"`
	Metadata     Metadata  `json:"metadata"`
	Participants []string  `json:"participants"`
	Bracket      *Bracket  `json:"bracket"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasBracket reports whether a non-empty bracket has been generated. While
// one exists the roster is frozen; clear or regenerate the bracket to edit it.
func (t *Tournament) HasBracket() bool {
	return t.Bracket != nil && len(t.Bracket.Rounds) > 0
}

// Summary is the listing view of a tournament: identifier and metadata only,
// cheap enough to build without touching the bracket record.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}
