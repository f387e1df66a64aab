package bracket

// Bye occupies roster slots left over after the field is padded up to a
// power of two. It is a reserved name: the service refuses to register a
// participant called "BYE".
const Bye = "BYE"

// Match represents a single bracket cell. Slots are nil until a participant
// (or the bye marker) occupies them.
type Match struct {
	Round    int     `json:"round"`
	Index    int     `json:"index"`
	Slot0    *string `json:"slot0"`
	Slot1    *string `json:"slot1"`
	Winner   *string `json:"winner"`
	IsBye    bool    `json:"isBye"`
	Complete bool    `json:"complete"`
}

func (m *Match) slot(i int) *string {
	if i == 0 {
		return m.Slot0
	}
	return m.Slot1
}

func (m *Match) setSlot(i int, name string) {
	if i == 0 {
		m.Slot0 = &name
	} else {
		m.Slot1 = &name
	}
}

func (m *Match) clearSlot(i int) {
	if i == 0 {
		m.Slot0 = nil
	} else {
		m.Slot1 = nil
	}
}

// HasParticipant reports whether name currently occupies one of the match's
// two slots.
func (m *Match) HasParticipant(name string) bool {
	return (m.Slot0 != nil && *m.Slot0 == name) || (m.Slot1 != nil && *m.Slot1 == name)
}

// IsWinner reports whether name has been recorded as this match's winner.
func (m *Match) IsWinner(name string) bool {
	return m.Complete && m.Winner != nil && *m.Winner == name
}

// Round is an ordered sequence of matches. The first round holds half the
// bracket size; every later round holds half of its predecessor, down to the
// final with a single match.
type Round struct {
	Matches []Match `json:"matches"`
}
