package bracket

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidMatch       = errors.New("invalid match")
	ErrInvalidParticipant = errors.New("invalid participant")
)

// Bracket owns the rounds of a single elimination tournament. The shape is
// fixed at generation time; only winners, completion flags and propagated
// slots change afterwards.
type Bracket struct {
	Rounds []Round `json:"rounds"`
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8
// and so on. A single participant still gets a bracket of size 2.
func bracketSize(count int) int {
	if count <= 1 {
		return 2
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// Generate builds a bracket from the roster in the given order: slots of the
// first round fill sequentially, leftovers become byes, and bye matches are
// resolved immediately with their winner advanced. An empty roster yields a
// bracket with zero rounds. Generation is deterministic; shuffling the order
// is the caller's job.
func Generate(participants []string) *Bracket {
	b := &Bracket{}
	if len(participants) == 0 {
		return b
	}

	size := bracketSize(len(participants))
	totalRounds := int(math.Log2(float64(size)))

	matchesInRound := size / 2
	for r := 0; r < totalRounds; r++ {
		matches := make([]Match, matchesInRound)
		for i := range matches {
			matches[i] = Match{Round: r, Index: i}
		}
		b.Rounds = append(b.Rounds, Round{Matches: matches})
		matchesInRound /= 2
	}

	for pos := 0; pos < size; pos++ {
		name := Bye
		if pos < len(participants) {
			name = participants[pos]
		}
		m := &b.Rounds[0].Matches[pos/2]
		m.setSlot(pos%2, name)
		if name == Bye {
			m.IsBye = true
		}
	}

	// Byes are structural, so they resolve at generation time.
	for i := range b.Rounds[0].Matches {
		b.autoResolve(0, i)
	}

	return b
}

// DeclareWinner records the winner of the match at (roundIndex, matchIndex)
// and advances it into the successor slot. Re-declaring a different winner is
// allowed: the previous winner is displaced from the successor chain and any
// downstream decision that depended on it is cleared.
func (b *Bracket) DeclareWinner(roundIndex, matchIndex int, name string) error {
	if roundIndex < 0 || roundIndex >= len(b.Rounds) {
		return fmt.Errorf("%w: round %d out of range", ErrInvalidMatch, roundIndex)
	}
	if matchIndex < 0 || matchIndex >= len(b.Rounds[roundIndex].Matches) {
		return fmt.Errorf("%w: match %d out of range in round %d", ErrInvalidMatch, matchIndex, roundIndex)
	}

	m := &b.Rounds[roundIndex].Matches[matchIndex]
	if m.IsBye {
		return fmt.Errorf("%w: match %d of round %d was decided by a bye", ErrInvalidParticipant, matchIndex, roundIndex)
	}
	if m.Slot0 == nil || m.Slot1 == nil {
		return fmt.Errorf("%w: both contestants of match %d in round %d are not known yet", ErrInvalidParticipant, matchIndex, roundIndex)
	}
	if !m.HasParticipant(name) {
		return fmt.Errorf("%w: %q is not part of match %d in round %d", ErrInvalidParticipant, name, matchIndex, roundIndex)
	}
	if m.IsWinner(name) {
		return nil
	}

	m.Winner = &name
	m.Complete = true
	b.advance(roundIndex, matchIndex, name)
	return nil
}

// Champion returns the winner of the final match, if decided. Absence is a
// valid steady state, not an error.
func (b *Bracket) Champion() (string, bool) {
	if len(b.Rounds) == 0 {
		return "", false
	}
	final := b.Rounds[len(b.Rounds)-1].Matches[0]
	if final.Winner == nil {
		return "", false
	}
	return *final.Winner, true
}

// Reset clears every recorded result while keeping the generated shape.
// First-round slots stay as generated, later rounds empty out, and bye
// matches resolve again exactly as they did at generation time.
func (b *Bracket) Reset() {
	for r := range b.Rounds {
		for i := range b.Rounds[r].Matches {
			m := &b.Rounds[r].Matches[i]
			m.Winner = nil
			m.Complete = false
			if r > 0 {
				m.Slot0 = nil
				m.Slot1 = nil
				m.IsBye = false
			}
		}
	}
	if len(b.Rounds) > 0 {
		for i := range b.Rounds[0].Matches {
			b.autoResolve(0, i)
		}
	}
}

// RoundName returns the display label for a round, counting from the final
// backwards.
func (b *Bracket) RoundName(round int) string {
	switch len(b.Rounds) - 1 - round {
	case 0:
		return "FINALS"
	case 1:
		return "SEMI-FINALS"
	case 2:
		return "QUARTER-FINALS"
	default:
		return fmt.Sprintf("ROUND %d", round+1)
	}
}

// advance writes name into the successor slot of match (r, i). A displaced
// previous occupant invalidates any downstream decision that propagated it,
// and a successor facing a bye resolves on the spot.
func (b *Bracket) advance(r, i int, name string) {
	if r+1 >= len(b.Rounds) {
		return
	}
	si, slot := i/2, i%2
	succ := &b.Rounds[r+1].Matches[si]

	displaced := succ.slot(slot)
	if displaced != nil && *displaced == name {
		return
	}
	succ.setSlot(slot, name)
	if name == Bye {
		succ.IsBye = true
	}

	if displaced != nil && succ.Winner != nil && *succ.Winner == *displaced {
		b.invalidate(r+1, si)
	}

	b.autoResolve(r+1, si)
}

// autoResolve decides a match outright when the bye marker occupies one of
// its filled slots. An all-bye match has no winner but still passes the bye
// up, so the next round sees it.
func (b *Bracket) autoResolve(r, i int) {
	m := &b.Rounds[r].Matches[i]
	if m.Winner != nil || m.Slot0 == nil || m.Slot1 == nil {
		return
	}
	switch {
	case *m.Slot0 == Bye && *m.Slot1 == Bye:
		b.advance(r, i, Bye)
	case *m.Slot0 == Bye:
		m.Winner = m.Slot1
		m.Complete = true
		b.advance(r, i, *m.Slot1)
	case *m.Slot1 == Bye:
		m.Winner = m.Slot0
		m.Complete = true
		b.advance(r, i, *m.Slot0)
	}
}

// invalidate clears the decision of match (r, i) because the participant it
// depended on no longer arrives from the previous round, then walks the
// successor chain removing the stale winner wherever it was propagated.
func (b *Bracket) invalidate(r, i int) {
	m := &b.Rounds[r].Matches[i]
	if m.Winner == nil {
		return
	}
	stale := *m.Winner
	m.Winner = nil
	m.Complete = false

	if r+1 >= len(b.Rounds) {
		return
	}
	si, slot := i/2, i%2
	succ := &b.Rounds[r+1].Matches[si]
	if cur := succ.slot(slot); cur != nil && *cur == stale {
		succ.clearSlot(slot)
		if succ.Winner != nil && *succ.Winner == stale {
			b.invalidate(r+1, si)
		}
	}
}
