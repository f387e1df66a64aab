package bracket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedBracket = errors.New("malformed bracket")

// Encode serializes the bracket to its persisted JSON record.
func (b *Bracket) Encode() ([]byte, error) {
	return json.Marshal(b)
}

// Decode parses a persisted bracket record. The decoder is strict: unknown
// fields are rejected and the structural invariants are validated, so a
// record that does not describe a well-formed bracket never loads.
func Decode(data []byte) (*Bracket, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var b Bracket
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBracket, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the structural invariants of a bracket: round sizes halve
// down to a single final match, every match sits where its recorded
// coordinates say, a recorded winner occupies one of its own slots, and the
// completion flag agrees with the winner slot.
func (b *Bracket) Validate() error {
	if len(b.Rounds) == 0 {
		return nil
	}
	if n := len(b.Rounds[len(b.Rounds)-1].Matches); n != 1 {
		return fmt.Errorf("%w: final round has %d matches, want 1", ErrMalformedBracket, n)
	}

	for r := range b.Rounds {
		matches := b.Rounds[r].Matches
		if r > 0 && len(b.Rounds[r-1].Matches) != 2*len(matches) {
			return fmt.Errorf("%w: round %d has %d matches after a round of %d",
				ErrMalformedBracket, r, len(matches), len(b.Rounds[r-1].Matches))
		}
		for i := range matches {
			m := &matches[i]
			if m.Round != r || m.Index != i {
				return fmt.Errorf("%w: match recorded at (%d, %d) sits at (%d, %d)",
					ErrMalformedBracket, m.Round, m.Index, r, i)
			}
			if m.Complete != (m.Winner != nil) {
				return fmt.Errorf("%w: completion flag of match %d in round %d disagrees with its winner",
					ErrMalformedBracket, i, r)
			}
			if m.Winner != nil && !m.HasParticipant(*m.Winner) {
				return fmt.Errorf("%w: winner %q of match %d in round %d is not one of its slots",
					ErrMalformedBracket, *m.Winner, i, r)
			}
		}
	}
	return nil
}
