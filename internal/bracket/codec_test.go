package bracket

import (
	"testing"

	"github.com/jhenriksen/bracketeer/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := Generate([]string{"A", "B", "C", "D", "E"})
	require.NoError(t, b.DeclareWinner(0, 0, "A"))
	require.NoError(t, b.DeclareWinner(0, 1, "D"))

	data, err := b.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, b, decoded)
}

func TestDecodeEmptyBracket(t *testing.T) {
	decoded, err := Decode([]byte(`{"rounds":[]}`))
	require.NoError(t, err)
	assert.Empty(t, decoded.Rounds)
}

func TestDecodeRejectsNonHalvingRounds(t *testing.T) {
	// Round 1 with 3 matches after a round of 4.
	b := Generate(names(8))
	b.Rounds[1].Matches = append(b.Rounds[1].Matches, Match{Round: 1, Index: 2})
	data, err := b.Encode()
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformedBracket)
}

func TestDecodeRejectsOversizedFinal(t *testing.T) {
	b := Generate(names(4))
	b.Rounds[1].Matches = append(b.Rounds[1].Matches, Match{Round: 1, Index: 1})
	data, err := b.Encode()
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformedBracket)
}

func TestDecodeRejectsForeignWinner(t *testing.T) {
	b := Generate([]string{"A", "B"})
	b.Rounds[0].Matches[0].Winner = utils.Ptr("Z")
	b.Rounds[0].Matches[0].Complete = true
	data, err := b.Encode()
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformedBracket)
}

func TestDecodeRejectsCompletionMismatch(t *testing.T) {
	b := Generate([]string{"A", "B"})
	b.Rounds[0].Matches[0].Complete = true
	data, err := b.Encode()
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformedBracket)
}

func TestDecodeRejectsMisplacedMatch(t *testing.T) {
	b := Generate(names(4))
	b.Rounds[0].Matches[1].Index = 5
	data, err := b.Encode()
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformedBracket)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"rounds":[],"seeds":[1,2]}`))
	assert.ErrorIs(t, err, ErrMalformedBracket)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`"not a bracket"`))
	assert.ErrorIs(t, err, ErrMalformedBracket)
}
