package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhenriksen/bracketeer/internal/bracket"
	"github.com/jhenriksen/bracketeer/internal/store"
)

var (
	ErrBracketAlreadyGenerated = errors.New("bracket already generated")
	ErrDuplicateParticipant    = errors.New("participant already registered")
)

// TournamentService owns all tournament mutations. Every operation that
// changes state saves the full record before returning, so durable storage is
// never more than one failed write behind memory.
type TournamentService struct {
	store *store.TournamentStore
}

func NewTournamentService(store *store.TournamentStore) *TournamentService {
	return &TournamentService{store: store}
}

func (s *TournamentService) save(ctx context.Context, t *bracket.Tournament) error {
	t.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, t)
}

// Create registers a new tournament with a fresh identifier, an empty roster
// and no bracket.
func (s *TournamentService) Create(ctx context.Context, meta bracket.Metadata) (*bracket.Tournament, error) {
	t := &bracket.Tournament{
		ID:        uuid.New(),
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TournamentService) Get(ctx context.Context, id string) (*bracket.Tournament, error) {
	return s.store.Get(ctx, id)
}

func (s *TournamentService) List(ctx context.Context) ([]bracket.Summary, error) {
	return s.store.List(ctx)
}

// UpdateMetadata replaces the descriptive fields. Metadata is editable at any
// time, bracket or not.
func (s *TournamentService) UpdateMetadata(ctx context.Context, id string, meta bracket.Metadata) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Metadata = meta
	return t, s.save(ctx, t)
}

// AddParticipant appends a name to the roster. Names must be unique, not
// empty and not the reserved bye marker. The roster is frozen while a
// generated bracket exists.
func (s *TournamentService) AddParticipant(ctx context.Context, id, name string) (*bracket.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == bracket.Bye {
		return nil, fmt.Errorf("%w: name %q is reserved", bracket.ErrInvalidParticipant, name)
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.HasBracket() {
		return nil, ErrBracketAlreadyGenerated
	}
	if slices.Contains(t.Participants, name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
	}

	t.Participants = append(t.Participants, name)
	return t, s.save(ctx, t)
}

// RemoveParticipant drops a name from the roster, under the same guard as
// AddParticipant.
func (s *TournamentService) RemoveParticipant(ctx context.Context, id, name string) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.HasBracket() {
		return nil, ErrBracketAlreadyGenerated
	}
	i := slices.Index(t.Participants, name)
	if i < 0 {
		return nil, fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
	}

	t.Participants = slices.Delete(t.Participants, i, i+1)
	return t, s.save(ctx, t)
}

// GenerateBracket builds a bracket over the roster in registration order,
// replacing any existing bracket wholesale.
func (s *TournamentService) GenerateBracket(ctx context.Context, id string) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Bracket = bracket.Generate(t.Participants)
	return t, s.save(ctx, t)
}

// ReshuffleAndRegenerate regenerates the bracket over a caller-supplied
// permutation of the roster. Randomizing the order is the caller's concern;
// the engine itself stays deterministic.
func (s *TournamentService) ReshuffleAndRegenerate(ctx context.Context, id string, order []string) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isPermutation(t.Participants, order) {
		return nil, fmt.Errorf("%w: order is not a permutation of the roster", bracket.ErrInvalidParticipant)
	}

	t.Participants = slices.Clone(order)
	t.Bracket = bracket.Generate(t.Participants)
	return t, s.save(ctx, t)
}

// ResetBracket clears every recorded result, keeping the generated shape and
// re-resolving byes. A tournament without a bracket is left untouched.
func (s *TournamentService) ResetBracket(ctx context.Context, id string) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Bracket != nil {
		t.Bracket.Reset()
	}
	return t, s.save(ctx, t)
}

// ClearBracket discards the bracket entirely, unfreezing the roster.
func (s *TournamentService) ClearBracket(ctx context.Context, id string) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Bracket = nil
	return t, s.save(ctx, t)
}

// SubmitResult records a match winner and persists the advanced bracket. On
// failure nothing is applied or saved.
func (s *TournamentService) SubmitResult(ctx context.Context, id string, roundIndex, matchIndex int, winner string) (*bracket.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Bracket == nil {
		return nil, fmt.Errorf("%w: no bracket generated", bracket.ErrInvalidMatch)
	}
	if err := t.Bracket.DeclareWinner(roundIndex, matchIndex, winner); err != nil {
		return nil, err
	}
	return t, s.save(ctx, t)
}

func isPermutation(roster, order []string) bool {
	if len(roster) != len(order) {
		return false
	}
	a := slices.Clone(roster)
	b := slices.Clone(order)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
