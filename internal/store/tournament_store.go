package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhenriksen/bracketeer/internal/bracket"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

// TournamentStore persists one record per tournament identifier. Saves
// overwrite the whole row, so a tournament on disk is always the snapshot a
// single operation produced.
type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

type tournamentRow struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Location     string         `db:"location"`
	EventDate    string         `db:"event_date"`
	EventTime    string         `db:"event_time"`
	Participants string         `db:"participants"`
	Bracket      sql.NullString `db:"bracket"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// Save upserts the full record for the tournament's identifier in a single
// statement. There are no partial updates.
func (s *TournamentStore) Save(ctx context.Context, t *bracket.Tournament) error {
	participants, err := json.Marshal(t.Participants)
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}

	row := tournamentRow{
		ID:           t.ID,
		Name:         t.Metadata.Name,
		Location:     t.Metadata.Location,
		EventDate:    t.Metadata.Date,
		EventTime:    t.Metadata.Time,
		Participants: string(participants),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.Bracket != nil {
		data, err := t.Bracket.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode bracket: %w", err)
		}
		row.Bracket = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, location, event_date, event_time, participants, bracket, created_at, updated_at)
		VALUES (:id, :name, :location, :event_date, :event_time, :participants, :bracket, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			event_date = excluded.event_date,
			event_time = excluded.event_time,
			participants = excluded.participants,
			bracket = excluded.bracket,
			updated_at = excluded.updated_at`, row)
	return err
}

// Get loads the full tournament for an identifier, decoding and validating
// the bracket record if one was generated.
func (s *TournamentStore) Get(ctx context.Context, id string) (*bracket.Tournament, error) {
	var row tournamentRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM tournaments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tournament %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	t := &bracket.Tournament{
		ID: row.ID,
		Metadata: bracket.Metadata{
			Name:     row.Name,
			Location: row.Location,
			Date:     row.EventDate,
			Time:     row.EventTime,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Participants), &t.Participants); err != nil {
		return nil, fmt.Errorf("%w: participants of tournament %s: %v", bracket.ErrMalformedBracket, id, err)
	}
	if row.Bracket.Valid {
		b, err := bracket.Decode([]byte(row.Bracket.String))
		if err != nil {
			return nil, fmt.Errorf("tournament %s: %w", id, err)
		}
		t.Bracket = b
	}
	return t, nil
}

// List returns summaries for every stored tournament, newest first, without
// reading the bracket or roster columns.
func (s *TournamentStore) List(ctx context.Context) ([]bracket.Summary, error) {
	var rows []struct {
		ID        uuid.UUID `db:"id"`
		Name      string    `db:"name"`
		Location  string    `db:"location"`
		EventDate string    `db:"event_date"`
		EventTime string    `db:"event_time"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, name, location, event_date, event_time, created_at FROM tournaments ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	summaries := make([]bracket.Summary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, bracket.Summary{
			ID: r.ID,
			Metadata: bracket.Metadata{
				Name:     r.Name,
				Location: r.Location,
				Date:     r.EventDate,
				Time:     r.EventTime,
			},
			CreatedAt: r.CreatedAt,
		})
	}
	return summaries, nil
}
