package main

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jhenriksen/bracketeer/internal/bracket"
	"github.com/jhenriksen/bracketeer/internal/httputil"
	"github.com/jhenriksen/bracketeer/internal/service"
	"github.com/jhenriksen/bracketeer/internal/store"
	"github.com/jhenriksen/bracketeer/internal/utils"
)

// tournamentDetail is the collaborator-facing view of a tournament: the full
// record plus the derived display data a bracket screen needs.
type tournamentDetail struct {
	*bracket.Tournament
	RoundNames []string `json:"roundNames"`
	Champion   *string  `json:"champion"`
}

func detail(t *bracket.Tournament) tournamentDetail {
	d := tournamentDetail{Tournament: t}
	if t.Bracket != nil {
		d.RoundNames = make([]string, len(t.Bracket.Rounds))
		for r := range t.Bracket.Rounds {
			d.RoundNames[r] = t.Bracket.RoundName(r)
		}
		if champion, ok := t.Bracket.Champion(); ok {
			d.Champion = utils.Ptr(champion)
		}
	}
	return d
}

func writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.NotFound(w, msg, err)
	case errors.Is(err, service.ErrBracketAlreadyGenerated):
		httputil.Conflict(w, err.Error(), err)
	case errors.Is(err, service.ErrDuplicateParticipant),
		errors.Is(err, bracket.ErrInvalidMatch),
		errors.Is(err, bracket.ErrInvalidParticipant):
		httputil.BadRequest(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

func newRouter(tournaments *service.TournamentService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		summaries, err := tournaments.List(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to list tournaments", err)
			return
		}
		httputil.JSON(w, http.StatusOK, summaries)
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var meta bracket.Metadata
		if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		t, err := tournaments.Create(r.Context(), meta)
		if err != nil {
			httputil.InternalServerError(w, "Failed to create tournament", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, detail(t))
	})

	r.Route("/tournaments/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, "Failed to get tournament", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Put("/metadata", func(w http.ResponseWriter, r *http.Request) {
			var meta bracket.Metadata
			if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			t, err := tournaments.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), meta)
			if err != nil {
				writeServiceError(w, "Failed to update metadata", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Post("/participants", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			t, err := tournaments.AddParticipant(r.Context(), chi.URLParam(r, "id"), body.Name)
			if err != nil {
				writeServiceError(w, "Failed to add participant", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Delete("/participants/{name}", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.RemoveParticipant(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"))
			if err != nil {
				writeServiceError(w, "Failed to remove participant", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Post("/bracket", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.GenerateBracket(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, "Failed to generate bracket", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, detail(t))
		})

		r.Post("/bracket/reshuffle", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			var body struct {
				Order []string `json:"order"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			// Randomness lives out here, not in the engine. A missing order
			// means "shuffle for me".
			order := body.Order
			if len(order) == 0 {
				t, err := tournaments.Get(r.Context(), id)
				if err != nil {
					writeServiceError(w, "Failed to get tournament", err)
					return
				}
				order = append(order, t.Participants...)
				rand.Shuffle(len(order), func(i, j int) {
					order[i], order[j] = order[j], order[i]
				})
			}

			t, err := tournaments.ReshuffleAndRegenerate(r.Context(), id, order)
			if err != nil {
				writeServiceError(w, "Failed to reshuffle bracket", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Post("/bracket/reset", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.ResetBracket(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, "Failed to reset bracket", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Delete("/bracket", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.ClearBracket(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, "Failed to clear bracket", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Post("/matches/{round}/{match}/winner", func(w http.ResponseWriter, r *http.Request) {
			roundIndex, err := strconv.Atoi(chi.URLParam(r, "round"))
			if err != nil {
				httputil.BadRequest(w, "Invalid round index", err)
				return
			}
			matchIndex, err := strconv.Atoi(chi.URLParam(r, "match"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match index", err)
				return
			}
			var body struct {
				Winner string `json:"winner"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			t, err := tournaments.SubmitResult(r.Context(), chi.URLParam(r, "id"), roundIndex, matchIndex, body.Winner)
			if err != nil {
				writeServiceError(w, "Failed to submit result", err)
				return
			}
			httputil.JSON(w, http.StatusOK, detail(t))
		})

		r.Get("/champion", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, "Failed to get tournament", err)
				return
			}
			var champion *string
			if t.Bracket != nil {
				if c, ok := t.Bracket.Champion(); ok {
					champion = utils.Ptr(c)
				}
			}
			httputil.JSON(w, http.StatusOK, map[string]*string{"champion": champion})
		})
	})

	return r
}
