package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-inbox/internal/league"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ProcessHandler runs one poll cycle immediately.
func (s *Server) ProcessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r) || s.Processor.DryRun()
		log.Info("Starting on-demand poll", "dry_run", isDryRun)

		summary, err := s.Processor.Poll(r.Context(), isDryRun)
		if err != nil {
			log.Error("On-demand poll failed", "error", err)
			http.Error(w, "Failed to poll mailbox", http.StatusBadGateway)
			return
		}
		writeJSON(w, summary)
	}
}

func (s *Server) ListResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchTypeID, ok := matchTypeParam(w, r)
		if !ok {
			return
		}
		results, err := s.Store.ListResults(r.Context(), matchTypeID)
		if err != nil {
			log.Error("Failed to list results", "error", err, "match_type", matchTypeID)
			http.Error(w, "Failed to list results", http.StatusInternalServerError)
			return
		}
		if results == nil {
			results = []league.Result{}
		}
		writeJSON(w, results)
	}
}

func (s *Server) RemainingFixturesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchTypeID, ok := matchTypeParam(w, r)
		if !ok {
			return
		}
		fixtures, err := s.Store.RemainingFixtures(r.Context(), matchTypeID)
		if err != nil {
			log.Error("Failed to list remaining fixtures", "error", err, "match_type", matchTypeID)
			http.Error(w, "Failed to list fixtures", http.StatusInternalServerError)
			return
		}
		if fixtures == nil {
			fixtures = []league.Fixture{}
		}
		writeJSON(w, fixtures)
	}
}

// FixtureResultsHandler lists the result rows stored against one fixture.
func (s *Server) FixtureResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtureID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || fixtureID <= 0 {
			http.Error(w, "fixture id must be a positive integer", http.StatusBadRequest)
			return
		}
		results, err := s.Store.ResultsForFixture(r.Context(), fixtureID)
		if err != nil {
			log.Error("Failed to list fixture results", "error", err, "fixture", fixtureID)
			http.Error(w, "Failed to list results", http.StatusInternalServerError)
			return
		}
		if results == nil {
			results = []league.Result{}
		}
		writeJSON(w, results)
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchTypeID, ok := matchTypeParam(w, r)
		if !ok {
			return
		}
		standings, err := s.Store.Standings(r.Context(), matchTypeID)
		if err != nil {
			log.Error("Failed to compute standings", "error", err, "match_type", matchTypeID)
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			return
		}
		if standings == nil {
			standings = []league.Standing{}
		}
		writeJSON(w, standings)
	}
}

// AnnounceStandingsHandler posts the current table of a match type to Slack.
func (s *Server) AnnounceStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Notifier == nil {
			http.Error(w, "Slack notifications are not configured", http.StatusServiceUnavailable)
			return
		}
		matchTypeID, ok := matchTypeParam(w, r)
		if !ok {
			return
		}
		matchType, err := s.Store.MatchTypeByID(r.Context(), matchTypeID)
		if errors.Is(err, league.ErrMatchTypeNotFound) {
			http.Error(w, "Unknown match type", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Failed to load match type", "error", err, "match_type", matchTypeID)
			http.Error(w, "Failed to load match type", http.StatusInternalServerError)
			return
		}
		standings, err := s.Store.Standings(r.Context(), matchTypeID)
		if err != nil {
			log.Error("Failed to compute standings", "error", err, "match_type", matchTypeID)
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			return
		}
		if err := s.Notifier.SendStandings(r.Context(), matchType, standings, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to send standings", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Standings for %s sent!", matchType.Title)
	}
}

// StatsHandler returns the persistent outcome tally.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Tally.GetAll()
		if err != nil {
			log.Error("Failed to read stats", "error", err)
			http.Error(w, "Failed to read stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stats)
	}
}

func matchTypeParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("match_type")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "match_type must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}
