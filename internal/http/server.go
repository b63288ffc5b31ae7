package http

import (
	"net/http"

	"github.com/mauv0809/league-inbox/internal/config"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/notifier"
	"github.com/mauv0809/league-inbox/internal/processor"
)

// NewServer wires the operational endpoints. notifier may be nil when Slack
// is not configured.
func NewServer(store league.LeagueStore, tally metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor) *Server {
	server := &Server{
		Store:          store,
		Tally:          tally,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /process", Chain(s.ProcessHandler(), paramsMiddleware))
	s.Router.Handle("GET /results", Chain(s.ListResultsHandler(), paramsMiddleware))
	s.Router.Handle("GET /fixtures/remaining", Chain(s.RemainingFixturesHandler(), paramsMiddleware))
	s.Router.Handle("GET /fixtures/{id}/results", Chain(s.FixtureResultsHandler(), paramsMiddleware))
	s.Router.Handle("GET /standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("POST /standings/announce", Chain(s.AnnounceStandingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
