package http

import (
	"net/http"

	"github.com/mauv0809/league-inbox/internal/config"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/notifier"
	"github.com/mauv0809/league-inbox/internal/processor"
)

type Server struct {
	Store          league.LeagueStore
	Tally          metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
}
