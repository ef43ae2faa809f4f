// Package round wires the round settlement module: repository, service,
// handlers, and routes.
package round

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	roundservice "github.com/discbaboons/rounds-service/app/modules/round/application"
	roundhandlers "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/handlers"
	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	roundrouter "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/router"
	settlementmetrics "github.com/discbaboons/rounds-service/internal/observability/metrics/settlement"
)

// Module represents the round module.
type Module struct {
	Repo    rounddb.Repository
	Service roundservice.Service
}

// NewModule creates and initializes the round module. standings may be
// nil until the side-bet module is wired in.
func NewModule(
	db *bun.DB,
	standings roundservice.SideBetStandings,
	logger *slog.Logger,
	metrics settlementmetrics.SettlementMetrics,
	tracer trace.Tracer,
) *Module {
	repo := rounddb.NewRepository(db)
	service := roundservice.NewRoundService(repo, standings, logger, metrics, tracer, db)
	return &Module{Repo: repo, Service: service}
}

// Mount attaches the module's HTTP routes.
func (m *Module) Mount(r chi.Router, logger *slog.Logger) {
	roundrouter.Mount(r, roundhandlers.NewHandlers(m.Service, logger))
}
