// Package sidebet wires the side-bet module: repository, service,
// handlers, and routes.
package sidebet

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	sidebetservice "github.com/discbaboons/rounds-service/app/modules/sidebet/application"
	sidebethandlers "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/handlers"
	sidebetdb "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/repositories"
	sidebetrouter "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/router"
	settlementmetrics "github.com/discbaboons/rounds-service/internal/observability/metrics/settlement"
)

// Module represents the side-bet module.
type Module struct {
	Repo    sidebetdb.Repository
	Service *sidebetservice.SideBetService
}

// NewModule creates and initializes the side-bet module. The round
// repository supplies round membership for authorization.
func NewModule(
	db *bun.DB,
	rounds rounddb.Repository,
	logger *slog.Logger,
	metrics settlementmetrics.SettlementMetrics,
	tracer trace.Tracer,
) *Module {
	repo := sidebetdb.NewRepository(db)
	service := sidebetservice.NewSideBetService(repo, rounds, logger, metrics, tracer, db)
	return &Module{Repo: repo, Service: service}
}

// Mount attaches the module's HTTP routes.
func (m *Module) Mount(r chi.Router, logger *slog.Logger) {
	sidebetrouter.Mount(r, sidebethandlers.NewHandlers(m.Service, logger))
}
