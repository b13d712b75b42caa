package handlers

import (
	"time"

	"astranode/internal/config"
	"astranode/internal/repos"
	"astranode/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	MarketplaceHandler *MarketplaceHandler
	StudioHandler      *StudioHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	listingRepo := repos.NewListingRepo(db, cfg.StoreTimeout)

	marketSvc := services.NewMarketplaceService(listingRepo, cfg.AllowDemo)
	studioSvc := services.NewStudioService(services.RegexAnalyzer{})
	// Simulated model inference time, matching the hosted demo's pacing.
	studioSvc.Latency = 2 * time.Second

	return &Deps{
		MarketplaceHandler: &MarketplaceHandler{Market: marketSvc},
		StudioHandler:      &StudioHandler{Studio: studioSvc},
	}
}
