package handlers

import (
	"scambait-lab/internal/domain/services"
	"scambait-lab/internal/infrastructure/cache"
	"scambait-lab/internal/infrastructure/database/repository"
	"scambait-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Engage   *EngageHandler
	Sessions *SessionsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Engagement *services.EngagementService
	Reports    *repository.SessionReportRepository
	Cache      *cache.RedisCache
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.Logger),
		Engage:   NewEngageHandler(deps.Engagement, deps.Logger),
		Sessions: NewSessionsHandler(deps.Engagement, deps.Reports, deps.Logger),
	}
}
