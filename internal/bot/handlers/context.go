package handlers

import (
	"grantify/internal/config"
	"grantify/internal/search"
	"grantify/internal/storage/postgres"
	"grantify/internal/storage/redis"

	"go.uber.org/zap"
)

// Context contains deps for all handlers
type Context struct {
	Store  *postgres.Store
	Cache  *redis.Cache
	Search *search.Service
	Config *config.Config
	Logger *zap.Logger
}
