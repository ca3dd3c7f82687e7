package middleware

import (
	"context"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/token"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserLoader resolves the account behind a verified token.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AppContext bundles all dependencies
type AppContext struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
	Users       UserLoader
	CronSecret  string
}
