package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	UserLocalsKey = "user"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	refreshTokenPrefix = "refresh_token:"
)

var errUnauthenticated = errors.New("authentication required")

// CurrentUser returns the account loaded by ProtectedRoute.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(UserLocalsKey).(*models.User)
	return user, ok && user != nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Cookies("access_token")
}

// ProtectedRoute verifies the access token (Authorization header or cookie),
// falls back to a single-use refresh token kept in Redis and stores the
// active user in Locals.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(ctx, c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
				"error":   err.Error(),
			})
		}

		c.Locals(UserLocalsKey, user)
		return c.Next()
	}
}

func resolveUser(ctx *AppContext, c *fiber.Ctx) (*models.User, error) {
	payload, err := authenticate(ctx, c)
	if err != nil {
		config.Logger.Debug("Request not authenticated", zap.Error(err))
		return nil, errUnauthenticated
	}

	user, err := ctx.Users.GetUserByID(c.Context(), payload.UserID)
	if err != nil {
		config.Logger.Warn("Token user could not be loaded",
			zap.String("user_id", payload.UserID.String()),
			zap.Error(err))
		return nil, errors.New("account not found or disabled")
	}
	return user, nil
}

func authenticate(ctx *AppContext, c *fiber.Ctx) (*token.Payload, error) {
	if accessToken := bearerToken(c); accessToken != "" {
		payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
		if err == nil {
			return payload, nil
		}
		config.Logger.Debug("Invalid access token encountered", zap.Error(err))
	}

	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" || ctx.RedisClient == nil {
		return nil, errUnauthenticated
	}
	return rotateRefreshToken(ctx, c, refreshToken)
}

// rotateRefreshToken swaps a valid refresh token for a new access/refresh pair.
func rotateRefreshToken(ctx *AppContext, c *fiber.Ctx, refreshToken string) (*token.Payload, error) {
	refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := ctx.RedisClient.GetDel(ctx.Ctx, refreshTokenPrefix+refreshToken).Result()
	if err == redis.Nil {
		config.Logger.Warn("Refresh token not found in Redis",
			zap.String("payload_id", refreshPayload.ID.String()),
			zap.String("email", refreshPayload.Email))
		return nil, errUnauthenticated
	} else if err != nil {
		return nil, err
	}
	if userID != refreshPayload.UserID.String() {
		return nil, errUnauthenticated
	}

	accessToken, accessPayload, err := ctx.PasetoMaker.CreateToken(refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := IssueRefreshToken(ctx, refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role)
	if err != nil {
		return nil, err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    newRefreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return accessPayload, nil
}

// IssueRefreshToken creates a refresh token and registers it in Redis.
func IssueRefreshToken(ctx *AppContext, userID uuid.UUID, email, role string) (string, error) {
	refreshToken, _, err := ctx.PasetoMaker.CreateToken(userID, email, role, RefreshTokenTTL)
	if err != nil {
		return "", err
	}
	if err := ctx.RedisClient.Set(ctx.Ctx, refreshTokenPrefix+refreshToken, userID.String(), RefreshTokenTTL).Err(); err != nil {
		return "", err
	}
	return refreshToken, nil
}

// RequireRoles rejects users whose role is not listed.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}
		if !user.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden",
				"error":   "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

func RequirePermission(permission models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}
		if !user.HasPermission(permission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden",
				"error":   "Missing permission " + string(permission),
			})
		}
		return c.Next()
	}
}

// AdminOrCronSecret lets scheduled jobs call an admin endpoint with the
// X-Cron-Secret header instead of a user session.
func AdminOrCronSecret(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret := c.Get("X-Cron-Secret"); secret != "" {
			if ctx.CronSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(ctx.CronSecret)) != 1 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "Unauthorized",
					"error":   "Invalid cron secret",
				})
			}
			return c.Next()
		}

		user, err := resolveUser(ctx, c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
				"error":   err.Error(),
			})
		}
		if !user.HasRole(models.AdminRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden",
				"error":   "Insufficient permissions",
			})
		}

		c.Locals(UserLocalsKey, user)
		return c.Next()
	}
}
