package controllers

import (
	"errors"

	"invoiceflow-backend/config"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/users/repositories"
	"invoiceflow-backend/users/requests"
	"invoiceflow-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserController struct {
	UserRepo repositories.UserRepository
}

func (uc *UserController) GetCurrentUser(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"user":        user,
		"permissions": user.Permissions(),
	})
}

func (uc *UserController) RetrieveSingleUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID",
			"error":   err.Error(),
		})
	}

	user, err := uc.UserRepo.GetUserByID(c.Context(), id)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) || errors.Is(err, repositories.ErrUserDisabled) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Error retrieving user",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User retrieved",
		"user":    user,
	})
}

func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req requests.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if validationError := services.ValidateUser(&req); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation error: " + validationError,
			"error":   validationError,
		})
	}
	if emailError := services.ValidateEmail(c.Context(), req.Email, uc.UserRepo); emailError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation error: " + emailError,
			"error":   emailError,
		})
	}

	created, err := uc.UserRepo.CreateUser(c.Context(), services.NewUserFromRequest(&req))
	if err != nil {
		config.Logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create user",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("User created",
		zap.String("user_id", created.ID.String()),
		zap.String("role", string(created.Role)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created",
		"user":    created,
	})
}
