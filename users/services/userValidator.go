package services

import (
	"context"
	"regexp"
	"strings"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/users/repositories"
	"invoiceflow-backend/users/requests"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func ValidateUser(req *requests.CreateUserRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		return "Email is required"
	}

	switch req.Role {
	case models.AdminRole, models.FinanceUserRole:
	case models.ProjectManagerRole:
		if len(req.AssignedProjects) == 0 {
			return "Project managers need at least one assigned project"
		}
	case models.VendorRole:
		if req.VendorID == nil || strings.TrimSpace(*req.VendorID) == "" {
			return "Vendor users need a vendor_id"
		}
	default:
		return "Invalid role"
	}
	return ""
}

func ValidateEmailFormat(email string) bool {
	return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

func IsEmailInDB(ctx context.Context, email string, repo repositories.UserRepository) bool {
	user, err := repo.GetUserByEmail(ctx, email)
	return err == nil && user != nil
}

func ValidateEmail(ctx context.Context, email string, repo repositories.UserRepository) string {
	if !ValidateEmailFormat(email) {
		return "Invalid email format"
	}
	if IsEmailInDB(ctx, email, repo) {
		return "Email already exists"
	}
	return ""
}

// NewUserFromRequest builds the account row for a validated request.
func NewUserFromRequest(req *requests.CreateUserRequest) *models.User {
	return &models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Role:             req.Role,
		VendorID:         req.VendorID,
		Department:       req.Department,
		AssignedProjects: req.AssignedProjects,
		Active:           true,
	}
}
