package requests

import (
	"invoiceflow-backend/db/models"
)

type CreateUserRequest struct {
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Role             models.Role `json:"role"`
	VendorID         *string     `json:"vendor_id"`
	Department       *string     `json:"department"`
	AssignedProjects []string    `json:"assigned_projects"`
}
