package services

import (
	"strings"

	"invoiceflow-backend/db/models"
)

// CanUserSeeInvoice applies the role rules for reading an invoice and
// anything attached to it.
func CanUserSeeInvoice(user *models.User, invoice *models.Invoice) bool {
	if user == nil || invoice == nil {
		return false
	}

	switch user.Role {
	case models.AdminRole, models.FinanceUserRole:
		return true
	case models.ProjectManagerRole:
		return user.IsAssignedTo(invoice.Project)
	case models.VendorRole:
		if invoice.SubmittedByUserID != nil && *invoice.SubmittedByUserID == user.ID {
			return true
		}
		if invoice.VendorID != nil && user.VendorID != nil && *invoice.VendorID == *user.VendorID {
			return true
		}
		return invoice.VendorName != "" && strings.EqualFold(invoice.VendorName, user.Name)
	default:
		return false
	}
}
