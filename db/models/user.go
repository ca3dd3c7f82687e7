package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	AdminRole          Role = "ADMIN"
	ProjectManagerRole Role = "PROJECT_MANAGER"
	FinanceUserRole    Role = "FINANCE_USER"
	VendorRole         Role = "VENDOR"
)

type Permission string

const (
	UploadDocumentPermission    Permission = "UPLOAD_DOCUMENT"
	DeleteAnyDocumentPermission Permission = "DELETE_ANY_DOCUMENT"
	ManageRateCardsPermission   Permission = "MANAGE_RATE_CARDS"
	ApproveInvoicePermission    Permission = "APPROVE_INVOICE"
	SendRemindersPermission     Permission = "SEND_REMINDERS"
)

var rolePermissions = map[Role][]Permission{
	AdminRole: {
		UploadDocumentPermission,
		DeleteAnyDocumentPermission,
		ManageRateCardsPermission,
		ApproveInvoicePermission,
		SendRemindersPermission,
	},
	ProjectManagerRole: {UploadDocumentPermission, ApproveInvoicePermission},
	FinanceUserRole:    {UploadDocumentPermission, ApproveInvoicePermission},
	VendorRole:         {UploadDocumentPermission},
}

// SystemUserName is recorded on audit entries written by background jobs.
const SystemUserName = "system"

// User represents system users with role-based access
type User struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primary_key;" json:"id"`
	Name             string                      `gorm:"not null" json:"name"`
	Email            string                      `gorm:"unique;not null" json:"email"`
	Role             Role                        `gorm:"type:varchar(30);not null;index" json:"role"`
	VendorID         *string                     `gorm:"index" json:"vendor_id"`
	Department       *string                     `json:"department"`
	AssignedProjects datatypes.JSONSlice[string] `json:"assigned_projects"`
	Active           bool                        `gorm:"default:true" json:"active"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName is what the audit trail records for this user.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) HasRole(roles ...Role) bool {
	return slices.Contains(roles, u.Role)
}

func (u *User) HasPermission(p Permission) bool {
	return slices.Contains(rolePermissions[u.Role], p)
}

// Permissions lists what the user's role grants.
func (u *User) Permissions() []Permission {
	return slices.Clone(rolePermissions[u.Role])
}

func (u *User) IsAssignedTo(project string) bool {
	return slices.Contains([]string(u.AssignedProjects), project)
}
