package services

import (
	"testing"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/users/requests"
)

func TestValidateUser(t *testing.T) {
	vendorID := "V-1"
	tests := []struct {
		name string
		req  requests.CreateUserRequest
		want string
	}{
		{"admin", requests.CreateUserRequest{Name: "A", Email: "a@example.com", Role: models.AdminRole}, ""},
		{"missing name", requests.CreateUserRequest{Email: "a@example.com", Role: models.AdminRole}, "Name is required"},
		{"missing email", requests.CreateUserRequest{Name: "A", Role: models.AdminRole}, "Email is required"},
		{"bad role", requests.CreateUserRequest{Name: "A", Email: "a@example.com", Role: "OWNER"}, "Invalid role"},
		{"pm without projects", requests.CreateUserRequest{Name: "P", Email: "p@example.com", Role: models.ProjectManagerRole}, "Project managers need at least one assigned project"},
		{"vendor without id", requests.CreateUserRequest{Name: "V", Email: "v@example.com", Role: models.VendorRole}, "Vendor users need a vendor_id"},
		{"vendor", requests.CreateUserRequest{Name: "V", Email: "v@example.com", Role: models.VendorRole, VendorID: &vendorID}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUser(&tt.req); got != tt.want {
				t.Errorf("ValidateUser() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateEmailFormat(t *testing.T) {
	for email, want := range map[string]bool{
		"pm@example.com":      true,
		" Finance@Example.IO": true,
		"no-at-sign":          false,
		"a@b":                 false,
	} {
		if got := ValidateEmailFormat(email); got != want {
			t.Errorf("ValidateEmailFormat(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestNewUserFromRequestNormalisesEmail(t *testing.T) {
	user := NewUserFromRequest(&requests.CreateUserRequest{Name: " Priya ", Email: " PM@Example.com ", Role: models.ProjectManagerRole, AssignedProjects: []string{"PRJ-1"}})
	if user.Email != "pm@example.com" || user.Name != "Priya" || !user.Active {
		t.Errorf("unexpected user %+v", user)
	}
	if !user.IsAssignedTo("PRJ-1") {
		t.Errorf("assigned projects not copied: %v", user.AssignedProjects)
	}
}
