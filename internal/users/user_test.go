package users_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/JaimeStill/docman/internal/users"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    users.Role
		wantErr bool
	}{
		{"Admin", users.RoleAdmin, false},
		{"User", users.RoleUser, false},
		{"admin", "", true},
		{"Administrator", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := users.ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, users.ErrInvalidRole) {
				t.Errorf("ParseRole(%q) error = %v, want ErrInvalidRole", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRole_IsAdmin(t *testing.T) {
	if !users.RoleAdmin.IsAdmin() {
		t.Error("RoleAdmin.IsAdmin() = false")
	}
	if users.RoleUser.IsAdmin() {
		t.Error("RoleUser.IsAdmin() = true")
	}
	if users.Role("ADMIN").IsAdmin() {
		t.Error("unparsed role variants must not be admin")
	}
}

func TestCreateCommand_Validate(t *testing.T) {
	cmd := users.CreateCommand{Username: "alice"}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cmd.Role != users.RoleUser {
		t.Errorf("Role = %q, want %q", cmd.Role, users.RoleUser)
	}

	missing := users.CreateCommand{}
	if err := missing.Validate(); !errors.Is(err, users.ErrUsernameRequired) {
		t.Errorf("Validate() error = %v, want ErrUsernameRequired", err)
	}

	bad := users.CreateCommand{Username: "bob", Role: "root"}
	if err := bad.Validate(); !errors.Is(err, users.ErrInvalidRole) {
		t.Errorf("Validate() error = %v, want ErrInvalidRole", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{users.ErrNotFound, http.StatusNotFound},
		{users.ErrDuplicate, http.StatusConflict},
		{users.ErrInvalidRole, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := users.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
