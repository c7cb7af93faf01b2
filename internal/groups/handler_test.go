package groups_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/groups"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/routes"
)

// stubSystem records membership calls and returns err from every method.
type stubSystem struct {
	groups.System
	err   error
	added []uuid.UUID
}

func (s *stubSystem) Create(ctx context.Context, cmd groups.CreateCommand) (*groups.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &groups.Group{ID: uuid.New(), Name: cmd.Name}, nil
}

func (s *stubSystem) AddMember(ctx context.Context, id, userID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.added = append(s.added, userID)
	return nil
}

func serve(sys groups.System, method, path, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	routes.Register(mux, groups.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}).Routes())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"created", nil, `{"name":"reviewers"}`, http.StatusCreated},
		{"duplicate", groups.ErrDuplicate, `{"name":"reviewers"}`, http.StatusConflict},
		{"name required", groups.ErrNameRequired, `{}`, http.StatusBadRequest},
		{"malformed", nil, `{"name":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&stubSystem{err: tt.err}, http.MethodPost, "/groups", tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestHandler_AddMember(t *testing.T) {
	sys := &stubSystem{}
	userID := uuid.New()

	w := serve(sys, http.MethodPut, "/groups/"+uuid.NewString()+"/members/"+userID.String(), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if len(sys.added) != 1 || sys.added[0] != userID {
		t.Errorf("added = %v, want [%s]", sys.added, userID)
	}

	tests := []struct {
		name   string
		sys    *stubSystem
		path   string
		status int
	}{
		{"bad group id", &stubSystem{}, "/groups/nope/members/" + userID.String(), http.StatusBadRequest},
		{"bad user id", &stubSystem{}, "/groups/" + uuid.NewString() + "/members/nope", http.StatusBadRequest},
		{"unknown user", &stubSystem{err: groups.ErrUserNotFound}, "/groups/" + uuid.NewString() + "/members/" + userID.String(), http.StatusNotFound},
		{"unknown group", &stubSystem{err: groups.ErrNotFound}, "/groups/" + uuid.NewString() + "/members/" + userID.String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := serve(tt.sys, http.MethodPut, tt.path, ""); w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
