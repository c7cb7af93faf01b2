package access

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/identity"
	"github.com/JaimeStill/docman/pkg/decode"
	"github.com/JaimeStill/docman/pkg/handlers"
	"github.com/JaimeStill/docman/pkg/routes"
)

// Handler exposes permission inspection and management over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "permissions"),
	}
}

// Routes returns the permission endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/permissions",
		Description: "Per-resource permission grants",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/accessible", Handler: h.Accessible},
			{Method: "GET", Pattern: "/{kind}/{id}", Handler: h.List},
			{Method: "GET", Pattern: "/{kind}/{id}/me", Handler: h.Mine},
			{Method: "PUT", Pattern: "/{kind}/{id}/users/{userId}", Handler: h.GrantUser},
			{Method: "DELETE", Pattern: "/{kind}/{id}/users/{userId}", Handler: h.RevokeUser},
			{Method: "PUT", Pattern: "/{kind}/{id}/groups/{groupId}", Handler: h.GrantGroup},
			{Method: "DELETE", Pattern: "/{kind}/{id}/groups/{groupId}", Handler: h.RevokeGroup},
		},
	}
}

// Effective is the caller's resolved permission set on a resource.
type Effective struct {
	Ref
	Flags
	Level Level `json:"level"`
}

func (h *Handler) Accessible(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.Require(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	records, err := h.sys.Accessible(r.Context(), caller.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.sys.Authorize(r.Context(), ref, caller.UserID, PermView); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	records, err := h.sys.Permissions(r.Context(), ref)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := h.target(w, r)
	if !ok {
		return
	}

	flags, err := h.sys.Effective(r.Context(), ref, caller.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Effective{Ref: ref, Flags: flags, Level: flags.Level()})
}

func (h *Handler) GrantUser(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := h.target(w, r)
	if !ok {
		return
	}

	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	flags, err := parseGrant(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if !h.manage(w, r, ref, caller.UserID) {
		return
	}

	if err := h.sys.GrantToUser(r.Context(), ref, userID, flags); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeUser(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := h.target(w, r)
	if !ok {
		return
	}

	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if !h.manage(w, r, ref, caller.UserID) {
		return
	}

	if err := h.sys.RevokeForUser(r.Context(), ref, userID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GrantGroup(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := h.target(w, r)
	if !ok {
		return
	}

	groupID, err := uuid.Parse(r.PathValue("groupId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	flags, err := parseGrant(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if !h.manage(w, r, ref, caller.UserID) {
		return
	}

	if err := h.sys.GrantToGroup(r.Context(), ref, groupID, flags); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeGroup(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := h.target(w, r)
	if !ok {
		return
	}

	groupID, err := uuid.Parse(r.PathValue("groupId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if !h.manage(w, r, ref, caller.UserID) {
		return
	}

	if err := h.sys.RevokeForGroup(r.Context(), ref, groupID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// target resolves the caller and the resource named by the path.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (identity.Identity, Ref, bool) {
	caller, err := identity.Require(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return identity.Identity{}, Ref{}, false
	}

	kind, err := ParseKind(r.PathValue("kind"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return identity.Identity{}, Ref{}, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return identity.Identity{}, Ref{}, false
	}

	return caller, Ref{Kind: kind, ID: id}, true
}

// manage requires the caller to be admin, owner, or hold CanShare.
func (h *Handler) manage(w http.ResponseWriter, r *http.Request, ref Ref, callerID uuid.UUID) bool {
	if err := h.sys.Authorize(r.Context(), ref, callerID, PermShare); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return false
	}
	return true
}

// parseGrant accepts either an explicit flag object or {"level": "<name>"}.
func parseGrant(r *http.Request) (Flags, error) {
	body, err := decode.JSON[map[string]any](r.Body)
	if err != nil {
		return Flags{}, err
	}

	if raw, ok := body["level"]; ok {
		if len(body) > 1 {
			return Flags{}, errors.New("level cannot be combined with explicit flags")
		}
		name, ok := raw.(string)
		if !ok {
			return Flags{}, fmt.Errorf("%w: level must be a string", ErrInvalidLevel)
		}
		level, err := ParseLevel(name)
		if err != nil {
			return Flags{}, err
		}
		return level.Flags(), nil
	}

	flags, err := decode.FromMap[Flags](body)
	if err != nil {
		return Flags{}, fmt.Errorf("decode flags: %w", err)
	}
	if !flags.Any() {
		return Flags{}, ErrEmptyGrant
	}
	return flags, nil
}
