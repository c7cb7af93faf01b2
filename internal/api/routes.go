package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/annotations"
	"github.com/JaimeStill/docman/internal/documents"
	"github.com/JaimeStill/docman/internal/folders"
	"github.com/JaimeStill/docman/internal/groups"
	"github.com/JaimeStill/docman/internal/identity"
	"github.com/JaimeStill/docman/internal/tags"
	"github.com/JaimeStill/docman/internal/users"
	"github.com/JaimeStill/docman/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, runtime *Runtime, domain *Domain) {
	adminOnly := identity.RequireAdmin(runtime.Logger)

	usersHandler := users.NewHandler(domain.Users, callerID, adminOnly, runtime.Logger, runtime.Pagination)
	groupsHandler := groups.NewHandler(domain.Groups, runtime.Logger, runtime.Pagination)
	foldersHandler := folders.NewHandler(domain.Folders, runtime.Logger, runtime.Pagination)
	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger, runtime.Pagination, runtime.MaxUploadSize)
	tagsHandler := tags.NewHandler(domain.Tags, runtime.Logger, runtime.Pagination)
	annotationsHandler := annotations.NewHandler(domain.Annotations, runtime.Logger)
	permissionsHandler := access.NewHandler(domain.Access, runtime.Logger)

	groupRoutes := groupsHandler.Routes()
	groupRoutes.Middleware = append(groupRoutes.Middleware, adminOnly)

	routes.Register(
		mux,
		usersHandler.Routes(),
		groupRoutes,
		foldersHandler.Routes(),
		documentsHandler.Routes(),
		tagsHandler.Routes(),
		tagsHandler.DocumentRoutes(),
		annotationsHandler.Routes(),
		permissionsHandler.Routes(),
	)
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	id, err := identity.Require(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return id.UserID, nil
}
