package api

import (
	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/annotations"
	"github.com/JaimeStill/docman/internal/documents"
	"github.com/JaimeStill/docman/internal/folders"
	"github.com/JaimeStill/docman/internal/groups"
	"github.com/JaimeStill/docman/internal/tags"
	"github.com/JaimeStill/docman/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Access      access.System
	Users       users.System
	Groups      groups.System
	Folders     folders.System
	Documents   documents.System
	Tags        tags.System
	Annotations annotations.System
}

// NewDomain creates all domain systems from the API runtime. The access
// engine is built first; every resource system authorizes through it.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	acl := access.New(access.NewStore(db), runtime.Retry, runtime.Logger)

	return &Domain{
		Access:      acl,
		Users:       users.New(db, runtime.Logger, runtime.Pagination),
		Groups:      groups.New(db, runtime.Logger, runtime.Pagination),
		Folders:     folders.New(folders.NewRepository(db), acl, runtime.Logger, runtime.Pagination),
		Documents:   documents.New(documents.NewRepository(db), runtime.Storage, acl, runtime.Logger, runtime.Pagination),
		Tags:        tags.New(db, acl, runtime.Logger, runtime.Pagination),
		Annotations: annotations.New(db, acl, runtime.Logger),
	}
}
