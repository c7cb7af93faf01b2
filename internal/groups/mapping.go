package groups

import (
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

var projection = query.NewProjectionMap("public", "groups", "g").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("can_create", "CanCreate").
	Project("can_read", "CanRead").
	Project("can_update", "CanUpdate").
	Project("can_delete", "CanDelete").
	Project("is_admin", "IsAdmin").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = `RETURNING id, name, description, can_create, can_read, can_update, can_delete, is_admin, created_at, updated_at`

func scanGroup(s repository.Scanner) (Group, error) {
	var g Group
	err := s.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.CanCreate,
		&g.CanRead,
		&g.CanUpdate,
		&g.CanDelete,
		&g.IsAdmin,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func scanMember(s repository.Scanner) (Member, error) {
	var m Member
	err := s.Scan(&m.UserID, &m.Username, &m.AddedAt)
	return m, err
}
