package folders

import (
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

var projection = query.NewProjectionMap("public", "folders", "f").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("parent_id", "ParentID").
	Project("owner_id", "OwnerID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = `RETURNING id, name, description, parent_id, owner_id, created_at, updated_at`

func scanFolder(s repository.Scanner) (Folder, error) {
	var f Folder
	err := s.Scan(&f.ID, &f.Name, &f.Description, &f.ParentID, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}
