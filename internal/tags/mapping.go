package tags

import (
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

var projection = query.NewProjectionMap("public", "tags", "t").
	Project("id", "ID").
	Project("name", "Name").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Name"}

func scanTag(s repository.Scanner) (Tag, error) {
	var t Tag
	err := s.Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, err
}
