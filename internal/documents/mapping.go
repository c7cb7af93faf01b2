package documents

import (
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

var projection = query.NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("checksum", "Checksum").
	Project("storage_key", "StorageKey").
	Project("folder_id", "FolderID").
	Project("owner_id", "OwnerID").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, name, description, filename, content_type, size_bytes, page_count,
	checksum, storage_key, folder_id, owner_id, version, created_at, updated_at`

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.Checksum,
		&d.StorageKey,
		&d.FolderID,
		&d.OwnerID,
		&d.Version,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}
