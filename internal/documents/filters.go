package documents

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/query"
)

// Filters narrows document listings.
type Filters struct {
	Name        *string
	ContentType *string
	FolderID    *uuid.UUID
	Root        bool
	TagIDs      []uuid.UUID
}

// FiltersFromQuery reads name, content_type, folder_id and tag (comma
// separated ids). folder_id=root selects documents outside any folder.
// Unparseable ids are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	switch folder := values.Get("folder_id"); folder {
	case "":
	case "root":
		f.Root = true
	default:
		if id, err := uuid.Parse(folder); err == nil {
			f.FolderID = &id
		}
	}

	for _, raw := range strings.Split(values.Get("tag"), ",") {
		if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	return f
}

// Apply adds filter conditions to the query builder. Documents must carry
// every requested tag.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereContains("Name", f.Name).
		WhereContains("ContentType", f.ContentType)

	if f.FolderID != nil {
		b.WhereEquals("FolderID", *f.FolderID)
	}
	if f.Root {
		b.WhereNull("FolderID")
	}

	if len(f.TagIDs) > 0 {
		args := make([]any, 0, len(f.TagIDs)+1)
		for _, id := range f.TagIDs {
			args = append(args, id)
		}
		args = append(args, len(f.TagIDs))

		b.WhereClause(
			`(SELECT COUNT(DISTINCT dt.tag_id) FROM document_tags dt
			WHERE dt.document_id = d.id AND dt.tag_id IN (`+query.Placeholders(len(f.TagIDs))+`)) = $%d`,
			args...)
	}

	return b
}
