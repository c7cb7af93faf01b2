// Package access implements per-resource authorization for documents and
// folders: permission flags, coarse access levels, effective permission
// resolution, and the grant and revoke operations that mutate a resource's
// accessibility list.
package access

import (
	"database/sql/driver"
	"fmt"
)

// Flags is the permission set one user holds on one resource.
type Flags struct {
	CanView     bool `json:"can_view"`
	CanEdit     bool `json:"can_edit"`
	CanDownload bool `json:"can_download"`
	CanAnnotate bool `json:"can_annotate"`
	CanDelete   bool `json:"can_delete"`
	CanShare    bool `json:"can_share"`
}

// All returns a flag set with every permission.
func All() Flags {
	return Flags{
		CanView:     true,
		CanEdit:     true,
		CanDownload: true,
		CanAnnotate: true,
		CanDelete:   true,
		CanShare:    true,
	}
}

// Any reports whether at least one flag is set.
func (f Flags) Any() bool {
	return f != Flags{}
}

// Has reports whether f grants p.
func (f Flags) Has(p Permission) bool {
	switch p {
	case PermView:
		return f.CanView
	case PermEdit:
		return f.CanEdit
	case PermDownload:
		return f.CanDownload
	case PermAnnotate:
		return f.CanAnnotate
	case PermDelete:
		return f.CanDelete
	case PermShare:
		return f.CanShare
	default:
		return false
	}
}

// Level classifies f. Sets that match no level exactly fall back to
// LevelView, including the empty set.
func (f Flags) Level() Level {
	switch {
	case f == All():
		return LevelOwner
	case f.CanView && f.CanEdit && f.CanDownload && f.CanAnnotate:
		return LevelEdit
	case f.CanView && f.CanDownload && f.CanAnnotate:
		return LevelComment
	case f.CanView && f.CanDownload:
		return LevelDownload
	default:
		return LevelView
	}
}

// Level is the coarse, ordered classification of a flag set.
type Level int

const (
	LevelView Level = iota
	LevelDownload
	LevelComment
	LevelEdit
	LevelOwner
)

var levelNames = [...]string{"View", "Download", "Comment", "Edit", "Owner"}

// Flags returns the canonical flag set for l. Each level is a strict
// superset of the one below it.
func (l Level) Flags() Flags {
	switch l {
	case LevelOwner:
		return All()
	case LevelEdit:
		return Flags{CanView: true, CanDownload: true, CanAnnotate: true, CanEdit: true}
	case LevelComment:
		return Flags{CanView: true, CanDownload: true, CanAnnotate: true}
	case LevelDownload:
		return Flags{CanView: true, CanDownload: true}
	default:
		return Flags{CanView: true}
	}
}

func (l Level) String() string {
	if l < LevelView || l > LevelOwner {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel matches s against the level names exactly.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Value stores the level by name.
func (l Level) Value() (driver.Value, error) {
	return l.String(), nil
}

// Scan reads a level stored by name.
func (l *Level) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return l.UnmarshalText([]byte(v))
	case []byte:
		return l.UnmarshalText(v)
	default:
		return fmt.Errorf("scan level: unsupported type %T", src)
	}
}

// Permission names a single flag for authorization checks.
type Permission int

const (
	PermView Permission = iota
	PermEdit
	PermDownload
	PermAnnotate
	PermDelete
	PermShare
)

var permissionNames = [...]string{"view", "edit", "download", "annotate", "delete", "share"}

func (p Permission) String() string {
	if p < PermView || p > PermShare {
		return fmt.Sprintf("Permission(%d)", int(p))
	}
	return permissionNames[p]
}
