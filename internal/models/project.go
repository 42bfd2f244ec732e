package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project holds submitted files in upload order as a jsonb array.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"not null;size:255" json:"location"`

	Files datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"files"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
	Creator   *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendFiles returns the collection with paths appended, treating a nil
// collection as empty. Records created before multi-file support may have
// no array at all.
func AppendFiles(files datatypes.JSONSlice[string], paths []string) datatypes.JSONSlice[string] {
	if files == nil {
		files = datatypes.JSONSlice[string]{}
	}
	return append(files, paths...)
}

// RemoveFile detaches every occurrence of an exact reference. A
// missing reference leaves the collection unchanged, so removal is
// idempotent.
func RemoveFile(files datatypes.JSONSlice[string], path string) datatypes.JSONSlice[string] {
	if files == nil {
		return datatypes.JSONSlice[string]{}
	}
	out := make(datatypes.JSONSlice[string], 0, len(files))
	for _, f := range files {
		if f != path {
			out = append(out, f)
		}
	}
	return out
}
