package teamfile

import (
	"slices"
	"time"
)

// Category groups shared files.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryPhoto    Category = "photo"
	CategoryOther    Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDocument, CategoryPhoto, CategoryOther:
		return true
	default:
		return false
	}
}

// File is an uploaded team file. URL is an opaque payload (usually a data URL)
// that is stored and returned as is.
//
// A file can be resolved publicly by ShareID only while ShareEnabled is true.
// Disabling sharing keeps ShareID so the same link works again on re-enable.
type File struct {
	ID             string     `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Type           string     `json:"type" yaml:"type"`
	URL            string     `json:"url" yaml:"url"`
	UploadedBy     string     `json:"uploadedBy" yaml:"uploadedBy"`
	UploadedAt     time.Time  `json:"uploadedAt" yaml:"uploadedAt"`
	Category       Category   `json:"category" yaml:"category"`
	ShareID        string     `json:"shareId,omitempty" yaml:"shareId,omitempty"`
	ShareEnabled   bool       `json:"shareEnabled" yaml:"shareEnabled"`
	ShareCreatedAt *time.Time `json:"shareCreatedAt,omitempty" yaml:"shareCreatedAt,omitempty"`
}

func (f File) Clone() File {
	if f.ShareCreatedAt != nil {
		at := *f.ShareCreatedAt
		f.ShareCreatedAt = &at
	}
	return f
}

// PubliclyResolvable reports whether shareID currently grants access to f.
func (f File) PubliclyResolvable(shareID string) bool {
	return shareID != "" && f.ShareEnabled && f.ShareID == shareID
}

// EnableSharing turns sharing on. A share id is assigned only when the file has
// none; the share timestamp is refreshed every time.
func (f File) EnableSharing(newShareID string, now time.Time) File {
	f = f.Clone()
	if f.ShareID == "" {
		f.ShareID = newShareID
	}
	f.ShareEnabled = true
	f.ShareCreatedAt = &now
	return f
}

// DisableSharing turns sharing off and keeps the share id.
func (f File) DisableSharing() File {
	f = f.Clone()
	f.ShareEnabled = false
	return f
}

// Update holds the mergeable file fields. Payload, uploader and sharing state
// are not mergeable.
type Update struct {
	Name     *string
	Category *Category
}

func (f File) ApplyUpdate(u Update) File {
	f = f.Clone()
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Category != nil {
		f.Category = *u.Category
	}
	return f
}

// Filter narrows file listings. Zero-valued fields are ignored and the time
// bounds are inclusive on UploadedAt.
type Filter struct {
	Category   Category
	UploadedBy string
	Start      time.Time
	End        time.Time
}

func (f Filter) Match(file File) bool {
	if f.Category != "" && file.Category != f.Category {
		return false
	}
	if f.UploadedBy != "" && file.UploadedBy != f.UploadedBy {
		return false
	}
	if !f.Start.IsZero() && file.UploadedAt.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && file.UploadedAt.After(f.End) {
		return false
	}
	return true
}

// SortNewestFirst orders files by upload time descending. Ties keep their order.
func SortNewestFirst(files []File) []File {
	out := slices.Clone(files)
	slices.SortStableFunc(out, func(a, b File) int { return b.UploadedAt.Compare(a.UploadedAt) })
	return out
}
