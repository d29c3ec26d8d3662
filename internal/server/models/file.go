package models

import "time"

// FileRecord describes one uploaded file's metadata. The content itself
// lives in object storage under BlobID; deleting a record is authoritative,
// blob cleanup happens after and is best-effort.
type FileRecord struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	AccountID string `json:"account_id"`

	// Name is the display name including extension.
	Name string `json:"name"`
	// Type is one of the filex categories. An unrecognized value is kept
	// as stored; aggregation coerces it to "other".
	Type      string `json:"type"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`

	// BlobID is the object-storage key of the content.
	BlobID string `json:"blob_id"`
	// URL is the public URL derived from the blob location.
	URL string `json:"url"`

	// SharedWith lists collaborator email addresses granted access.
	SharedWith []string `json:"shared_with"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisibleTo reports whether the record is visible to the given user:
// the owner, or anyone on the collaborator list. Listing queries evaluate
// the same predicate in the database; this is for unit checks only.
func (f *FileRecord) VisibleTo(u *User) bool {
	if u == nil {
		return false
	}
	if f.OwnerID == u.ID {
		return true
	}
	for _, email := range f.SharedWith {
		if email == u.Email {
			return true
		}
	}
	return false
}
