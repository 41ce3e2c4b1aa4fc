package tenants

import "time"

// File is a document uploaded into a tenant workspace.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	URL        string    `json:"url"`
	Content    string    `json:"content,omitempty"`
}
