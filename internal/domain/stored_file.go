package domain

import "time"

// StoredFile is the metadata record for a file kept in the uploads directory.
// Rows are keyed by the sanitized name, so an upload that collides with an
// existing name overwrites the row just as it overwrites the file.
type StoredFile struct {
	Name         string    `gorm:"type:text;primaryKey" json:"name"`
	OriginalName string    `gorm:"type:text" json:"original_name"`
	PublicURL    string    `gorm:"type:text;not null" json:"image_url"`
	Size         int64     `json:"size"`
	ContentType  string    `gorm:"type:text" json:"content_type"`
	MD5Hash      string    `gorm:"type:text;index:idx_stored_files_md5" json:"md5_hash"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Mirrored     bool      `gorm:"default:false" json:"mirrored"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for StoredFile.
func (StoredFile) TableName() string {
	return "stored_files"
}
