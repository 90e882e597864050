package repository

import "time"

// User is created once, at document-extraction time. Identity fields are
// fixed at enrollment and never updated afterwards.
type User struct {
	ID          uint       `gorm:"primaryKey;column:user_id"`
	Name        string     `gorm:"column:name;size:100"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth"`
	CreatedAt   time.Time  `gorm:"column:created_at"`

	Profile   *Profile   `gorm:"foreignKey:UserID"`
	Images    []Image    `gorm:"foreignKey:UserID"`
	Documents []Document `gorm:"foreignKey:UserID"`
}

// TableName overrides the default table name.
func (User) TableName() string {
	return "users"
}

// Profile is 1:1 with User and is the only mutable row in the model. Token
// and TokenExpiry are set together or both absent; UpdateProfileCredential
// is the only writer.
type Profile struct {
	ID           uint       `gorm:"primaryKey;column:profile_id"`
	UserID       uint       `gorm:"column:user_id;uniqueIndex;not null"`
	Verification bool       `gorm:"column:verification;not null;default:false"`
	Token        *string    `gorm:"column:token;size:512"`
	TokenExpiry  *time.Time `gorm:"column:token_expiry"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Image references an uploaded document photo on blob storage. Written
// once, never mutated.
type Image struct {
	ID         uint      `gorm:"primaryKey;column:image_id"`
	URL        string    `gorm:"column:image_url;not null"`
	UploadDate time.Time `gorm:"column:upload_date"`
	UserID     uint      `gorm:"column:user_id;index"`
}

func (Image) TableName() string {
	return "images"
}

// Document is the record for an uploaded identity document, image-typed or
// not, including the raw OCR transcription when one was produced.
type Document struct {
	ID            uint      `gorm:"primaryKey;column:document_id"`
	URL           string    `gorm:"column:document_url;not null"`
	Name          string    `gorm:"column:document_name;size:64;uniqueIndex;not null"`
	Type          string    `gorm:"column:document_type;size:64;not null"`
	ExtractedText string    `gorm:"column:extracted_text;type:text"`
	UploadDate    time.Time `gorm:"column:upload_date"`
	UserID        uint      `gorm:"column:user_id;index"`
}

func (Document) TableName() string {
	return "documents"
}

// VerificationStats is the aggregate reported by the stats endpoint.
type VerificationStats struct {
	TotalUsers        int64
	VerifiedProfiles  int64
	ActiveCredentials int64
}
