package models

// User represents the user model in the database. Email uniqueness only
// applies to live rows so a deleted account's address can register again.
type User struct {
	Base
	Email    string  `gorm:"uniqueIndex:idx_users_email,where:deleted_at IS NULL;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	Name     string  `json:"name"`
	Assets   []Asset `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"assets,omitempty"`
}
