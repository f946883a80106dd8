package model

// User — users table.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'user'"       json:"role"` // user | admin
	BaseModel
}

func (User) TableName() string { return "users" }
