package model

import (
	"time"

	"gorm.io/datatypes"
)

// School member roles.
const (
	SchoolRoleAdmin   = "admin_school"
	SchoolRoleTeacher = "teacher"
	SchoolRoleStudent = "student"
)

// School — schools table (B2B tenant).
type School struct {
	SchoolID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_id"`
	Name     string         `gorm:"type:varchar(150);not null"                     json:"name"`
	Settings datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"               json:"settings"`
	BaseModel
}

func (School) TableName() string { return "schools" }

// Cohort — cohorts table (e.g. "Terminale 2026").
type Cohort struct {
	CohortID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cohort_id"`
	SchoolID string `gorm:"type:uuid;not null"                             json:"school_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

func (Cohort) TableName() string { return "cohorts" }

// Class — classes table, belongs to a cohort.
type Class struct {
	ClassID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	SchoolID string `gorm:"type:uuid;not null"                             json:"school_id"`
	CohortID string `gorm:"type:uuid;not null"                             json:"cohort_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

func (Class) TableName() string { return "classes" }

// SchoolMember — school_members table. One row per (school, user); the role
// optionally scopes to a cohort and/or class.
type SchoolMember struct {
	MemberID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	SchoolID string  `gorm:"type:uuid;not null;uniqueIndex:uq_school_user"  json:"school_id"`
	UserID   string  `gorm:"type:uuid;not null;uniqueIndex:uq_school_user"  json:"user_id"`
	Role     string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	CohortID *string `gorm:"type:uuid"                                      json:"cohort_id,omitempty"`
	ClassID  *string `gorm:"type:uuid"                                      json:"class_id,omitempty"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (SchoolMember) TableName() string { return "school_members" }

// AccessCode — access_codes table. Gates self-service member creation.
// Invariants: uses_count never exceeds max_uses and redemption stops at
// expires_at; both enforced atomically by a conditional update.
type AccessCode struct {
	AccessCodeID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"access_code_id"`
	SchoolID     string    `gorm:"type:uuid;not null"                             json:"school_id"`
	Code         string    `gorm:"type:varchar(32);not null;uniqueIndex"          json:"code"`
	Role         string    `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	CohortID     *string   `gorm:"type:uuid"                                      json:"cohort_id,omitempty"`
	ClassID      *string   `gorm:"type:uuid"                                      json:"class_id,omitempty"`
	MaxUses      int       `gorm:"not null;default:1"                             json:"max_uses"`
	UsesCount    int       `gorm:"not null;default:0"                             json:"uses_count"`
	ExpiresAt    time.Time `gorm:"not null"                                       json:"expires_at"`
	BaseModel
}

func (AccessCode) TableName() string { return "access_codes" }
