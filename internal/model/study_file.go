package model

// StudyFile — study_files table. Folders are implicit: they exist as the set
// of distinct folder_name values, not as rows of their own.
type StudyFile struct {
	FileID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"file_id"`
	UserID      string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Filename    string  `gorm:"type:varchar(255);not null"                     json:"filename"`
	FileType    string  `gorm:"type:varchar(100);not null"                     json:"file_type"`
	FileSize    int64   `gorm:"not null"                                       json:"file_size"`
	StoragePath string  `gorm:"type:varchar(255);not null"                     json:"-"`
	FolderName  *string `gorm:"type:varchar(100)"                              json:"folder_name,omitempty"`
	BaseModel
}

func (StudyFile) TableName() string { return "study_files" }
