package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// FolderCount pairs an implicit folder name with its file count.
type FolderCount struct {
	FolderName string `gorm:"column:folder_name"`
	Count      int64  `gorm:"column:count"`
}

// StudyFileRepository is the study-file data-access interface.
type StudyFileRepository interface {
	Create(ctx context.Context, file *model.StudyFile) error
	GetByID(ctx context.Context, id string) (*model.StudyFile, error)
	ListByUser(ctx context.Context, userID string, folder *string) ([]model.StudyFile, error)
	// ListFolders derives the implicit folder set from distinct
	// folder_name values.
	ListFolders(ctx context.Context, userID string) ([]FolderCount, error)
	// RenameFolder fans the new name out to every row holding the old one.
	RenameFolder(ctx context.Context, userID, oldName, newName string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type studyFileRepo struct {
	db *gorm.DB
}

// NewStudyFileRepo creates the GORM-backed StudyFileRepository.
func NewStudyFileRepo(db *gorm.DB) StudyFileRepository {
	return &studyFileRepo{db: db}
}

func (r *studyFileRepo) Create(ctx context.Context, file *model.StudyFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *studyFileRepo) GetByID(ctx context.Context, id string) (*model.StudyFile, error) {
	var file model.StudyFile
	err := r.db.WithContext(ctx).
		Where("file_id = ?", id).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *studyFileRepo) ListByUser(ctx context.Context, userID string, folder *string) ([]model.StudyFile, error) {
	var files []model.StudyFile
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if folder == nil {
		q = q.Where("folder_name IS NULL")
	} else {
		q = q.Where("folder_name = ?", *folder)
	}
	err := q.Order("filename ASC").Find(&files).Error
	return files, err
}

func (r *studyFileRepo) ListFolders(ctx context.Context, userID string) ([]FolderCount, error) {
	var folders []FolderCount
	err := r.db.WithContext(ctx).
		Model(&model.StudyFile{}).
		Select("folder_name, COUNT(*) AS count").
		Where("user_id = ? AND folder_name IS NOT NULL", userID).
		Group("folder_name").
		Order("folder_name ASC").
		Scan(&folders).Error
	return folders, err
}

func (r *studyFileRepo) RenameFolder(ctx context.Context, userID, oldName, newName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StudyFile{}).
		Where("user_id = ? AND folder_name = ?", userID, oldName).
		Updates(map[string]interface{}{
			"folder_name": newName,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *studyFileRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("file_id = ?", id).
		Delete(&model.StudyFile{}).Error
}
