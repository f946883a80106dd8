package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skoolife/backend/config"
	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
	"skoolife/backend/pkg/storage"
)

var (
	ErrFileNotFound   = errors.New("study file not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrFileTooLarge   = errors.New("file exceeds the upload size limit")
)

// FileService is the study-file business interface.
type FileService interface {
	// Upload persists the object then the row; a failed row insert removes
	// the orphaned object.
	Upload(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader, folder *string) (*dto.FileResponse, error)
	List(ctx context.Context, userID string, folder *string) ([]dto.FileResponse, error)
	ListFolders(ctx context.Context, userID string) ([]dto.FolderResponse, error)
	RenameFolder(ctx context.Context, userID, oldName, newName string) error
	Delete(ctx context.Context, userID, fileID string) error
	// Download verifies the signed URL parameters and streams the object.
	// No JWT: possession of a valid signature is the credential.
	Download(ctx context.Context, fileID string, exp int64, sig string) (io.ReadCloser, *model.StudyFile, error)
}

type fileService struct {
	cfg    *config.Config
	repo   *repository.Repository
	store  *storage.Store
	logger *zap.Logger
}

// NewFileService creates the FileService.
func NewFileService(cfg *config.Config, repo *repository.Repository, store *storage.Store, logger *zap.Logger) FileService {
	return &fileService{cfg: cfg, repo: repo, store: store, logger: logger}
}

func (s *fileService) Upload(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader, folder *string) (*dto.FileResponse, error) {
	if size > s.cfg.Storage.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	storagePath, written, err := s.store.Save(userID, io.LimitReader(r, s.cfg.Storage.MaxUploadBytes+1))
	if err != nil {
		s.logger.Error("store upload failed", zap.Error(err))
		return nil, err
	}
	if written > s.cfg.Storage.MaxUploadBytes {
		s.store.Remove(storagePath)
		return nil, ErrFileTooLarge
	}

	file := &model.StudyFile{
		UserID:      userID,
		Filename:    filename,
		FileType:    contentType,
		FileSize:    written,
		StoragePath: storagePath,
		FolderName:  folder,
	}
	if err := s.repo.File.Create(ctx, file); err != nil {
		s.store.Remove(storagePath)
		s.logger.Error("create file row failed", zap.Error(err))
		return nil, err
	}
	return s.toFileResponse(file), nil
}

func (s *fileService) List(ctx context.Context, userID string, folder *string) ([]dto.FileResponse, error) {
	files, err := s.repo.File.ListByUser(ctx, userID, folder)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FileResponse, 0, len(files))
	for i := range files {
		out = append(out, *s.toFileResponse(&files[i]))
	}
	return out, nil
}

func (s *fileService) ListFolders(ctx context.Context, userID string) ([]dto.FolderResponse, error) {
	folders, err := s.repo.File.ListFolders(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, dto.FolderResponse{Name: f.FolderName, FileCount: f.Count})
	}
	return out, nil
}

func (s *fileService) RenameFolder(ctx context.Context, userID, oldName, newName string) error {
	n, err := s.repo.File.RenameFolder(ctx, userID, oldName, newName)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFolderNotFound
	}
	return nil
}

func (s *fileService) Delete(ctx context.Context, userID, fileID string) error {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.File.Delete(ctx, fileID); err != nil {
		return err
	}
	// the row is authoritative; object removal is best effort
	if err := s.store.Remove(file.StoragePath); err != nil {
		s.logger.Warn("remove stored object failed",
			zap.String("file_id", fileID), zap.Error(err))
	}
	return nil
}

func (s *fileService) Download(ctx context.Context, fileID string, exp int64, sig string) (io.ReadCloser, *model.StudyFile, error) {
	if err := s.store.Verify(fileID, exp, sig, time.Now()); err != nil {
		return nil, nil, err
	}

	file, err := s.repo.File.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}

	rc, err := s.store.Open(file.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return rc, file, nil
}

func (s *fileService) ownedFile(ctx context.Context, userID, fileID string) (*model.StudyFile, error) {
	file, err := s.repo.File.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if file.UserID != userID {
		return nil, ErrFileNotFound
	}
	return file, nil
}

func (s *fileService) toFileResponse(file *model.StudyFile) *dto.FileResponse {
	exp, sig := s.store.Sign(file.FileID, time.Now())
	url := fmt.Sprintf("%s/api/v1/files/%s/download?exp=%d&sig=%s",
		strings.TrimRight(s.cfg.Server.BaseURL, "/"), file.FileID, exp, sig)

	return &dto.FileResponse{
		ID:          file.FileID,
		Filename:    file.Filename,
		FileType:    file.FileType,
		FileSize:    file.FileSize,
		FolderName:  file.FolderName,
		DownloadURL: url,
		CreatedAt:   file.CreatedAt.Format(time.RFC3339),
	}
}
