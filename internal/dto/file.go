package dto

// ── study file DTOs ──

// FileResponse is the study file payload.
type FileResponse struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	FileType    string  `json:"file_type"`
	FileSize    int64   `json:"file_size"`
	FolderName  *string `json:"folder_name,omitempty"`
	DownloadURL string  `json:"download_url"` // signed, time-limited
	CreatedAt   string  `json:"created_at"`
}

// FileListRequest filters by folder; empty means root (no folder).
type FileListRequest struct {
	Folder string `form:"folder" binding:"omitempty,max=100"`
}

// FolderResponse is one implicit folder with its file count.
type FolderResponse struct {
	Name      string `json:"name"`
	FileCount int64  `json:"file_count"`
}

// RenameFolderRequest renames an implicit folder, fanning the new name out
// to every file row that carried the old one.
type RenameFolderRequest struct {
	NewName string `json:"new_name" binding:"required,min=1,max=100"`
}
