package dto

import "time"

// MediaResponse 媒体信息
type MediaResponse struct {
	ID           uint      `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	FilePath     string    `json:"file_path"`
	StorageType  string    `json:"storage_type"`
	URL          string    `json:"url"` // 访问地址
	UploadedAt   time.Time `json:"uploaded_at"`
}
