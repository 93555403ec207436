package model

import "time"

// 存储类型
const (
	StorageLocal = "local"
	StorageCOS   = "cos"
)

// Media 媒体文件模型，与文章、分类无关联
type Media struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename     string    `gorm:"size:255;not null;index" json:"filename"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	FileType     string    `gorm:"size:50;not null" json:"file_type"`
	FileSize     int64     `gorm:"not null" json:"file_size"` // 字节
	FilePath     string    `gorm:"size:500;not null" json:"file_path"`
	StorageType  string    `gorm:"size:20;not null;default:'local'" json:"storage_type"`
	UploadedAt   time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName 指定表名
func (Media) TableName() string {
	return "media"
}
