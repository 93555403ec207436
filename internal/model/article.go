package model

import (
	"time"
)

// Article 文章模型
type Article struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Author     string     `gorm:"size:100" json:"author"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	CategoryID *uint      `gorm:"index" json:"category_id"`
	ImageURL   string     `gorm:"size:500" json:"image_url"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}
