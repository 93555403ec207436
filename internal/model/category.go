package model

// Category 分类模型，名称不要求唯一
type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
