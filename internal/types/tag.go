package types

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null;column:name" json:"name"`
	Color string `gorm:"size:7;not null;column:color" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null;column:slug" json:"slug"`
}

func (Tag) TableName() string {
	return "tag"
}
