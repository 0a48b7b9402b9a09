package types

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;index;column:name" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;column:measurement_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredient"
}
