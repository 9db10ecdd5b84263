package models

// Category — categories table.
type Category struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
