package models

import (
	"gorm.io/gorm"
)

// FoodItem is one logged food entry. User fields are denormalized so the
// log survives without a users table (identity lives in the session token).
type FoodItem struct {
	gorm.Model
	UserID    string `gorm:"index;not null" json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `gorm:"index" json:"userEmail"`
	FoodName  string `gorm:"not null" json:"foodName"`
	Amount    int    `gorm:"not null" json:"amount"`
	MealType  string `gorm:"not null" json:"mealType"` // breakfast|lunch|dinner|midnight
	Score     int    `gorm:"not null" json:"score"`    // per-unit score snapshot
}
