package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is free-text feedback. Unlike ratings there is no uniqueness
// constraint; a user may post several reviews for the same flight.
type Review struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	FlightID uuid.UUID `gorm:"type:uuid;not null;index" json:"flightId"`
	Content  string    `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Flight *Flight `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
