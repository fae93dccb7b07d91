package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Airline struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Flights []Flight `gorm:"foreignKey:AirlineID" json:"flights,omitempty"`
}

func (a *Airline) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
