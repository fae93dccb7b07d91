package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Flight struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FlightNumber  string    `gorm:"not null;index" json:"flightNumber"`
	Origin        string    `gorm:"not null" json:"origin"`
	Destination   string    `gorm:"not null" json:"destination"`
	DepartureTime time.Time `gorm:"not null;index" json:"departureTime"`
	ArrivalTime   time.Time `gorm:"not null" json:"arrivalTime"`

	AirlineID uuid.UUID `gorm:"type:uuid;not null;index" json:"airlineId"`
	Airline   *Airline  `gorm:"foreignKey:AirlineID" json:"airline,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Store-level cascade: deleting a flight removes its ratings and reviews.
	Ratings []Rating `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
	Reviews []Review `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (f *Flight) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
