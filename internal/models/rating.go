package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating holds one user's scores for one flight. The composite unique index
// on (user_id, flight_id) is the natural key: re-submitting updates the
// existing row instead of adding another.
type Rating struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_flight" json:"userId"`
	FlightID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_flight" json:"flightId"`

	CheckIn       float64 `gorm:"not null;default:0" json:"checkIn"`
	BoardingExp   float64 `gorm:"not null;default:0" json:"boardingExp"`
	CabinCrew     float64 `gorm:"not null;default:0" json:"cabinCrew"`
	SeatComfort   float64 `gorm:"not null;default:0" json:"seatComfort"`
	FoodQuality   float64 `gorm:"not null;default:0" json:"foodQuality"`
	Entertainment float64 `gorm:"not null;default:0" json:"entertainment"`
	FlightPerf    float64 `gorm:"not null;default:0" json:"flightPerf"`
	ValueForMoney float64 `gorm:"not null;default:0" json:"valueForMoney"`
	OverallRating float64 `gorm:"not null" json:"overallRating"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Flight *Flight `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
