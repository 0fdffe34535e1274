package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType controls room visibility in listings.
type RoomType string

const (
	RoomTypePublic  RoomType = "public"
	RoomTypePrivate RoomType = "private"
)

// RoomStatus is the lifecycle stage of a room. Transitions are not
// enforced on update; the scheduler advances upcoming rooms by time.
type RoomStatus string

const (
	StatusUpcoming  RoomStatus = "upcoming"
	StatusActive    RoomStatus = "active"
	StatusCompleted RoomStatus = "completed"
	StatusCancelled RoomStatus = "cancelled"
)

// Room represents a scheduled game session with a capacity-bounded
// membership list. The organizer is always a member.
type Room struct {
	gorm.Model
	Name        string    `gorm:"size:255;not null"`
	OrganizerID uint      `gorm:"not null;index"`
	MaxPlayers  int       `gorm:"not null"`
	Time        time.Time `gorm:"not null"`
	Location    string    `gorm:"size:255;not null"`
	Type        RoomType  `gorm:"size:20;not null;default:'public'"`
	Description string
	Status      RoomStatus `gorm:"size:20;not null;default:'upcoming';index"`

	Organizer User   `gorm:"foreignKey:OrganizerID"`
	Players   []User `gorm:"many2many:room_players;"`
}
