package models

import "gorm.io/gorm"

// Roles a user can hold. Organizers and admins may create rooms;
// admins may additionally manage any room.
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents a registered player.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
	ProfileImage string `gorm:"size:512"`

	// JoinedRooms mirrors Room.Players. The two join tables are maintained
	// independently by the membership service, never derived from each other.
	JoinedRooms []Room `gorm:"many2many:user_joined_rooms;"`
}
