package handler

import (
	"errors"
	"net/http"
	"time"

	"volleyhub/backend/internal/membership"
	"volleyhub/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// PlayerResponse is the display shape of a user inside a room.
type PlayerResponse struct {
	ID           uint   `json:"id" example:"1"`
	Username     string `json:"username" example:"spiker99"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// RoomResponse defines the populated room returned by every room endpoint.
type RoomResponse struct {
	ID          uint              `json:"id" example:"1"`
	Name        string            `json:"name" example:"Friday beach volley"`
	Organizer   PlayerResponse    `json:"organizer"`
	MaxPlayers  int               `json:"maxPlayers" example:"12"`
	Time        time.Time         `json:"time" example:"2026-09-04T18:00:00Z"`
	Location    string            `json:"location" example:"Riverside court 2"`
	Type        models.RoomType   `json:"type" example:"public"`
	Description string            `json:"description,omitempty"`
	Status      models.RoomStatus `json:"status" example:"upcoming"`
	Players     []PlayerResponse  `json:"players"`
	PlayerCount int               `json:"playerCount" example:"4"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func newPlayerResponse(user models.User) PlayerResponse {
	return PlayerResponse{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}
}

func newRoomResponse(room models.Room) RoomResponse {
	players := make([]PlayerResponse, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, newPlayerResponse(p))
	}

	return RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Organizer:   newPlayerResponse(room.Organizer),
		MaxPlayers:  room.MaxPlayers,
		Time:        room.Time,
		Location:    room.Location,
		Type:        room.Type,
		Description: room.Description,
		Status:      room.Status,
		Players:     players,
		PlayerCount: len(players),
		CreatedAt:   room.CreatedAt,
	}
}

// respondMembershipError translates protocol errors onto HTTP statuses.
func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, membership.ErrRoomNotFound),
		errors.Is(err, membership.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, membership.ErrRoomFull),
		errors.Is(err, membership.ErrAlreadyMember),
		errors.Is(err, membership.ErrNotMember),
		errors.Is(err, membership.ErrCapacityBelowPlayers):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, membership.ErrOrganizerLeave),
		errors.Is(err, membership.ErrNotOrganizer):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
