// Package membership implements the room membership protocol: the rules
// that keep Room.Players and User.JoinedRooms mutually consistent across
// join, leave and delete, without multi-table transactions.
//
// Join and leave are two sequential writes (room side first, then user
// side). When the second write fails the first is manually compensated so
// the room reverts to its prior membership. Delete is deliberately looser:
// per-member cleanup is best-effort and never blocks removing the room.
package membership

import (
	"fmt"
	"time"

	"volleyhub/backend/internal/models"

	"go.uber.org/zap"
)

// Store is the persistence surface the protocol runs against.
type Store interface {
	// RoomWithMembers returns the room with Organizer and Players loaded,
	// or ErrRoomNotFound.
	RoomWithMembers(roomID uint) (*models.Room, error)
	// UserByID returns the user or ErrUserNotFound.
	UserByID(userID uint) (*models.User, error)

	// CreateRoom persists a new room including its initial Players rows.
	CreateRoom(room *models.Room) error
	// SaveRoom persists the room's scalar fields only.
	SaveRoom(room *models.Room) error
	// DeleteRoom removes the room and its player rows.
	DeleteRoom(roomID uint) error
	// SetRoomPlayers replaces the room's player list.
	SetRoomPlayers(room *models.Room, players []models.User) error

	// AddJoinedRoom and RemoveJoinedRoom mutate the user-side mirror.
	AddJoinedRoom(userID, roomID uint) error
	RemoveJoinedRoom(userID, roomID uint) error

	ListRooms(filter RoomFilter) ([]models.Room, int64, error)
}

// RoomFilter narrows ListRooms. Zero values mean "no filter".
type RoomFilter struct {
	Status models.RoomStatus
	Type   models.RoomType
	Search string // matches name, description or location, case-insensitive
	Page   int
	Limit  int
}

// Service coordinates the two membership mirrors.
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateParams are the fields an organizer supplies for a new room.
type CreateParams struct {
	Name        string
	MaxPlayers  int
	Time        time.Time
	Location    string
	Type        models.RoomType
	Description string
}

// UpdateParams is a partial room update; nil fields are left untouched.
type UpdateParams struct {
	Name        *string
	MaxPlayers  *int
	Time        *time.Time
	Location    *string
	Type        *models.RoomType
	Description *string
	Status      *models.RoomStatus
}

// CreateRoom creates a room with the organizer as its first player, then
// pushes the room into the organizer's joined list. The second write is not
// rolled back on failure: the room stays created and the error surfaces.
func (s *Service) CreateRoom(organizerID uint, p CreateParams) (*models.Room, error) {
	organizer, err := s.store.UserByID(organizerID)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		Name:        p.Name,
		OrganizerID: organizer.ID,
		MaxPlayers:  p.MaxPlayers,
		Time:        p.Time,
		Location:    p.Location,
		Type:        p.Type,
		Description: p.Description,
		Status:      models.StatusUpcoming,
		Players:     []models.User{*organizer},
	}
	if room.Type == "" {
		room.Type = models.RoomTypePublic
	}

	if err := s.store.CreateRoom(room); err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	if err := s.store.AddJoinedRoom(organizer.ID, room.ID); err != nil {
		s.logger.Warn("organizer joined-rooms update failed after room creation",
			zap.Uint("room_id", room.ID),
			zap.Uint("user_id", organizer.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("updating organizer joined rooms: %w", err)
	}

	return s.store.RoomWithMembers(room.ID)
}

// JoinRoom adds the user to the room. If the user-side write fails after
// the room-side write succeeded, the room is compensated back to its prior
// player list before the error is returned.
func (s *Service) JoinRoom(roomID, userID uint) (*models.Room, error) {
	room, err := s.store.RoomWithMembers(roomID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.UserByID(userID)
	if err != nil {
		return nil, err
	}

	for _, p := range room.Players {
		if p.ID == userID {
			return nil, ErrAlreadyMember
		}
	}
	if len(room.Players) >= room.MaxPlayers {
		return nil, ErrRoomFull
	}

	before := make([]models.User, len(room.Players))
	copy(before, room.Players)
	after := make([]models.User, 0, len(room.Players)+1)
	after = append(after, room.Players...)
	after = append(after, *user)

	if err := s.store.SetRoomPlayers(room, after); err != nil {
		return nil, fmt.Errorf("updating room players: %w", err)
	}

	if err := s.store.AddJoinedRoom(userID, roomID); err != nil {
		if rbErr := s.store.SetRoomPlayers(room, before); rbErr != nil {
			s.logger.Error("rollback of room players failed, mirrors are out of sync",
				zap.Uint("room_id", roomID),
				zap.Uint("user_id", userID),
				zap.Error(rbErr),
			)
		}
		return nil, fmt.Errorf("updating joined rooms: %w", err)
	}

	return s.store.RoomWithMembers(roomID)
}

// LeaveRoom removes the user from the room with the same compensation
// strategy as JoinRoom. The organizer can never leave their own room.
func (s *Service) LeaveRoom(roomID, userID uint) (*models.Room, error) {
	room, err := s.store.RoomWithMembers(roomID)
	if err != nil {
		return nil, err
	}

	member := false
	for _, p := range room.Players {
		if p.ID == userID {
			member = true
			break
		}
	}
	if !member {
		return nil, ErrNotMember
	}
	if room.OrganizerID == userID {
		return nil, ErrOrganizerLeave
	}

	before := make([]models.User, len(room.Players))
	copy(before, room.Players)
	after := make([]models.User, 0, len(room.Players)-1)
	for _, p := range room.Players {
		if p.ID != userID {
			after = append(after, p)
		}
	}

	if err := s.store.SetRoomPlayers(room, after); err != nil {
		return nil, fmt.Errorf("updating room players: %w", err)
	}

	if err := s.store.RemoveJoinedRoom(userID, roomID); err != nil {
		if rbErr := s.store.SetRoomPlayers(room, before); rbErr != nil {
			s.logger.Error("rollback of room players failed, mirrors are out of sync",
				zap.Uint("room_id", roomID),
				zap.Uint("user_id", userID),
				zap.Error(rbErr),
			)
		}
		return nil, fmt.Errorf("updating joined rooms: %w", err)
	}

	return s.store.RoomWithMembers(roomID)
}

// DeleteRoom removes the room after clearing it from each member's joined
// list. Member cleanup is best-effort: a failed update is logged and the
// deletion proceeds, since the dangling reference points at a room that no
// longer resolves.
func (s *Service) DeleteRoom(roomID, actorID uint) error {
	room, err := s.store.RoomWithMembers(roomID)
	if err != nil {
		return err
	}
	if err := s.authorize(room, actorID); err != nil {
		return err
	}

	for _, p := range room.Players {
		if err := s.store.RemoveJoinedRoom(p.ID, roomID); err != nil {
			s.logger.Warn("failed to clear joined room for member during delete",
				zap.Uint("room_id", roomID),
				zap.Uint("user_id", p.ID),
				zap.Error(err),
			)
		}
	}

	if err := s.store.DeleteRoom(roomID); err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return nil
}

// UpdateRoom applies a partial update. Lowering MaxPlayers below the
// current player count is rejected before anything is written.
func (s *Service) UpdateRoom(roomID, actorID uint, p UpdateParams) (*models.Room, error) {
	room, err := s.store.RoomWithMembers(roomID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(room, actorID); err != nil {
		return nil, err
	}

	if p.MaxPlayers != nil && *p.MaxPlayers < len(room.Players) {
		return nil, ErrCapacityBelowPlayers
	}

	if p.Name != nil {
		room.Name = *p.Name
	}
	if p.MaxPlayers != nil {
		room.MaxPlayers = *p.MaxPlayers
	}
	if p.Time != nil {
		room.Time = *p.Time
	}
	if p.Location != nil {
		room.Location = *p.Location
	}
	if p.Type != nil {
		room.Type = *p.Type
	}
	if p.Description != nil {
		room.Description = *p.Description
	}
	if p.Status != nil {
		room.Status = *p.Status
	}

	if err := s.store.SaveRoom(room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}

	return s.store.RoomWithMembers(roomID)
}

// GetRoom returns a single populated room.
func (s *Service) GetRoom(roomID uint) (*models.Room, error) {
	return s.store.RoomWithMembers(roomID)
}

// ListRooms returns rooms matching the filter and the total match count.
func (s *Service) ListRooms(filter RoomFilter) ([]models.Room, int64, error) {
	return s.store.ListRooms(filter)
}

// authorize permits the room's organizer and admins.
func (s *Service) authorize(room *models.Room, actorID uint) error {
	if room.OrganizerID == actorID {
		return nil
	}
	actor, err := s.store.UserByID(actorID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin {
		return ErrNotOrganizer
	}
	return nil
}
