// Package store is the gorm-backed implementation of the membership
// protocol's persistence surface. Each method is a single independent
// write; the protocol layer owns ordering and compensation.
package store

import (
	"errors"
	"strings"

	"volleyhub/backend/internal/membership"
	"volleyhub/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ membership.Store = (*GormStore)(nil)

func (s *GormStore) RoomWithMembers(roomID uint) (*models.Room, error) {
	var room models.Room
	err := s.db.Preload("Organizer").Preload("Players").First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membership.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *GormStore) UserByID(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membership.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateRoom(room *models.Room) error {
	return s.db.Create(room).Error
}

func (s *GormStore) SaveRoom(room *models.Room) error {
	return s.db.Omit(clause.Associations).Save(room).Error
}

func (s *GormStore) DeleteRoom(roomID uint) error {
	room := models.Room{Model: gorm.Model{ID: roomID}}
	if err := s.db.Model(&room).Association("Players").Clear(); err != nil {
		return err
	}
	return s.db.Delete(&room).Error
}

func (s *GormStore) SetRoomPlayers(room *models.Room, players []models.User) error {
	return s.db.Model(room).Association("Players").Replace(&players)
}

func (s *GormStore) AddJoinedRoom(userID, roomID uint) error {
	user := models.User{Model: gorm.Model{ID: userID}}
	room := models.Room{Model: gorm.Model{ID: roomID}}
	return s.db.Model(&user).Association("JoinedRooms").Append(&room)
}

func (s *GormStore) RemoveJoinedRoom(userID, roomID uint) error {
	user := models.User{Model: gorm.Model{ID: userID}}
	room := models.Room{Model: gorm.Model{ID: roomID}}
	return s.db.Model(&user).Association("JoinedRooms").Delete(&room)
}

// JoinedRooms returns the still-resolvable rooms in a user's joined list.
// Rows pointing at deleted rooms are filtered by the soft-delete scope.
func (s *GormStore) JoinedRooms(userID uint) ([]models.Room, error) {
	user := models.User{Model: gorm.Model{ID: userID}}
	var rooms []models.Room
	if err := s.db.Model(&user).Association("JoinedRooms").Find(&rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *GormStore) ListRooms(filter membership.RoomFilter) ([]models.Room, int64, error) {
	query := s.db.Model(&models.Room{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		// LOWER/LIKE instead of ILIKE so the same query runs on postgres
		// and the sqlite used in tests.
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			like, like, like,
		)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var rooms []models.Room
	err := query.
		Preload("Organizer").
		Preload("Players").
		Order("time ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, totalItems, nil
}
