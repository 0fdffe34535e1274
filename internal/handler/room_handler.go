package handler

import (
	"net/http"
	"strconv"
	"time"

	"volleyhub/backend/internal/membership"
	"volleyhub/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RoomHandler exposes the room endpoints over the membership service.
type RoomHandler struct {
	Members *membership.Service
}

// region --- DTOs ---

// RoomInput defines the structure for creating a room.
type RoomInput struct {
	Name        string          `json:"name" binding:"required" example:"Friday beach volley"`
	MaxPlayers  int             `json:"maxPlayers" binding:"required,min=1" example:"12"`
	Time        time.Time       `json:"time" binding:"required"`
	Location    string          `json:"location" binding:"required" example:"Riverside court 2"`
	Type        models.RoomType `json:"type" binding:"omitempty,oneof=public private"`
	Description string          `json:"description"`
}

// RoomUpdateInput is a partial update; omitted fields are left unchanged.
type RoomUpdateInput struct {
	Name        *string            `json:"name"`
	MaxPlayers  *int               `json:"maxPlayers" binding:"omitempty,min=1"`
	Time        *time.Time         `json:"time"`
	Location    *string            `json:"location"`
	Type        *models.RoomType   `json:"type" binding:"omitempty,oneof=public private"`
	Description *string            `json:"description"`
	Status      *models.RoomStatus `json:"status" binding:"omitempty,oneof=upcoming active completed cancelled"`
}

// PaginatedRoomResponse defines the structure for a paginated list of rooms.
type PaginatedRoomResponse struct {
	Data []RoomResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// endregion

// CreateRoom godoc
// @Summary      Create a new room
// @Description  Creates a room with the caller as organizer and first player. Requires organizer or admin role.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoomInput true "Room Info"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Organizer or admin role required"
// @Router       /rooms/create [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.Members.CreateRoom(userID.(uint), membership.CreateParams{
		Name:        input.Name,
		MaxPlayers:  input.MaxPlayers,
		Time:        input.Time,
		Location:    input.Location,
		Type:        input.Type,
		Description: input.Description,
	})
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRoomResponse(*room))
}

// ListRooms godoc
// @Summary      List rooms
// @Description  Lists rooms, optionally filtered by status, type and a text search over name, description and location.
// @Tags         rooms
// @Produce      json
// @Param        status query string false "Filter by status" Enums(upcoming, active, completed, cancelled)
// @Param        type   query string false "Filter by type" Enums(public, private)
// @Param        search query string false "Case-insensitive search"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(10)
// @Success      200 {object} PaginatedRoomResponse
// @Router       /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	rooms, totalItems, err := h.Members.ListRooms(membership.RoomFilter{
		Status: models.RoomStatus(c.Query("status")),
		Type:   models.RoomType(c.Query("type")),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}

	data := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		data = append(data, newRoomResponse(room))
	}

	c.JSON(http.StatusOK, PaginatedRoomResponse{
		Data: data,
		Meta: NewPaginationMeta(totalItems, page, limit),
	})
}

// GetRoom godoc
// @Summary      Get a room by ID
// @Description  Gets one room with organizer and players populated.
// @Tags         rooms
// @Produce      json
// @Param        id path int true "Room ID"
// @Success      200 {object} RoomResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := h.Members.GetRoom(uint(roomID))
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(*room))
}

// JoinRoom godoc
// @Summary      Join a room
// @Description  Adds the caller to the room's player list if the room has space.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        roomId path int true "Room ID"
// @Success      200 {object} RoomResponse
// @Failure      400 {object} ErrorResponse "Room is full or already joined"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/join/{roomId} [post]
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := h.Members.JoinRoom(uint(roomID), userID.(uint))
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(*room))
}

// LeaveRoom godoc
// @Summary      Leave a room
// @Description  Removes the caller from the room's player list. Organizers cannot leave their own room.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        roomId path int true "Room ID"
// @Success      200 {object} RoomResponse
// @Failure      400 {object} ErrorResponse "Not a member"
// @Failure      403 {object} ErrorResponse "Organizer cannot leave"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/leave/{roomId} [post]
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := h.Members.LeaveRoom(uint(roomID), userID.(uint))
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(*room))
}

// UpdateRoom godoc
// @Summary      Update a room
// @Description  Partially updates a room. Only the organizer or an admin may do this.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "Room ID"
// @Param        input body RoomUpdateInput true "Fields to update"
// @Success      200 {object} RoomResponse
// @Failure      400 {object} ErrorResponse "maxPlayers below current player count"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var input RoomUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.Members.UpdateRoom(uint(roomID), userID.(uint), membership.UpdateParams{
		Name:        input.Name,
		MaxPlayers:  input.MaxPlayers,
		Time:        input.Time,
		Location:    input.Location,
		Type:        input.Type,
		Description: input.Description,
		Status:      input.Status,
	})
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(*room))
}

// DeleteRoom godoc
// @Summary      Delete a room
// @Description  Deletes a room and clears it from members' joined lists. Only the organizer or an admin may do this.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]string "{"message": "Room deleted successfully"}"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	if err := h.Members.DeleteRoom(uint(roomID), userID.(uint)); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
