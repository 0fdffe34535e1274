package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func roomInput(name string, maxPlayers int) map[string]interface{} {
	return map[string]interface{}{
		"name":       name,
		"maxPlayers": maxPlayers,
		"time":       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"location":   "Riverside court 2",
	}
}

func TestCreateRoomRequiresOrganizerRole(t *testing.T) {
	router, db := setupRouter(t)
	player := createTestUser(t, db, "player", "user")

	w := doJSON(t, router, http.MethodPost, "/api/rooms/create", roomInput("Friday game", 6), tokenFor(t, player))
	assertStatus(t, w, http.StatusForbidden)
}

func TestRoomLifecycle(t *testing.T) {
	router, db := setupRouter(t)
	organizer := createTestUser(t, db, "organizer", "organizer")
	userA := createTestUser(t, db, "userA", "user")
	userB := createTestUser(t, db, "userB", "user")
	userC := createTestUser(t, db, "userC", "user")

	// Create: organizer becomes the first player.
	w := doJSON(t, router, http.MethodPost, "/api/rooms/create", roomInput("Friday game", 3), tokenFor(t, organizer))
	assertStatus(t, w, http.StatusCreated)
	var room RoomResponse
	decodeBody(t, w, &room)
	if room.PlayerCount != 1 || room.Organizer.Username != "organizer" {
		t.Fatalf("created room = %+v, want organizer as only player", room)
	}

	roomPath := fmt.Sprintf("/api/rooms/%d", room.ID)
	joinPath := fmt.Sprintf("/api/rooms/join/%d", room.ID)
	leavePath := fmt.Sprintf("/api/rooms/leave/%d", room.ID)

	// Join until full.
	w = doJSON(t, router, http.MethodPost, joinPath, nil, tokenFor(t, userA))
	assertStatus(t, w, http.StatusOK)
	w = doJSON(t, router, http.MethodPost, joinPath, nil, tokenFor(t, userB))
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &room)
	if room.PlayerCount != 3 {
		t.Fatalf("playerCount = %d, want 3", room.PlayerCount)
	}

	// Capacity reached.
	w = doJSON(t, router, http.MethodPost, joinPath, nil, tokenFor(t, userC))
	assertStatus(t, w, http.StatusBadRequest)

	// Double join.
	w = doJSON(t, router, http.MethodPost, joinPath, nil, tokenFor(t, userA))
	assertStatus(t, w, http.StatusBadRequest)

	// Organizer cannot leave their own room.
	w = doJSON(t, router, http.MethodPost, leavePath, nil, tokenFor(t, organizer))
	assertStatus(t, w, http.StatusForbidden)

	// Member leaves normally.
	w = doJSON(t, router, http.MethodPost, leavePath, nil, tokenFor(t, userB))
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &room)
	if room.PlayerCount != 2 {
		t.Fatalf("playerCount after leave = %d, want 2", room.PlayerCount)
	}

	// Leaving twice is rejected.
	w = doJSON(t, router, http.MethodPost, leavePath, nil, tokenFor(t, userB))
	assertStatus(t, w, http.StatusBadRequest)

	// Lowering maxPlayers below the current player count is rejected.
	w = doJSON(t, router, http.MethodPut, roomPath, map[string]interface{}{"maxPlayers": 1}, tokenFor(t, organizer))
	assertStatus(t, w, http.StatusBadRequest)

	// A member cannot update or delete the room.
	w = doJSON(t, router, http.MethodPut, roomPath, map[string]interface{}{"name": "Hijacked"}, tokenFor(t, userA))
	assertStatus(t, w, http.StatusForbidden)
	w = doJSON(t, router, http.MethodDelete, roomPath, nil, tokenFor(t, userA))
	assertStatus(t, w, http.StatusForbidden)

	// Partial update by the organizer.
	w = doJSON(t, router, http.MethodPut, roomPath, map[string]interface{}{"description": "Bring water"}, tokenFor(t, organizer))
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &room)
	if room.Description != "Bring water" {
		t.Fatalf("description = %q, want %q", room.Description, "Bring water")
	}
	if room.Name != "Friday game" {
		t.Fatalf("name = %q, want untouched %q", room.Name, "Friday game")
	}

	// Delete by the organizer, then the room no longer resolves.
	w = doJSON(t, router, http.MethodDelete, roomPath, nil, tokenFor(t, organizer))
	assertStatus(t, w, http.StatusOK)
	w = doJSON(t, router, http.MethodGet, roomPath, nil, "")
	assertStatus(t, w, http.StatusNotFound)

	// The deleted room also disappeared from members' profiles.
	var me PrivateUserResponse
	w = doJSON(t, router, http.MethodGet, "/api/users/me", nil, tokenFor(t, userA))
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &me)
	if len(me.JoinedRooms) != 0 {
		t.Fatalf("joinedRooms after room delete = %v, want none", me.JoinedRooms)
	}
}

func TestAdminCanDeleteAnyRoom(t *testing.T) {
	router, db := setupRouter(t)
	organizer := createTestUser(t, db, "organizer", "organizer")
	admin := createTestUser(t, db, "admin", "admin")

	w := doJSON(t, router, http.MethodPost, "/api/rooms/create", roomInput("Friday game", 6), tokenFor(t, organizer))
	assertStatus(t, w, http.StatusCreated)
	var room RoomResponse
	decodeBody(t, w, &room)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", room.ID), nil, tokenFor(t, admin))
	assertStatus(t, w, http.StatusOK)
}

func TestListRoomsFilters(t *testing.T) {
	router, db := setupRouter(t)
	organizer := createTestUser(t, db, "organizer", "organizer")
	token := tokenFor(t, organizer)

	for _, name := range []string{"Friday beach volley", "Indoor training"} {
		w := doJSON(t, router, http.MethodPost, "/api/rooms/create", roomInput(name, 6), token)
		assertStatus(t, w, http.StatusCreated)
	}

	w := doJSON(t, router, http.MethodGet, "/api/rooms?search=beach", nil, "")
	assertStatus(t, w, http.StatusOK)
	var list PaginatedRoomResponse
	decodeBody(t, w, &list)
	if len(list.Data) != 1 || list.Data[0].Name != "Friday beach volley" {
		t.Fatalf("search result = %+v, want just the beach room", list.Data)
	}

	w = doJSON(t, router, http.MethodGet, "/api/rooms?status=completed", nil, "")
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &list)
	if len(list.Data) != 0 {
		t.Fatalf("completed rooms = %d, want 0", len(list.Data))
	}
	if list.Meta.TotalItems != 0 {
		t.Fatalf("total_items = %d, want 0", list.Meta.TotalItems)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	router, db := setupRouter(t)
	player := createTestUser(t, db, "player", "user")

	w := doJSON(t, router, http.MethodPost, "/api/rooms/join/999", nil, tokenFor(t, player))
	assertStatus(t, w, http.StatusNotFound)
}

func TestRoomRoutesRequireAuth(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/rooms/join/1", nil, "")
	assertStatus(t, w, http.StatusUnauthorized)

	w = doJSON(t, router, http.MethodPost, "/api/rooms/create", roomInput("x", 4), "")
	assertStatus(t, w, http.StatusUnauthorized)
}
