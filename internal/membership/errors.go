package membership

import "errors"

// Precondition failures returned by the membership service. Handlers map
// these onto HTTP statuses; anything else is a store failure.
var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomFull             = errors.New("room is already full")
	ErrAlreadyMember        = errors.New("user has already joined this room")
	ErrNotMember            = errors.New("user is not a member of this room")
	ErrOrganizerLeave       = errors.New("organizer cannot leave their own room")
	ErrNotOrganizer         = errors.New("only the organizer or an admin may do this")
	ErrCapacityBelowPlayers = errors.New("max players cannot be lower than the current player count")
)
