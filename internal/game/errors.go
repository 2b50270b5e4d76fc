package game

import "errors"

var (
	// ErrRoomNotFound is a recoverable join failure: the code stays editable
	// on the client, nothing navigates.
	ErrRoomNotFound = errors.New("game: room not found")

	// ErrRoomVanished means the room document became nil while a match was
	// in progress. Fatal for the session.
	ErrRoomVanished = errors.New("game: room no longer exists")

	// ErrSessionClosed is returned when Start races a concurrent Close.
	ErrSessionClosed = errors.New("game: session closed")
)
