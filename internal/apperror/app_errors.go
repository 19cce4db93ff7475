package apperror

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUserBanned       = errors.New("user is banned")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrActiveRoomExists = errors.New("user already has an active room")
	ErrRoomNotWaiting   = errors.New("room is no longer available")
	ErrAlreadyCreator   = errors.New("user is already the creator of this room")
	ErrRoomFull         = errors.New("room is already full")
	ErrRoomNotPlaying   = errors.New("game has not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrRoomUnavailable  = errors.New("room is no longer available for this invitation")

	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrInvitationProcessed = errors.New("invitation was already processed")
	ErrInvitationPending   = errors.New("invitation is still pending")

	ErrNotFriends     = errors.New("users are not friends")
	ErrAlreadyFriends = errors.New("users are already friends")
	ErrRequestPending = errors.New("friend request is already pending")
	ErrSelfAction     = errors.New("action cannot target yourself")
)
