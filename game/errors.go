package game

import "errors"

// Error kinds the core distinguishes between. Command errors are
// returned synchronously in the command's reply envelope and never
// broadcast.
var (
	ErrNotAuthorised  = errors.New("not-authorised")
	ErrWrongPhase     = errors.New("wrong-phase")
	ErrRoomFull       = errors.New("room-full")
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrCodeExhaustion = errors.New("code-exhaustion")
	ErrInvalidInput   = errors.New("invalid-input")
	ErrNotMember      = errors.New("not-member")
	ErrBanned         = errors.New("banned")
	ErrRateLimited    = errors.New("rate-limited")
)
