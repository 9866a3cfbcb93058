package boardrepo

import "errors"

var (
	ErrNotFound           = errors.New("board not found")
	ErrColumnNotFound     = errors.New("column not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrAlreadyMember      = errors.New("user already belongs to the board")
)
