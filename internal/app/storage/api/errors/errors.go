package storage

import "errors"

var (
	ErrTeamNotFound       = errors.New("team with given id doesn't exist in storage")
	ErrTeamMemberNotFound = errors.New("team doesn't have any member in storage")
	ErrAPIKeyNotFound     = errors.New("given api key doesn't exist in storage")

	ErrOrderNotFound      = errors.New("order with given id doesn't exist in storage for the team")
	ErrOrderIDExists      = errors.New("order with given id already exists in storage")
	ErrOrderStatusChanged = errors.New("order status has been changed concurrently")
	ErrProductNotFound    = errors.New("inventory product doesn't exist in storage for the team")
)
