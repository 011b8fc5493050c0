package usecase

import "errors"

var (
	ErrTokenNotValid = errors.New("token is not valid")
	ErrTokenExpired  = errors.New("token is expired")

	ErrInvalidStatusTransition = errors.New("order status transition is not allowed")
	ErrEmptyOrderItems         = errors.New("order must contain at least one item")
	ErrCreatorRequired         = errors.New("order creator is required")
)
