package models

import (
	"errors"
)

var (
	ErrTaskNotFound           = errors.New("models: task not found")
	ErrOfferNotFound          = errors.New("models: offer not found")
	ErrChatNotFound           = errors.New("models: chat not found")
	ErrProNotFound            = errors.New("models: professional not found")
	ErrForbidden              = errors.New("models: actor is not allowed to perform this action")
	ErrInvalidState           = errors.New("models: transition not legal from current state")
	ErrTaskNotBiddable        = errors.New("models: task is not open for offers")
	ErrDuplicateOffer         = errors.New("models: offer already exists for this task and professional")
	ErrTaskNotAcceptingOffers = errors.New("models: task is no longer accepting offers")
	ErrOfferNotAcceptable     = errors.New("models: offer cannot be accepted from its current status")
	ErrIncompleteTask         = errors.New("models: task is missing title, description or category")
)
