package model

import "github.com/google/uuid"

// UserID and PostID are distinct so a post id can never be compared with a user id.
type UserID string

type PostID string

func NewUserID() UserID {
	return UserID(uuid.NewString())
}

func NewPostID() PostID {
	return PostID(uuid.NewString())
}

func (id UserID) String() string {
	return string(id)
}

func (id PostID) String() string {
	return string(id)
}
