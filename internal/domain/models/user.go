package model

import "time"

const DefaultStatus = "I am new!"

type User struct {
	ID        UserID    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Status    string    `json:"status"`
	Posts     []PostID  `json:"posts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the minimal creator view attached to posts.
func (u *User) Summary() Creator {
	return Creator{ID: u.ID, Name: u.Name}
}
