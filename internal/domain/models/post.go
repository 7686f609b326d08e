package model

import "time"

type Creator struct {
	ID   UserID `json:"_id"`
	Name string `json:"name,omitempty"`
}

type Post struct {
	ID        PostID    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy is the single ownership rule for every post mutation.
func (p *Post) OwnedBy(userID UserID) bool {
	return p.Creator.ID == userID
}

type PostPage struct {
	Posts      []*Post `json:"posts"`
	TotalItems int     `json:"totalItems"`
}
