package model

type CreatePostDTO struct {
	CreatorID UserID     `json:"creator_id" validate:"required"`
	Title     string     `json:"title" validate:"required,max=255"`
	Content   string     `json:"content" validate:"required,max=10000"`
	Image     ImageInput `json:"-" validate:"-"`
}
