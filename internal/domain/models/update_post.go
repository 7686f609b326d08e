package model

type UpdatePostDTO struct {
	Title   string     `json:"title" validate:"required,max=255"`
	Content string     `json:"content" validate:"required,max=10000"`
	Image   ImageInput `json:"-" validate:"-"`
}
