package model

type PostFilters struct {
	Limit  *int
	Offset *int
}
