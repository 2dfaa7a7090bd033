package dto

import "github.com/civicwaste/swm-backend/models"

type EntityList struct {
	Items      []models.EntityRow `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

func AdaptEntityList(page models.Paginated[models.EntityRow]) EntityList {
	items := page.Items
	if items == nil {
		items = []models.EntityRow{}
	}
	return EntityList{Items: items, Pagination: AdaptPaginationDto(page)}
}

type EntityMutation struct {
	Id        string `json:"id"`
	Operation string `json:"operation"`
}
