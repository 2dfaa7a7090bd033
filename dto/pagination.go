package dto

import "github.com/civicwaste/swm-backend/models"

type PaginationQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func AdaptPagination(input PaginationQuery) models.Pagination {
	return models.Pagination{Page: input.Page, Limit: input.Limit}.Normalize()
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func AdaptPaginationDto[T any](page models.Paginated[T]) Pagination {
	return Pagination{
		Page:  page.Pagination.Page,
		Limit: page.Pagination.Limit,
		Total: page.Total,
		Pages: page.TotalPages(),
	}
}
