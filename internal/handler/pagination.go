package handler

import (
	"fmt"

	"contact-service/internal/model"

	"github.com/labstack/echo/v4"
)

// PaginatedResponse is the envelope returned by the contact listing
// endpoint: one page of data plus page metadata and navigation links.
type PaginatedResponse struct {
	Data  []model.Contact `json:"data"`
	Meta  PaginationMeta  `json:"meta"`
	Links PaginationLinks `json:"links"`
}

// PaginationMeta describes the current page relative to the full
// filtered result set
type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
}

// PaginationLinks holds absolute URLs for page navigation. Prev and
// next are null at the boundaries; last is null when there are no
// pages at all.
type PaginationLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// buildLinks constructs the navigation links from the request's own
// scheme, host and path so they stay valid behind any hostname
func buildLinks(c echo.Context, page, perPage, totalPages int) PaginationLinks {
	baseURL := fmt.Sprintf("%s://%s%s", c.Scheme(), c.Request().Host, c.Request().URL.Path)

	pageURL := func(p int) *string {
		u := fmt.Sprintf("%s?page=%d&perPage=%d", baseURL, p, perPage)
		return &u
	}

	links := PaginationLinks{
		First: pageURL(1),
	}

	if totalPages > 0 {
		links.Last = pageURL(totalPages)
	}
	if page > 1 {
		links.Prev = pageURL(page - 1)
	}
	if page < totalPages {
		links.Next = pageURL(page + 1)
	}

	return links
}
