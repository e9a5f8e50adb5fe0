package handlers

import (
	"errors"
	"strconv"

	"agrilink/internal/catalog"
)

var errInvalidPagination = errors.New("invalid pagination params")

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(catalog.DefaultPageSize)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errInvalidPagination
		}
		limit = l
	}

	return page, limit, nil
}

// parseLimit reads an optional positive limit; an empty value means 0 (no limit).
func parseLimit(limitStr string) (int64, error) {
	if limitStr == "" {
		return 0, nil
	}
	l, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || l < 1 {
		return 0, errInvalidPagination
	}
	return l, nil
}
