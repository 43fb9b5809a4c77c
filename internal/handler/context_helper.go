package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/program-workboard-api/internal/models"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}

// optionalIDQuery returns nil when the query parameter is absent.
func optionalIDQuery(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return &id, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return v, nil
}

func invalidBody(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}

// paginate slices rows when a page size is requested. Pages start at 1.
func paginate[T any](rows []T, page, pageSize int) ([]T, *models.Pagination) {
	if pageSize <= 0 {
		return rows, nil
	}
	if page < 1 {
		page = 1
	}
	meta := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(rows)}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []T{}, meta
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], meta
}
