package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
)

const maxBodyBytes = 1 << 20

// bindInput decodes a body holding exactly one JSON object into an Input.
// Numbers are kept as json.Number so prices keep their decimal digits.
func bindInput(c *gin.Context) (subscriptiondomain.Input, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, ErrInvalidRequest
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var in subscriptiondomain.Input
	if err := dec.Decode(&in); err != nil || in == nil {
		return nil, ErrInvalidRequest
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrInvalidRequest
	}
	return in, nil
}

// parsePagination reads page and limit leniently: values that are missing or
// not integers fall back to the defaults.
func parsePagination(c *gin.Context) pagination.Pagination {
	return pagination.Pagination{
		Page:  parseOptionalInt(c.Query("page")),
		Limit: parseOptionalInt(c.Query("limit")),
	}.Normalize()
}

func parseOptionalInt(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return parsed
}
