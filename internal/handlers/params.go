package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var errInvalidID = errors.New("invalid id in path")

// parseIDParam parses a numeric path parameter. A non-numeric id is a
// bad request before any lookup happens.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseBoolQuery reads a 0/1 (or true/false) query flag, returning nil
// when the parameter is absent or unparseable.
func parseBoolQuery(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	switch raw {
	case "1", "true", "True":
		v := true
		return &v
	case "0", "false", "False":
		v := false
		return &v
	default:
		return nil
	}
}

// parseRecipesLimit treats a non-numeric, absent or non-positive
// recipes_limit as "no truncation".
func parseRecipesLimit(c *gin.Context) int {
	raw := c.Query("recipes_limit")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}
