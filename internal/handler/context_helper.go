package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/middleware"
	"github.com/applepeerke/fishing-sub000/internal/models"
)

func sessionFromContext(c *gin.Context) *models.SessionData {
	return middleware.Session(c)
}

// pageParams reads the skip/limit query parameters with sane defaults.
func pageParams(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if err != nil || limit <= 0 {
		limit = 25
	}
	return skip, limit
}
