package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

// pathID parses the :id path parameter. A non-numeric ID can never name an
// existing record, so it is reported as not found.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
	}
	return id, nil
}
