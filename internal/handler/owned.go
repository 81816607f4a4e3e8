package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser pulls the authenticated user out of the gin context. It writes
// a 401 and returns nil if the auth middleware did not run.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return nil
	}
	return user
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// firstOwned fetches the row with the given id belonging to the given user.
// A row owned by someone else is indistinguishable from a missing one: both
// come back as gorm.ErrRecordNotFound, so cross-user probes never leak
// existence.
func firstOwned[T any](db *gorm.DB, userID, id uint) (*T, error) {
	var row T
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// notFoundOrServerErr maps a fetch error to the uniform envelope.
func notFoundOrServerErr(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, what+" not found")
		return
	}
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
}

// pagination parses page/page_size query params with sane caps.
func pagination(c *gin.Context, defaultSize int) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if size <= 0 || size > 500 {
		size = defaultSize
	}
	return size, (page - 1) * size
}
