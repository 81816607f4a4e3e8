package handler

import (
	"log"
	"net/http"
	"strings"

	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler serves account creation and the /users/me endpoints.
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, bcryptCost int) *UserHandler {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserHandler{DB: db, BcryptCost: bcryptCost}
}

type createUserReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserReq struct {
	Name     string `json:"name" binding:"max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func userResp(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"is_active": u.IsActive,
	}
}

// taken reports whether another user already holds the given column value.
func (h *UserHandler) taken(column, value string, excludeID uint) (bool, error) {
	var count int64
	q := h.DB.Model(&models.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create registers a new account. Duplicate email or phone is a conflict,
// a malformed phone or short password a validation failure.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := util.ValidatePhone(req.Phone); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "invalid phone number format")
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, err.Error())
		return
	}

	if dup, err := h.taken("email", req.Email, 0); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
		return
	} else if dup {
		util.Error(c, http.StatusBadRequest, util.CodeConflict, "email already registered")
		return
	}
	if dup, err := h.taken("phone", req.Phone, 0); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check phone")
		return
	} else if dup {
		util.Error(c, http.StatusBadRequest, util.CodeConflict, "phone number already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	log.Printf("new user created: %d", user.ID)
	util.Created(c, util.Response{"user": userResp(&user)})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	util.Success(c, util.Response{"user": userResp(user)})
}

// UpdateMe applies a partial update to the authenticated user. Uniqueness of
// email and phone is re-checked against other accounts.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Email != "" && req.Email != user.Email {
		if dup, err := h.taken("email", req.Email, user.ID); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
			return
		} else if dup {
			util.Error(c, http.StatusBadRequest, util.CodeConflict, "email already registered")
			return
		}
		user.Email = req.Email
	}
	if req.Phone != "" && req.Phone != user.Phone {
		if err := util.ValidatePhone(req.Phone); err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "invalid phone number format")
			return
		}
		if dup, err := h.taken("phone", req.Phone, user.ID); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check phone")
			return
		} else if dup {
			util.Error(c, http.StatusBadRequest, util.CodeConflict, "phone number already registered")
			return
		}
		user.Phone = req.Phone
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		if err := util.ValidatePassword(req.Password); err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, err.Error())
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}
		user.HashedPassword = string(hash)
	}

	if err := h.DB.Save(user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update user")
		return
	}

	log.Printf("user %d updated their profile", user.ID)
	util.Success(c, util.Response{"user": userResp(user)})
}
