package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReminderHandler serves recurring-payment templates.
type ReminderHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewReminderHandler(db *gorm.DB, pageSize int) *ReminderHandler {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ReminderHandler{DB: db, PageSize: pageSize}
}

type createReminderReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Active      *bool  `json:"active"`
	NextDate    string `json:"next_date" binding:"required"`
	Category    string `json:"category" binding:"required,max=50"`
	Amount      int64  `json:"amount" binding:"required"`
	Frequency   int    `json:"frequency" binding:"required"`
	Description string `json:"description" binding:"max=255"`
}

type updateReminderReq struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Active      *bool   `json:"active"`
	NextDate    *string `json:"next_date"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	Amount      *int64  `json:"amount"`
	Frequency   *int    `json:"frequency"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type reminderResp struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	NextDate    time.Time `json:"next_date"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Frequency   int       `json:"frequency"`
	Description string    `json:"description"`
	Created     time.Time `json:"created_at"`
}

func toReminderResp(r *models.Reminder) reminderResp {
	return reminderResp{
		ID:          r.ID,
		Name:        r.Name,
		Active:      r.Active,
		NextDate:    r.NextDate,
		Category:    r.Category,
		Amount:      r.Amount,
		Frequency:   r.Frequency,
		Description: r.Description,
		Created:     r.CreatedAt,
	}
}

// Create registers a new reminder for the caller.
func (h *ReminderHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createReminderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	nextDate, err := util.ParseDate(req.NextDate)
	if err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "invalid next_date format")
		return
	}
	if err := util.ValidateFrequency(req.Frequency); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	reminder := models.Reminder{
		UserID:      user.ID,
		Name:        req.Name,
		Active:      active,
		NextDate:    nextDate,
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Description: req.Description,
	}
	if err := h.DB.Create(&reminder).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save reminder")
		return
	}

	log.Printf("user %d created reminder %d", user.ID, reminder.ID)
	util.Created(c, util.Response{"reminder": toReminderResp(&reminder)})
}

// List returns the caller's reminders.
func (h *ReminderHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	limit, offset := pagination(c, h.PageSize)

	var reminders []models.Reminder
	if err := h.DB.
		Where("user_id = ?", user.ID).
		Order("next_date ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&reminders).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]reminderResp, 0, len(reminders))
	for i := range reminders {
		items = append(items, toReminderResp(&reminders[i]))
	}

	util.Success(c, util.Response{"items": items})
}

// Get returns one of the caller's reminders by id.
func (h *ReminderHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	reminder, err := firstOwned[models.Reminder](h.DB, user.ID, id)
	if err != nil {
		notFoundOrServerErr(c, err, "reminder")
		return
	}

	util.Success(c, util.Response{"reminder": toReminderResp(reminder)})
}

// Update applies a partial update to one of the caller's reminders.
func (h *ReminderHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateReminderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	reminder, err := firstOwned[models.Reminder](h.DB, user.ID, id)
	if err != nil {
		notFoundOrServerErr(c, err, "reminder")
		return
	}

	if req.Name != nil {
		reminder.Name = *req.Name
	}
	if req.Active != nil {
		reminder.Active = *req.Active
	}
	if req.NextDate != nil {
		nextDate, err := util.ParseDate(*req.NextDate)
		if err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "invalid next_date format")
			return
		}
		reminder.NextDate = nextDate
	}
	if req.Category != nil {
		reminder.Category = strings.TrimSpace(*req.Category)
	}
	if req.Amount != nil {
		reminder.Amount = *req.Amount
	}
	if req.Frequency != nil {
		if err := util.ValidateFrequency(*req.Frequency); err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, err.Error())
			return
		}
		reminder.Frequency = *req.Frequency
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}

	if err := h.DB.Save(reminder).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update reminder")
		return
	}

	util.Success(c, util.Response{"reminder": toReminderResp(reminder)})
}

// Delete removes one of the caller's reminders.
func (h *ReminderHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Reminder{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "reminder not found")
		return
	}

	log.Printf("user %d deleted reminder %d", user.ID, id)
	util.Success(c, util.Response{"deleted": id})
}
