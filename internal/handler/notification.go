package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReminderPaymentCategory is the category stamped on transactions created by
// accepting a notification.
const ReminderPaymentCategory = "Reminder Payment"

// NotificationHandler serves notifications and the resolution workflow.
type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

type createNotificationReq struct {
	ReminderID uint   `json:"reminder_id" binding:"required"`
	Name       string `json:"name" binding:"required,max=100"`
	Date       string `json:"date"`
}

type updateNotificationReq struct {
	Status string `json:"status" binding:"required"`
}

type notificationResp struct {
	ID         uint                      `json:"id"`
	ReminderID uint                      `json:"reminder_id"`
	Name       string                    `json:"name"`
	Date       time.Time                 `json:"date"`
	Status     models.NotificationStatus `json:"status"`
	Created    time.Time                 `json:"created_at"`
	Updated    time.Time                 `json:"updated_at"`
}

// toNotificationResp renders a stored notification. Stored rows are pending
// by definition; terminal decisions delete the row, so the reported status
// is always pending.
func toNotificationResp(n *models.Notification) notificationResp {
	return notificationResp{
		ID:         n.ID,
		ReminderID: n.ReminderID,
		Name:       n.Name,
		Date:       n.Date,
		Status:     models.StatusPending,
		Created:    n.CreatedAt,
		Updated:    n.UpdatedAt,
	}
}

// Create surfaces a new notification for one of the caller's reminders. The
// reminder must exist and be owned by the caller.
func (h *NotificationHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if _, err := firstOwned[models.Reminder](h.DB, user.ID, req.ReminderID); err != nil {
		notFoundOrServerErr(c, err, "reminder")
		return
	}

	date := time.Now()
	if req.Date != "" {
		t, err := util.ParseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "invalid date format")
			return
		}
		date = t
	}

	notification := models.Notification{
		UserID:     user.ID,
		ReminderID: req.ReminderID,
		Name:       req.Name,
		Date:       date,
	}
	if err := h.DB.Create(&notification).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save notification")
		return
	}

	util.Created(c, util.Response{"notification": toNotificationResp(&notification)})
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var notifications []models.Notification
	if err := h.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]notificationResp, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationResp(&notifications[i]))
	}

	util.Success(c, util.Response{"items": items})
}

// Get returns one of the caller's notifications by id.
func (h *NotificationHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	notification, err := firstOwned[models.Notification](h.DB, user.ID, id)
	if err != nil {
		notFoundOrServerErr(c, err, "notification")
		return
	}

	util.Success(c, util.Response{"notification": toNotificationResp(notification)})
}

// Resolve applies a decision to a pending notification:
//
//   - accepted: record a transaction for the reminder's amount, advance the
//     reminder's next date by its frequency, delete the notification;
//   - refused: advance the next date and delete, no transaction;
//   - extended: push the notification's date out one day, keep it pending;
//   - pending: touch the row and return it unchanged.
//
// Accept and refuse return a snapshot of the notification as it was right
// before deletion. A notification whose reminder no longer exists fails
// closed with a precondition error.
func (h *NotificationHandler) Resolve(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	status := models.NotificationStatus(req.Status)
	if !status.Valid() {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "unknown notification status")
		return
	}

	notification, err := firstOwned[models.Notification](h.DB, user.ID, id)
	if err != nil {
		notFoundOrServerErr(c, err, "notification")
		return
	}

	var reminder models.Reminder
	if err := h.DB.First(&reminder, notification.ReminderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, util.CodePrecondition, "no reminder associated with this notification")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	// snapshot taken before any mutation, so terminal decisions can still
	// answer with the row they consumed
	snapshot := toNotificationResp(notification)

	switch status {
	case models.StatusAccepted, models.StatusRefused:
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			// the delete doubles as a guard: if a concurrent resolution
			// already consumed this notification, nothing is advanced
			res := tx.Delete(&models.Notification{}, notification.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}

			reminder.NextDate = reminder.NextDate.AddDate(0, 0, reminder.Frequency)
			if err := tx.Save(&reminder).Error; err != nil {
				return err
			}

			if status == models.StatusAccepted {
				payment := models.Transaction{
					UserID:   user.ID,
					Name:     "Payment for " + notification.Name,
					Amount:   reminder.Amount,
					Type:     models.TypeOutcome,
					Category: ReminderPaymentCategory,
					Date:     time.Now(),
				}
				if err := tx.Create(&payment).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusNotFound, util.CodeNotFound, "notification not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to resolve notification")
			}
			return
		}

		log.Printf("user %d resolved notification %d as %s", user.ID, notification.ID, status)
		util.Success(c, util.Response{"notification": snapshot})

	case models.StatusExtended:
		notification.Date = notification.Date.AddDate(0, 0, 1)
		if err := h.DB.Save(notification).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to extend notification")
			return
		}
		util.Success(c, util.Response{"notification": toNotificationResp(notification)})

	default:
		// pending: nothing changes in substance, the row is just touched
		if err := h.DB.Save(notification).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update notification")
			return
		}
		util.Success(c, util.Response{"notification": toNotificationResp(notification)})
	}
}
