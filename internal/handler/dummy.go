package handler

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DummyHandler bulk-inserts randomized fixtures for the caller. Demo/test
// tooling, not production logic.
type DummyHandler struct {
	DB *gorm.DB
}

func NewDummyHandler(db *gorm.DB) *DummyHandler {
	return &DummyHandler{DB: db}
}

var (
	incomeCategories = []string{"Salary", "Freelance", "Gift", "Investment", "Bonus"}

	outcomeCategories = []string{
		"Food", "Housing", "Transportation", "Entertainment", "Healthcare",
		"Shopping", "Utilities", "Education", "Travel", "Other",
	}

	// weekly, bi-weekly, monthly, quarterly
	reminderFrequencies = []int{7, 14, 30, 90}
)

type generateReq struct {
	NumTransactions        int  `json:"num_transactions"`
	NumReminders           int  `json:"num_reminders"`
	NumNotificationsPerRem int  `json:"num_notifications_per_reminder"`
	ClearExisting          bool `json:"clear_existing"`
}

// Generate creates randomized transactions, reminders and notifications for
// the authenticated caller, optionally clearing the caller's existing rows
// first.
func (h *DummyHandler) Generate(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	req := generateReq{
		NumTransactions:        20,
		NumReminders:           3,
		NumNotificationsPerRem: 2,
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
			return
		}
	}
	if req.NumTransactions < 0 || req.NumReminders < 0 || req.NumNotificationsPerRem < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "counts must not be negative")
		return
	}

	if req.ClearExisting {
		log.Printf("clearing existing data for user %d before generating fixtures", user.ID)
		for _, model := range []interface{}{
			&models.Notification{}, &models.Reminder{}, &models.Transaction{},
		} {
			if err := h.DB.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to clear existing data")
				return
			}
		}
	}

	now := time.Now()
	var transactions, reminders, notifications int

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// transactions spanning the last year, roughly 30% income
		for i := 0; i < req.NumTransactions; i++ {
			date := now.AddDate(0, 0, -rand.Intn(366))

			var txn models.Transaction
			if rand.Float64() < 0.3 {
				category := incomeCategories[rand.Intn(len(incomeCategories))]
				txn = models.Transaction{
					UserID:   user.ID,
					Name:     category + " payment",
					Amount:   int64(1000 + rand.Intn(4001)),
					Type:     models.TypeIncome,
					Category: category,
					Date:     date,
				}
			} else {
				category := outcomeCategories[rand.Intn(len(outcomeCategories))]
				txn = models.Transaction{
					UserID:   user.ID,
					Name:     category + " expense",
					Amount:   -int64(50 + rand.Intn(951)),
					Type:     models.TypeOutcome,
					Category: category,
					Date:     date,
				}
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			transactions++
		}

		for i := 0; i < req.NumReminders; i++ {
			category := outcomeCategories[rand.Intn(len(outcomeCategories))]
			reminder := models.Reminder{
				UserID:      user.ID,
				Name:        category + " payment",
				Active:      true,
				NextDate:    now.AddDate(0, 0, 1+rand.Intn(30)),
				Category:    category,
				Amount:      -int64(50 + rand.Intn(451)),
				Frequency:   reminderFrequencies[rand.Intn(len(reminderFrequencies))],
				Description: fmt.Sprintf("Reminder for %s payment", strings.ToLower(category)),
			}
			if err := tx.Create(&reminder).Error; err != nil {
				return err
			}
			reminders++

			for j := 0; j < req.NumNotificationsPerRem; j++ {
				notification := models.Notification{
					UserID:     user.ID,
					ReminderID: reminder.ID,
					Date:       reminder.NextDate.AddDate(0, 0, -rand.Intn(8)),
					Name:       "Reminder: " + reminder.Name,
				}
				if err := tx.Create(&notification).Error; err != nil {
					return err
				}
				notifications++
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to generate data")
		return
	}

	log.Printf("generated fixtures for user %d: %d transactions, %d reminders, %d notifications",
		user.ID, transactions, reminders, notifications)

	util.Success(c, util.Response{
		"transactions_created":  transactions,
		"reminders_created":     reminders,
		"notifications_created": notifications,
	})
}
