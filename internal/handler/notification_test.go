package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/handler"
	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAcceptNotification(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	nextDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reminder := env.createReminder(t, user.ID, -100, 30, nextDate)
	notification := env.createNotification(t, user.ID, reminder.ID, nextDate)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "accepted"})
	requireStatus(t, w, http.StatusOK)

	// response is the snapshot of the consumed notification
	data := decode(t, w)
	snap, ok := data.Data["notification"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(notification.ID), snap["id"])
	assert.Equal(t, string(models.StatusPending), snap["status"])

	// exactly one transaction, carrying the reminder's amount
	var txns []models.Transaction
	require.NoError(t, env.db.Where("user_id = ?", user.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(-100), txns[0].Amount)
	assert.Equal(t, models.TypeOutcome, txns[0].Type)
	assert.Equal(t, handler.ReminderPaymentCategory, txns[0].Category)
	assert.Equal(t, "Payment for "+notification.Name, txns[0].Name)

	// reminder advanced by its frequency: 2024-01-01 + 30d = 2024-01-31
	var updated models.Reminder
	require.NoError(t, env.db.First(&updated, reminder.ID).Error)
	assert.True(t, updated.NextDate.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
		"next_date = %v", updated.NextDate)

	// notification is gone
	err := env.db.First(&models.Notification{}, notification.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRefuseNotification(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	nextDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reminder := env.createReminder(t, user.ID, -100, 30, nextDate)
	notification := env.createNotification(t, user.ID, reminder.ID, nextDate)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "refused"})
	requireStatus(t, w, http.StatusOK)

	// no transaction is created on refuse
	var count int64
	require.NoError(t, env.db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)

	// but the schedule still advances
	var updated models.Reminder
	require.NoError(t, env.db.First(&updated, reminder.ID).Error)
	assert.True(t, updated.NextDate.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
		"next_date = %v", updated.NextDate)

	err := env.db.First(&models.Notification{}, notification.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExtendNotification(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	nextDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	reminder := env.createReminder(t, user.ID, -100, 30, nextDate)
	notification := env.createNotification(t, user.ID, reminder.ID, nextDate)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "extended"})
	requireStatus(t, w, http.StatusOK)

	// date pushed out one day, row still present and still resolvable
	var updated models.Notification
	require.NoError(t, env.db.First(&updated, notification.ID).Error)
	assert.True(t, updated.Date.Equal(notification.Date.AddDate(0, 0, 1)),
		"date = %v", updated.Date)

	// reminder untouched by extension
	var rem models.Reminder
	require.NoError(t, env.db.First(&rem, reminder.ID).Error)
	assert.True(t, rem.NextDate.Equal(nextDate), "next_date = %v", rem.NextDate)

	// a later accept still works
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "accepted"})
	requireStatus(t, w, http.StatusOK)
}

func TestPendingStatusLeavesNotificationUnchanged(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	reminder := env.createReminder(t, user.ID, -100, 30, time.Now())
	notification := env.createNotification(t, user.ID, reminder.ID, time.Now())

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "pending"})
	requireStatus(t, w, http.StatusOK)

	var updated models.Notification
	require.NoError(t, env.db.First(&updated, notification.ID).Error)
	assert.Equal(t, notification.Date.Unix(), updated.Date.Unix())
}

func TestResolveUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	reminder := env.createReminder(t, user.ID, -100, 30, time.Now())
	notification := env.createNotification(t, user.ID, reminder.ID, time.Now())

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "snoozed"})
	requireStatus(t, w, http.StatusUnprocessableEntity)
}

func TestResolveOrphanedNotification(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	reminder := env.createReminder(t, user.ID, -100, 30, time.Now())
	notification := env.createNotification(t, user.ID, reminder.ID, time.Now())

	// sever the reminder out from under the notification
	require.NoError(t, env.db.Delete(&models.Reminder{}, reminder.ID).Error)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), token,
		map[string]string{"status": "accepted"})
	requireStatus(t, w, http.StatusBadRequest)
	data := decode(t, w)
	assert.Equal(t, util.CodePrecondition, data.Code)

	// nothing was consumed or created
	var count int64
	require.NoError(t, env.db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.First(&models.Notification{}, notification.ID).Error)
}

func TestNotificationOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", "+10000000001")
	_, bobToken := env.createUser(t, "bob@example.com", "+10000000002")

	reminder := env.createReminder(t, alice.ID, -100, 30, time.Now())
	notification := env.createNotification(t, alice.ID, reminder.ID, time.Now())

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/notifications/%d", notification.ID), bobToken, nil)
	requireStatus(t, w, http.StatusNotFound)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d", notification.ID), bobToken,
		map[string]string{"status": "accepted"})
	requireStatus(t, w, http.StatusNotFound)

	// Alice's schedule is untouched by the failed foreign resolution
	var rem models.Reminder
	require.NoError(t, env.db.First(&rem, reminder.ID).Error)
	assert.Equal(t, reminder.NextDate.Unix(), rem.NextDate.Unix())
}

func TestCreateNotificationRequiresOwnedReminder(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", "+10000000001")
	_, bobToken := env.createUser(t, "bob@example.com", "+10000000002")

	reminder := env.createReminder(t, alice.ID, -100, 30, time.Now())

	// Bob cannot hang a notification off Alice's reminder
	w := env.request(t, http.MethodPost, "/api/notifications/", bobToken, map[string]interface{}{
		"reminder_id": reminder.ID,
		"name":        "Sneaky",
	})
	requireStatus(t, w, http.StatusNotFound)

	// nonexistent reminder is the same failure
	w = env.request(t, http.MethodPost, "/api/notifications/", bobToken, map[string]interface{}{
		"reminder_id": 9999,
		"name":        "Ghost",
	})
	requireStatus(t, w, http.StatusNotFound)
}

func TestReminderOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", "+10000000001")
	_, bobToken := env.createUser(t, "bob@example.com", "+10000000002")

	reminder := env.createReminder(t, alice.ID, -100, 30, time.Now())

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/reminders/%d", reminder.ID), bobToken, nil)
	requireStatus(t, w, http.StatusNotFound)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/reminders/%d", reminder.ID), bobToken,
		map[string]interface{}{"amount": -1})
	requireStatus(t, w, http.StatusNotFound)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", reminder.ID), bobToken, nil)
	requireStatus(t, w, http.StatusNotFound)
}
