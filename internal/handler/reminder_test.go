package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")

	w := env.request(t, http.MethodPost, "/api/reminders/", token, map[string]interface{}{
		"name":        "Rent",
		"next_date":   "2024-06-01",
		"category":    "Housing",
		"amount":      -1200,
		"frequency":   30,
		"description": "Monthly rent",
	})
	requireStatus(t, w, http.StatusCreated)

	var stored models.Reminder
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, "Rent", stored.Name)
	assert.True(t, stored.Active)
	assert.Equal(t, 30, stored.Frequency)

	// partial update only touches named fields
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/reminders/%d", stored.ID), token,
		map[string]interface{}{"active": false, "amount": -1300})
	requireStatus(t, w, http.StatusOK)

	require.NoError(t, env.db.First(&stored, stored.ID).Error)
	assert.False(t, stored.Active)
	assert.Equal(t, int64(-1300), stored.Amount)
	assert.Equal(t, "Rent", stored.Name)
	assert.Equal(t, 30, stored.Frequency)

	w = env.request(t, http.MethodGet, "/api/reminders/", token, nil)
	requireStatus(t, w, http.StatusOK)
	data := decode(t, w)
	assert.Len(t, data.Data["items"], 1)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", stored.ID), token, nil)
	requireStatus(t, w, http.StatusOK)

	var count int64
	require.NoError(t, env.db.Model(&models.Reminder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateReminderRejectsBadFrequency(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "a@example.com", "+10000000001")

	w := env.request(t, http.MethodPost, "/api/reminders/", token, map[string]interface{}{
		"name":      "Rent",
		"next_date": "2024-06-01",
		"category":  "Housing",
		"amount":    -1200,
		"frequency": -7,
	})
	requireStatus(t, w, http.StatusUnprocessableEntity)
}

func TestUpdateReminderRejectsBadFrequency(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "a@example.com", "+10000000001")
	reminder := env.createReminder(t, user.ID, -100, 30, time.Now())

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/reminders/%d", reminder.ID), token,
		map[string]interface{}{"frequency": 0})
	requireStatus(t, w, http.StatusUnprocessableEntity)
}
