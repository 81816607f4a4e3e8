package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/router"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv builds a router over a fresh in-memory database. Each call gets
// its own named shared-cache DSN so the pool's connections see one database
// and tests stay isolated from each other.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
		JWT:      config.JWTConfig{Secret: testJWTSecret, ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		App:      config.AppSubConfig{PageSize: 100},
	}

	db, err := database.Init(cfg.Database)
	require.NoError(t, err, "init test database")
	require.NoError(t, database.AutoMigrate(db))

	return &testEnv{db: db, router: router.Setup(cfg, db)}
}

// createUser inserts a user directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, email, phone string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:           "Test User",
		Email:          email,
		Phone:          phone,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	require.NoError(t, e.db.Create(&user).Error)

	token, err := util.GenerateToken(testJWTSecret, user.ID, time.Hour)
	require.NoError(t, err)
	return &user, token
}

// request performs an HTTP call against the test router.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "decode response: %s", w.Body.String())
	return env
}

// createTransaction inserts a transaction row directly.
func (e *testEnv) createTransaction(t *testing.T, userID uint, amount int64, typ models.TransactionType, category string, date time.Time) *models.Transaction {
	t.Helper()
	txn := models.Transaction{
		UserID:   userID,
		Name:     category,
		Amount:   amount,
		Type:     typ,
		Category: category,
		Date:     date,
	}
	require.NoError(t, e.db.Create(&txn).Error)
	return &txn
}

// createReminder inserts a reminder row directly.
func (e *testEnv) createReminder(t *testing.T, userID uint, amount int64, frequency int, nextDate time.Time) *models.Reminder {
	t.Helper()
	reminder := models.Reminder{
		UserID:    userID,
		Name:      "Rent",
		Active:    true,
		NextDate:  nextDate,
		Category:  "Housing",
		Amount:    amount,
		Frequency: frequency,
	}
	require.NoError(t, e.db.Create(&reminder).Error)
	return &reminder
}

// createNotification inserts a notification row directly.
func (e *testEnv) createNotification(t *testing.T, userID, reminderID uint, date time.Time) *models.Notification {
	t.Helper()
	notification := models.Notification{
		UserID:     userID,
		ReminderID: reminderID,
		Name:       "Rent due",
		Date:       date,
	}
	require.NoError(t, e.db.Create(&notification).Error)
	return &notification
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
