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

// TransactionHandler serves financial entries and the dashboard views.
type TransactionHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &TransactionHandler{DB: db, PageSize: pageSize}
}

type createTransactionReq struct {
	Name     string `json:"name" binding:"max=100"`
	Amount   int64  `json:"amount" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Category string `json:"category" binding:"required,max=50"`
	Date     string `json:"date"`
}

type transactionResp struct {
	ID       uint                   `json:"id"`
	Name     string                 `json:"name"`
	Amount   int64                  `json:"amount"`
	Type     models.TransactionType `json:"type"`
	Category string                 `json:"category"`
	Date     time.Time              `json:"date"`
	Created  time.Time              `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:       t.ID,
		Name:     t.Name,
		Amount:   t.Amount,
		Type:     t.Type,
		Category: t.Category,
		Date:     t.Date,
		Created:  t.CreatedAt,
	}
}

// normalizeAmount coerces the sign of an amount to match its type: outcome
// is stored negative, income positive. Applied only at creation.
func normalizeAmount(typ models.TransactionType, amount int64) int64 {
	switch {
	case typ == models.TypeOutcome && amount > 0:
		return -amount
	case typ == models.TypeIncome && amount < 0:
		return -amount
	}
	return amount
}

// Create records a new transaction for the caller.
func (h *TransactionHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	typ, ok := models.ParseTransactionType(strings.ToLower(req.Type))
	if !ok {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "type must be income or outcome")
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

	txn := models.Transaction{
		UserID:   user.ID,
		Name:     req.Name,
		Amount:   normalizeAmount(typ, req.Amount),
		Type:     typ,
		Category: strings.TrimSpace(req.Category),
		Date:     date,
	}
	if err := h.DB.Create(&txn).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}

	log.Printf("user %d created transaction %d", user.ID, txn.ID)
	util.Created(c, util.Response{"transaction": toTransactionResp(&txn)})
}

// List returns the caller's transactions, newest first, with optional type
// and category filters.
func (h *TransactionHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	limit, offset := pagination(c, h.PageSize)

	q := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)
	if typ, ok := models.ParseTransactionType(c.Query("type")); ok {
		q = q.Where("type = ?", typ)
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("category = ?", cat)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var txns []models.Transaction
	if err := q.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]transactionResp, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResp(&txns[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
	})
}

// Get returns one of the caller's transactions by id.
func (h *TransactionHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	txn, err := firstOwned[models.Transaction](h.DB, user.ID, id)
	if err != nil {
		notFoundOrServerErr(c, err, "transaction")
		return
	}

	util.Success(c, util.Response{"transaction": toTransactionResp(txn)})
}

// Delete removes one of the caller's transactions. Deleting a foreign or
// missing row reports not found.
func (h *TransactionHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Transaction{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}

	log.Printf("user %d deleted transaction %d", user.ID, id)
	util.Success(c, util.Response{"deleted": id})
}
