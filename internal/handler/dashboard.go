package handler

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CategoryBreakdown reports each category's share of the caller's total
// absolute spending, rounded to 2 decimals. With no outcome transactions the
// mapping is empty; with a zero total the present categories get an equal
// share instead of a division by zero.
func (h *TransactionHandler) CategoryBreakdown(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var txns []models.Transaction
	if err := h.DB.
		Where("user_id = ? AND type = ?", user.ID, models.TypeOutcome).
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	totals := make(map[string]int64)
	var totalAbs int64
	for i := range txns {
		abs := txns[i].Amount
		if abs < 0 {
			abs = -abs
		}
		totals[txns[i].Category] += abs
		totalAbs += abs
	}

	shares := make(map[string]float64, len(totals))
	if len(totals) > 0 {
		if totalAbs == 0 {
			equal := decimal.NewFromInt(1).
				Div(decimal.NewFromInt(int64(len(totals)))).
				Round(2).InexactFloat64()
			for cat := range totals {
				shares[cat] = equal
			}
		} else {
			denom := decimal.NewFromInt(totalAbs)
			for cat, sum := range totals {
				shares[cat] = decimal.NewFromInt(sum).
					Div(denom).
					Round(2).InexactFloat64()
			}
		}
	}

	util.Success(c, util.Response{"categories": shares})
}

// MonthlySpending sums the caller's outcome amounts per calendar month of
// the requested year (default: current year), reported as absolute values.
// All twelve months are always present.
func (h *TransactionHandler) MonthlySpending(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	year := time.Now().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 1 {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "invalid year")
			return
		}
		year = y
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var txns []models.Transaction
	if err := h.DB.
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			user.ID, models.TypeOutcome, start, end).
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	monthly := make(map[string]float64, 12)
	for m := time.January; m <= time.December; m++ {
		monthly[m.String()] = 0.0
	}
	for i := range txns {
		abs := txns[i].Amount
		if abs < 0 {
			abs = -abs
		}
		monthly[txns[i].Date.Month().String()] += float64(abs)
	}

	util.Success(c, util.Response{
		"year":     year,
		"spending": monthly,
	})
}
