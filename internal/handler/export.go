package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler serves file downloads of the caller's transactions.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Name", "Type", "Category", "Amount", "Date"}

func (h *ExportHandler) ownTransactions(c *gin.Context, userID uint) ([]models.Transaction, bool) {
	var txns []models.Transaction
	if err := h.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return nil, false
	}
	return txns, true
}

// CSV streams the caller's transactions as a CSV download.
func (h *ExportHandler) CSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	txns, ok := h.ownTransactions(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, t := range txns {
		writer.Write([]string{
			t.Name,
			string(t.Type),
			t.Category,
			strconv.FormatInt(t.Amount, 10),
			t.Date.Format("2006-01-02"),
		})
	}
}

// XLSX writes the caller's transactions as a spreadsheet download.
func (h *ExportHandler) XLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	txns, ok := h.ownTransactions(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, t := range txns {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(t.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Date.Format("2006-01-02"))
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "C", 15)
	f.SetColWidth(sheetName, "D", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
