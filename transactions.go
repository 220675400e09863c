package main

import (
	"errors"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgsmart/ledger"
	"budgsmart/models"
	"budgsmart/receipt"
)

// dateLayout is the calendar-date wire format for transaction dates.
const dateLayout = "2006-01-02"

func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		appLog.Error().Err(err).Msg("ledger operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	// Tolerate full timestamps, keep only the date part.
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(24 * time.Hour), nil
}

func createTransactionHandler(c *gin.Context) {
	var req struct {
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
		Type        string  `json:"type" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Date        string  `json:"date" binding:"required"`
		Notes       string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a valid date"})
		return
	}
	tx, err := books.Create(c.Request.Context(), currentUserID(c), ledger.Draft{
		Description: req.Description,
		Amount:      decimal.NewFromFloat(req.Amount),
		Type:        models.TransactionType(req.Type),
		Category:    models.TransactionCategory(req.Category),
		Date:        date,
		Notes:       req.Notes,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction created successfully", "transaction": tx})
}

func listTransactionsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	f := ledger.ListFilter{
		Type:     models.TransactionType(c.Query("type")),
		Category: models.TransactionCategory(c.Query("category")),
		Page:     page,
		Limit:    limit,
	}
	if s := c.Query("startDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
			return
		}
		f.StartDate = t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
			return
		}
		f.EndDate = t
	}

	txs, total, err := books.List(c.Request.Context(), currentUserID(c), f)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func getTransactionHandler(c *gin.Context) {
	tx, err := books.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func updateTransactionHandler(c *gin.Context) {
	var req struct {
		Description *string  `json:"description"`
		Amount      *float64 `json:"amount"`
		Type        *string  `json:"type"`
		Category    *string  `json:"category"`
		Date        *string  `json:"date"`
		Notes       *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var patch ledger.Patch
	patch.Description = req.Description
	patch.Notes = req.Notes
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		patch.Amount = &amount
	}
	if req.Type != nil {
		kind := models.TransactionType(*req.Type)
		patch.Type = &kind
	}
	if req.Category != nil {
		category := models.TransactionCategory(*req.Category)
		patch.Category = &category
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a valid date"})
			return
		}
		patch.Date = &date
	}

	tx, err := books.Update(c.Request.Context(), currentUserID(c), c.Param("id"), patch)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction updated successfully", "transaction": tx})
}

func deleteTransactionHandler(c *gin.Context) {
	if err := books.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted successfully"})
}

func transactionStatsHandler(c *gin.Context) {
	period, err := ledger.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stats, err := books.Stats(c.Request.Context(), currentUserID(c), period)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// uploadReceiptHandler attaches a receipt image to a transaction and runs a
// best-effort OCR pass for an amount suggestion. OCR failure never fails the
// upload, and the suggestion never touches the ledger.
func uploadReceiptHandler(c *gin.Context) {
	userID := currentUserID(c)
	tx, err := books.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}

	dir := filepath.Join(appConfig.UploadBase, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, tx.ID+"-"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	rec := models.Receipt{
		TransactionID: tx.ID,
		FileName:      file.Filename,
		StorePath:     fullPath,
		ContentType:   file.Header.Get("Content-Type"),
	}
	if amount, err := receipt.ExtractAmount(fullPath); err == nil {
		rec.SuggestedAmount = &amount
	} else if !errors.Is(err, receipt.ErrNoAmount) {
		appLog.Warn().Err(err).Str("file", fullPath).Msg("receipt ocr failed")
	}
	if err := db.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}
