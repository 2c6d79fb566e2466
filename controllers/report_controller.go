package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lodge-desk/services"
	"lodge-desk/utils"
)

type ExpensePayload struct {
	Description   string `json:"description" binding:"required"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

// maxPhotoBytes caps a single ID photo upload.
const maxPhotoBytes = 10 << 20

type ReportController struct {
	Ledger *services.LedgerService
	Log    *zap.Logger
}

func NewReportController(ledger *services.LedgerService, log *zap.Logger) *ReportController {
	return &ReportController{Ledger: ledger, Log: log}
}

// GET /api/totals
func (rc *ReportController) GetTotals(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, rc.Ledger.Totals())
}

// GET /api/reports/daily?date=YYYY-MM-DD
func (rc *ReportController) DailyReport(c *gin.Context) {
	report, err := rc.Ledger.DailyReport(c.Query("date"))
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

// POST /api/expenses
func (rc *ReportController) RecordExpense(c *gin.Context) {
	var p ExpensePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.RecordExpense(c.Request.Context(), p.Description, p.Amount, p.PaymentMethod)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/upload_photo (multipart, field "photo")
func (rc *ReportController) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No file part")
		return
	}
	if fh.Filename == "" {
		utils.JSONError(c, http.StatusBadRequest, "No selected file")
		return
	}
	if fh.Size > maxPhotoBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}

	url, err := rc.Ledger.UploadPhoto(c.Request.Context(), data, fh.Filename)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "photoPath": url})
}
