// controllers/booking_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lodge-desk/services"
	"lodge-desk/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	Room          string `json:"room" binding:"required"`
	GuestName     string `json:"guest_name"`
	GuestMobile   string `json:"guest_mobile"`
	CheckInDate   string `json:"check_in_date" binding:"required"`
	CheckOutDate  string `json:"check_out_date" binding:"required"`
	TotalAmount   int64  `json:"total_amount"`
	PaidAmount    int64  `json:"paid_amount"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
	Guests        int    `json:"guests"`
	PhotoPath     string `json:"photo_path"`
	Photo         string `json:"photo"` // base64 / data URI
}

// UpdateBookingRequest: omitted fields stay as they are.
type UpdateBookingRequest struct {
	Payment       int64   `json:"payment"`
	PaymentMethod string  `json:"payment_method"`
	Room          *string `json:"room"`
	GuestName     *string `json:"guest_name"`
	GuestMobile   *string `json:"guest_mobile"`
	CheckInDate   *string `json:"check_in_date"`
	CheckOutDate  *string `json:"check_out_date"`
	TotalAmount   *int64  `json:"total_amount"`
	Notes         *string `json:"notes"`
	Guests        *int    `json:"guests"`
}

type CancelBookingRequest struct {
	RefundAmount int64  `json:"refund_amount"`
	RefundMethod string `json:"refund_method"`
}

type ConvertBookingRequest struct {
	AmountPaid    int64  `json:"amount_paid"`
	PaymentMethod string `json:"payment_method"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	Ledger *services.LedgerService
	Log    *zap.Logger
}

func NewBookingController(ledger *services.LedgerService, log *zap.Logger) *BookingController {
	return &BookingController{Ledger: ledger, Log: log}
}

// GET /api/bookings?status=confirmed
func (bc *BookingController) ListBookings(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, bc.Ledger.ListBookings(c.Query("status")))
}

// GET /api/bookings/:id
func (bc *BookingController) GetBooking(c *gin.Context) {
	b, err := bc.Ledger.GetBooking(c.Param("id"))
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	in := services.BookingInput{
		Room:          req.Room,
		GuestName:     req.GuestName,
		GuestMobile:   req.GuestMobile,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		PhotoPath:     req.PhotoPath,
		Guests:        req.Guests,
	}
	if err := bc.Ledger.PrecheckBooking(in); err != nil {
		respondError(c, bc.Log, err)
		return
	}

	uploaded := false
	if req.Photo != "" && in.PhotoPath == "" {
		if data, ext, err := utils.DecodeBase64Image(req.Photo); err != nil {
			bc.Log.Warn("ignoring undecodable booking photo", zap.String("room", req.Room), zap.Error(err))
		} else {
			in.PhotoPath = bc.Ledger.TryUploadPhoto(c.Request.Context(), data, "booking-"+req.Room+ext)
			uploaded = in.PhotoPath != ""
		}
	}

	out, err := bc.Ledger.CreateBooking(c.Request.Context(), in)
	if err != nil {
		if uploaded {
			bc.Log.Warn("booking failed after photo upload, photo left unreferenced",
				zap.String("room", req.Room), zap.String("photo", in.PhotoPath))
		}
		respondError(c, bc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// PUT /api/bookings/:id
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	out, err := bc.Ledger.UpdateBooking(c.Request.Context(), c.Param("id"), services.BookingPatch{
		Payment:       req.Payment,
		PaymentMethod: req.PaymentMethod,
		Room:          req.Room,
		GuestName:     req.GuestName,
		GuestMobile:   req.GuestMobile,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
		Guests:        req.Guests,
	})
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/bookings/:id/cancel
func (bc *BookingController) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	// body เป็น optional (ยกเลิกโดยไม่คืนเงิน)
	if err := bindOptionalJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	out, err := bc.Ledger.CancelBooking(c.Request.Context(), c.Param("id"), req.RefundAmount, req.RefundMethod)
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/bookings/:id/convert
func (bc *BookingController) ConvertBooking(c *gin.Context) {
	var req ConvertBookingRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badPayload(c, err)
		return
	}
	out, err := bc.Ledger.ConvertBooking(c.Request.Context(), c.Param("id"), req.AmountPaid, req.PaymentMethod)
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// GET /api/availability?check_in=2025-01-02&check_out=2025-01-04
func (bc *BookingController) CheckAvailability(c *gin.Context) {
	rooms, err := bc.Ledger.CheckAvailability(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "available_rooms": rooms})
}
