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

type CheckInPayload struct {
	Room       string `json:"room" binding:"required"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Guests     int    `json:"guests"`
	Price      int64  `json:"price"`
	AmountPaid int64  `json:"amountPaid"`
	Payment    string `json:"payment"`
	PhotoPath  string `json:"photoPath"`
	// รูปบัตรแบบ base64 (ถ้ามี) จะถูกอัปโหลดก่อนเช็คอิน
	Photo     string `json:"photo"`
	PhotoName string `json:"photoName"`
}

type AddOnPayload struct {
	Room          string `json:"room" binding:"required"`
	Item          string `json:"item"`
	Price         int64  `json:"price"`
	PaymentMethod string `json:"payment_method"`
}

type PaymentPayload struct {
	Room        string `json:"room" binding:"required"`
	Amount      int64  `json:"amount"`
	PaymentMode string `json:"payment_mode"`
}

type RefundPayload struct {
	Room         string `json:"room" binding:"required"`
	Amount       int64  `json:"amount"`
	RefundMethod string `json:"refund_method"`
}

type DiscountPayload struct {
	Room   string `json:"room" binding:"required"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type RenewPayload struct {
	Room         string `json:"room" binding:"required"`
	RenewalCount int    `json:"renewal_count"`
}

type TransferPayload struct {
	FromRoom string `json:"from_room" binding:"required"`
	ToRoom   string `json:"to_room" binding:"required"`
}

type CheckoutPayload struct {
	Room         string `json:"room" binding:"required"`
	RefundMethod string `json:"refund_method"`
}

type CheckinTimePayload struct {
	Room        string `json:"room" binding:"required"`
	CheckinTime string `json:"checkin_time" binding:"required"`
}

type HistoryPayload struct {
	Room string `json:"room" binding:"required"`
	Name string `json:"name"`
}

type AddRoomPayload struct {
	Room string `json:"room" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type RoomController struct {
	Ledger *services.LedgerService
	Log    *zap.Logger
}

func NewRoomController(ledger *services.LedgerService, log *zap.Logger) *RoomController {
	return &RoomController{Ledger: ledger, Log: log}
}

// GET /api/data
func (rc *RoomController) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, rc.Ledger.Snapshot())
}

// GET /api/rooms
func (rc *RoomController) GetRoomNumbers(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, rc.Ledger.RoomNumbers())
}

// GET /api/rooms/:room
func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.Ledger.Room(c.Param("room"))
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms
func (rc *RoomController) AddRoom(c *gin.Context) {
	var p AddRoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.AddRoom(c.Request.Context(), p.Room)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/checkin
func (rc *RoomController) CheckIn(c *gin.Context) {
	var p CheckInPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}

	in := services.CheckInInput{
		Room:       p.Room,
		Name:       p.Name,
		Mobile:     p.Mobile,
		Guests:     p.Guests,
		Price:      p.Price,
		AmountPaid: p.AmountPaid,
		Payment:    p.Payment,
		PhotoPath:  p.PhotoPath,
	}
	// ตรวจข้อมูลก่อนอัปโหลดรูป จะได้ไม่มีไฟล์ค้างเมื่อเช็คอินไม่ผ่าน
	if err := rc.Ledger.PrecheckCheckIn(in); err != nil {
		respondError(c, rc.Log, err)
		return
	}

	uploaded := false
	if p.Photo != "" && in.PhotoPath == "" {
		if data, ext, err := utils.DecodeBase64Image(p.Photo); err != nil {
			rc.Log.Warn("ignoring undecodable check-in photo", zap.String("room", p.Room), zap.Error(err))
		} else {
			name := p.PhotoName
			if name == "" {
				name = "room-" + p.Room + ext
			}
			in.PhotoPath = rc.Ledger.TryUploadPhoto(c.Request.Context(), data, name)
			uploaded = in.PhotoPath != ""
		}
	}

	out, err := rc.Ledger.CheckIn(c.Request.Context(), in)
	if err != nil {
		if uploaded {
			rc.Log.Warn("check-in failed after photo upload, photo left unreferenced",
				zap.String("room", p.Room), zap.String("photo", in.PhotoPath))
		}
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/add_on
func (rc *RoomController) AddCharge(c *gin.Context) {
	var p AddOnPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.AddCharge(c.Request.Context(), p.Room, p.Item, p.Price, p.PaymentMethod)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/payments
func (rc *RoomController) TakePayment(c *gin.Context) {
	var p PaymentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.TakePayment(c.Request.Context(), p.Room, p.Amount, p.PaymentMode)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/refunds
func (rc *RoomController) ProcessRefund(c *gin.Context) {
	var p RefundPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.ProcessRefund(c.Request.Context(), p.Room, p.Amount, p.RefundMethod)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/discounts
func (rc *RoomController) ApplyDiscount(c *gin.Context) {
	var p DiscountPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.ApplyDiscount(c.Request.Context(), p.Room, p.Amount, p.Reason)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/renew_rent
func (rc *RoomController) RenewRent(c *gin.Context) {
	var p RenewPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.RenewRent(c.Request.Context(), p.Room, p.RenewalCount)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/transfer
func (rc *RoomController) TransferRoom(c *gin.Context) {
	var p TransferPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.TransferRoom(c.Request.Context(), p.FromRoom, p.ToRoom)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/checkout
func (rc *RoomController) Checkout(c *gin.Context) {
	var p CheckoutPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.FinalCheckout(c.Request.Context(), p.Room, p.RefundMethod)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/update_checkin_time
func (rc *RoomController) UpdateCheckinTime(c *gin.Context) {
	var p CheckinTimePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	out, err := rc.Ledger.UpdateCheckinTime(c.Request.Context(), p.Room, p.CheckinTime)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	respondOutcome(c, out)
}

// POST /api/history
func (rc *RoomController) History(c *gin.Context) {
	var p HistoryPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badPayload(c, err)
		return
	}
	h, err := rc.Ledger.History(p.Room, p.Name)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, h)
}
