package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lodge-desk/services"
	"lodge-desk/utils"
)

// respondError maps service errors to status codes. Internal errors get a
// generic message; the detail goes to the log.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if vErr := services.IsValidationError(err); vErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message, "field": vErr.Field})
		return
	}
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "Room not found")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrNoPhotoStore):
		utils.JSONError(c, http.StatusServiceUnavailable, "Photo uploads are not configured")
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respondOutcome(c *gin.Context, out *services.Outcome) {
	extra := gin.H{"saved": out.Saved}
	if out.Room != nil {
		extra["room"] = out.Room
	}
	if out.Booking != nil {
		extra["booking"] = out.Booking
	}
	if out.Overpayment > 0 {
		extra["overpayment"] = out.Overpayment
	}
	if out.ForfeitedCredit > 0 {
		extra["forfeited_credit"] = out.ForfeitedCredit
	}
	utils.JSONMessage(c, http.StatusOK, out.Message, extra)
}

func badPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request payload",
		"details": err.Error(),
	})
}

// bindOptionalJSON binds a body the client may leave out. Chunked requests
// carry no length, so emptiness shows up as io.EOF from the decoder.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
