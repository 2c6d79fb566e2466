package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lodge-desk/controllers"
	"lodge-desk/middleware"
	"lodge-desk/utils"
)

// Options carries what the router needs besides the controllers.
type Options struct {
	CORSOrigins []string
	UploadDir   string // served at /uploads when set
	Logger      *zap.Logger
}

func corsOrigins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}

// SetupRouter รับ Controller Instances เข้ามาเพื่อกำหนด Route
func SetupRouter(
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	rpc *controllers.ReportController,
	opts Options,
) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Logger(log), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.String("path", c.Request.URL.Path), zap.Any("panic", recovered))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	}))
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	origins := corsOrigins(opts.CORSOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/data", rc.GetData)
		api.GET("/totals", rpc.GetTotals)

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRoomNumbers)
			rooms.POST("", rc.AddRoom)
			rooms.GET("/:room", rc.GetRoom)
		}

		// Front desk
		api.POST("/checkin", rc.CheckIn)
		api.POST("/add_on", rc.AddCharge)
		api.POST("/payments", rc.TakePayment)
		api.POST("/refunds", rc.ProcessRefund)
		api.POST("/discounts", rc.ApplyDiscount)
		api.POST("/renew_rent", rc.RenewRent)
		api.POST("/transfer", rc.TransferRoom)
		api.POST("/checkout", rc.Checkout)
		api.POST("/update_checkin_time", rc.UpdateCheckinTime)
		api.POST("/history", rc.History)

		// Bookings
		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.ListBookings)
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/:id", bc.GetBooking)
			bookings.PUT("/:id", bc.UpdateBooking)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.POST("/:id/convert", bc.ConvertBooking)
		}
		api.GET("/availability", bc.CheckAvailability)

		api.POST("/expenses", rpc.RecordExpense)
		api.GET("/reports/daily", rpc.DailyReport)
		api.POST("/upload_photo", rpc.UploadPhoto)
	}

	return r
}
