package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-marketplace/internal/cache"
	"github.com/BruksfildServices01/tutor-marketplace/internal/config"
	"github.com/BruksfildServices01/tutor-marketplace/internal/handlers"
	infraRepo "github.com/BruksfildServices01/tutor-marketplace/internal/infra/repository"
	"github.com/BruksfildServices01/tutor-marketplace/internal/logger"
	"github.com/BruksfildServices01/tutor-marketplace/internal/metrics"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/storage"
	ucAvailability "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/booking"
	ucPayment "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/payment"
)

// Deps are the process singletons the routes are built from.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Location *time.Location
	Metrics  *metrics.Metrics
	Cache    cache.WindowCache
	Store    storage.ObjectStore
	Audit    handlers.Auditor
	Notifier handlers.Notifier
}

// RegisterRoutes wires every route onto r. It fails only when a use case
// cannot be built.
func RegisterRoutes(r *gin.Engine, d Deps) error {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		logger.GinMiddleware(d.Log),
		middleware.CORSMiddleware(),
		middleware.Metrics(d.Metrics),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		d.Location,
		ucBooking.Policy{
			MinAdvance:  d.Config.Booking.MinAdvance,
			MaxDuration: d.Config.Booking.MaxDuration,
		},
		d.Audit,
		d.Notifier,
		d.Metrics,
	)
	transitionBookingUC := ucBooking.NewTransitionBooking(bookingRepo, d.Audit, d.Notifier)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)
	checkAvailabilityUC := ucBooking.NewCheckAvailability(bookingRepo, d.Location, d.Metrics)

	saveWindowsUC, err := ucAvailability.NewSaveWindows(availabilityRepo, d.Cache, d.Audit, nil, d.Log)
	if err != nil {
		return fmt.Errorf("build save windows: %w", err)
	}
	listWindowsUC := ucAvailability.NewListWindows(availabilityRepo, d.Cache, d.Metrics, d.Log)

	uploadReceiptUC := ucPayment.NewUploadReceipt(
		paymentRepo,
		d.Store,
		ucPayment.Limits{
			MaxBytes: d.Config.Receipts.MaxBytes,
			MaxWidth: d.Config.Receipts.MaxWidth,
		},
		d.Audit,
		d.Notifier,
	)
	reviewReceiptUC := ucPayment.NewReviewReceipt(paymentRepo, d.Audit, d.Notifier)
	listReceiptsUC := ucPayment.NewListReceipts(paymentRepo)
	openReceiptUC := ucPayment.NewOpenReceipt(paymentRepo, d.Store)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Audit)
	meHandler := handlers.NewMeHandler(d.DB)
	teacherHandler := handlers.NewTeacherHandler(d.DB, d.Audit)

	availabilityHandler := handlers.NewAvailabilityHandler(saveWindowsUC, listWindowsUC)
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		transitionBookingUC,
		listBookingsUC,
		checkAvailabilityUC,
		d.Location,
	)
	paymentHandler := handlers.NewPaymentHandler(
		uploadReceiptUC,
		reviewReceiptUC,
		listReceiptsUC,
		openReceiptUC,
		d.Config.Receipts.MaxBytes,
	)

	messageHandler := handlers.NewMessageHandler(d.DB, d.Notifier)
	reviewHandler := handlers.NewReviewHandler(d.DB, d.Audit, d.Notifier)
	adminHandler := handlers.NewAdminHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/teachers", teacherHandler.List)
		api.GET("/teachers/:id", teacherHandler.Get)
		api.GET("/teachers/:id/availability", availabilityHandler.GetForTeacher)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/dashboard", meHandler.Dashboard)
			secured.GET("/me/bookings", bookingHandler.ListMine)

			secured.GET("/teachers/:id/availability/check", bookingHandler.Check)

			secured.PATCH("/bookings/:id/status", bookingHandler.Transition)
			secured.GET("/receipts/:id/file", paymentHandler.Open)

			secured.POST("/messages", messageHandler.Send)
			secured.GET("/messages/inbox", messageHandler.Inbox)
			secured.GET("/messages/with/:userId", messageHandler.Conversation)
			secured.PATCH("/messages/with/:userId/read", messageHandler.MarkRead)

			// ------------------------------
			// STUDENT
			// ------------------------------
			student := secured.Group("/")
			student.Use(middleware.RequireRoles(models.RoleStudent))
			{
				student.POST("/bookings", bookingHandler.Create)
				student.POST("/bookings/:id/receipt", paymentHandler.Upload)
				student.POST("/bookings/:id/review", reviewHandler.Create)
				student.GET("/bookings/:id/bank-details", teacherHandler.BankDetails)
			}

			// ------------------------------
			// TEACHER
			// ------------------------------
			teacher := secured.Group("/me")
			teacher.Use(middleware.RequireRoles(models.RoleTeacher))
			{
				teacher.GET("/availability", availabilityHandler.GetMine)
				teacher.PUT("/availability", availabilityHandler.Replace)
				teacher.PUT("/teacher-profile", teacherHandler.UpdateProfile)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/dashboard", adminHandler.Dashboard)
				admin.GET("/bookings", bookingHandler.ListAll)
				admin.GET("/receipts", paymentHandler.List)
				admin.PATCH("/receipts/:id", paymentHandler.Review)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
	return nil
}
