package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/booking"
	"github.com/BruksfildServices01/residate/internal/calsync"
	"github.com/BruksfildServices01/residate/internal/config"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/export"
	"github.com/BruksfildServices01/residate/internal/handlers"
	"github.com/BruksfildServices01/residate/internal/mailer"
	"github.com/BruksfildServices01/residate/internal/middleware"
	"github.com/BruksfildServices01/residate/internal/realtime"
	"github.com/BruksfildServices01/residate/internal/settings"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
	ucSlot "github.com/BruksfildServices01/residate/internal/usecase/slot"
)

// Deps are the long-lived components built at startup.
type Deps struct {
	Slots      slot.Repository
	Businesses business.Repository
	Tombstones business.Tombstones
	Settings   *settings.Store
	Directory  *ucBusiness.Directory
	Calendar   *calsync.Service
	Feeds      calsync.Fetcher
	Audit      *audit.Dispatcher
	AuditLog   *audit.Logger
	Bus        realtime.Bus
	Archiver   export.Archiver
	Mailer     *mailer.Client
	Location   *time.Location
}

func RegisterRoutes(r *gin.Engine, d Deps, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limited := middleware.RateLimit(limiter)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// USE CASES: BUSINESSES
	// ======================================================
	registerUC := ucBusiness.NewRegister(d.Businesses, d.Tombstones, d.Audit, cfg.VerifyEmailDomain)
	authenticateUC := ucBusiness.NewAuthenticate(d.Businesses, d.Tombstones)
	softDeleteUC := ucBusiness.NewSoftDelete(d.Businesses, d.Tombstones, d.Audit)
	hardDeleteUC := ucBusiness.NewHardDelete(d.Businesses, d.Audit)

	// ======================================================
	// USE CASES: SLOTS
	// ======================================================
	listSlotsUC := ucSlot.NewListSlots(d.Slots)
	blockSlotUC := ucSlot.NewBlockSlot(d.Slots, d.Audit)
	releaseSlotUC := ucSlot.NewReleaseSlot(d.Slots, d.Audit)
	toggleBlockUC := ucSlot.NewToggleBlock(d.Slots, d.Audit)
	resetLedgerUC := ucSlot.NewResetLedger(d.Slots, d.Businesses, d.Audit)

	listClientsUC := ucSlot.NewListClients(d.Slots, d.Location)
	toggleVIPUC := ucSlot.NewToggleVIP(d.Slots, d.Audit)
	removeClientUC := ucSlot.NewRemoveClient(d.Slots, d.Audit)

	bookUC := booking.NewBook(d.Directory, d.Slots, d.Audit, d.Location)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(d.Directory, bookUC, d.Location)
	icalHandler := handlers.NewICalProxyHandler(d.Feeds)
	authHandler := handlers.NewAuthHandler(registerUC, authenticateUC, d.Mailer, cfg)

	meHandler := handlers.NewMeHandler(d.Businesses, d.Tombstones, d.Settings, softDeleteUC, hardDeleteUC)
	slotHandler := handlers.NewSlotHandler(listSlotsUC, blockSlotUC, releaseSlotUC, toggleBlockUC, resetLedgerUC)
	clientHandler := handlers.NewClientHandler(listClientsUC, toggleVIPUC, removeClientUC)
	settingsHandler := handlers.NewSettingsHandler(d.Settings, d.Audit)
	calendarHandler := handlers.NewCalendarHandler(d.Calendar)
	exportHandler := handlers.NewExportHandler(d.Businesses, d.Directory, d.Slots, d.Settings, d.Archiver, d.Location)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLog)

	hub := realtime.NewHub(d.Bus)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public/businesses")
		{
			publicAPI.GET("", publicHandler.ListBusinesses)
			publicAPI.GET("/:id", publicHandler.GetBusiness)
			publicAPI.GET("/:id/availability", publicHandler.Availability)
			publicAPI.POST("/:id/quote", publicHandler.Quote)
			publicAPI.POST("/:id/bookings", limited, publicHandler.CreateBooking)
		}

		api.GET("/ical", limited, icalHandler.Get)
		api.GET("/realtime", hub.Handle)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-key", limited, authHandler.ForgotKey)

		// ------------------------------
		// OWNER API
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("", meHandler.GetMe)
			secured.GET("/business", meHandler.GetBusiness)
			secured.DELETE("/business", meHandler.DeleteBusiness)

			// ------------------------------
			// SLOTS
			// ------------------------------
			secured.GET("/slots", slotHandler.List)
			secured.POST("/slots/reset", slotHandler.Reset)
			secured.PUT("/slots/:day/:hour", slotHandler.Block)
			secured.DELETE("/slots/:day/:hour", slotHandler.Release)
			secured.POST("/slots/:day/:hour/toggle", slotHandler.Toggle)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients/vip", clientHandler.ToggleVIP)
			secured.DELETE("/clients", clientHandler.Remove)

			secured.GET("/settings", settingsHandler.Get)
			secured.PUT("/settings", settingsHandler.Update)
			secured.POST("/settings/api-key", settingsHandler.GenerateAPIKey)

			// ------------------------------
			// CALENDAR SYNC
			// ------------------------------
			secured.GET("/calendar", calendarHandler.Status)
			secured.POST("/calendar/connect", calendarHandler.Connect)
			secured.POST("/calendar/sync", calendarHandler.Sync)
			secured.POST("/calendar/disconnect", calendarHandler.Disconnect)

			secured.GET("/export/ics", exportHandler.ICS)
			secured.GET("/export/json", exportHandler.JSON)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
