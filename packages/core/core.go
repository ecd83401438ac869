package core

import (
	"core/cron"
	"core/handlers"
	"core/services"
	"log"

	authMiddleware "auth/middleware"
	authModels "auth/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	DuelisteHandler   *handlers.DuelisteHandler
	DuelisteService   *services.DuelisteService
	DuelHandler       *handlers.DuelHandler
	DuelService       *services.DuelService
	ClassementHandler *handlers.ClassementHandler
	ClassementService *services.ClassementService
	AdminDuelHandler  *handlers.AdminDuelHandler
	AdminDuelService  *services.AdminDuelService
	StatsHandler      *handlers.StatsHandler
	StatsService      *services.StatsService
	RelanceService    *services.RelanceService
	Scheduler         *cron.Scheduler
	db                *gorm.DB
}

// NewModule câble tous les services du module. Le service de
// notification est injecté par l'appelant pour rester remplaçable par
// un double de test.
func NewModule(db *gorm.DB, notifications services.NotificationService) *Module {
	duelisteService := services.NewDuelisteService(db)
	duelisteHandler := handlers.NewDuelisteHandler(duelisteService)

	classementService := services.NewClassementService(db)
	classementHandler := handlers.NewClassementHandler(classementService)

	duelService := services.NewDuelService(db, classementService, notifications)
	duelHandler := handlers.NewDuelHandler(duelService)

	adminDuelService := services.NewAdminDuelService(db, classementService)
	adminDuelHandler := handlers.NewAdminDuelHandler(adminDuelService)

	statsService := services.NewStatsService(db)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize invitation reminder service and scheduler
	relanceService := services.NewRelanceService(db, notifications)
	scheduler := cron.NewScheduler(relanceService)

	return &Module{
		DuelisteHandler:   duelisteHandler,
		DuelisteService:   duelisteService,
		DuelHandler:       duelHandler,
		DuelService:       duelService,
		ClassementHandler: classementHandler,
		ClassementService: classementService,
		AdminDuelHandler:  adminDuelHandler,
		AdminDuelService:  adminDuelService,
		StatsHandler:      statsHandler,
		StatsService:      statsService,
		RelanceService:    relanceService,
		Scheduler:         scheduler,
		db:                db,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	duellistes := r.Group("/duellistes")
	{
		duellistes.GET("", m.DuelisteHandler.GetAllDuellistes)
		duellistes.GET("/:id", m.DuelisteHandler.GetDueliste)
		duellistes.GET("/:id/duels", m.DuelisteHandler.GetDuelisteDuels)
		duellistes.PUT("/:id", authMiddleware.JWTMiddleware(), m.DuelisteHandler.UpdateDueliste)
	}

	duels := r.Group("/duels")
	{
		duels.GET("", m.DuelHandler.GetDuels)
		duels.GET("/recent", m.DuelHandler.GetRecentDuels)
		duels.GET("/:id", m.DuelHandler.GetDuel)
		duels.POST("", authMiddleware.JWTMiddleware(), m.DuelHandler.CreateDuel)
		duels.PUT("/:id/accepter", authMiddleware.JWTMiddleware(), m.DuelHandler.AccepterDuel)
		duels.PUT("/:id/refuser", authMiddleware.JWTMiddleware(), m.DuelHandler.RefuserDuel)
		duels.PUT("/:id/score", authMiddleware.JWTMiddleware(), m.DuelHandler.ReportScore)
		duels.GET("/:id/proposition", authMiddleware.JWTMiddleware(), m.DuelHandler.GetProposition)
		duels.PUT("/:id/accepter-proposition", authMiddleware.JWTMiddleware(), m.DuelHandler.AccepterProposition)
	}

	classement := r.Group("/classement")
	{
		classement.GET("", m.ClassementHandler.GetClassement)
		classement.GET("/junior", m.ClassementHandler.GetClassementJunior)
		classement.GET("/dueliste/:id", m.ClassementHandler.GetDuelisteDetail)
	}

	adminDuels := r.Group("/admin/duels")
	adminDuels.Use(authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleAdmin))
	{
		adminDuels.PUT("/:id/valider", m.AdminDuelHandler.ForceValider)
		adminDuels.DELETE("/:id", m.AdminDuelHandler.SupprimerDuel)
	}

	r.GET("/stats", m.StatsHandler.GetStats)
}

// StartScheduler starts the cron scheduler for invitation reminders
func (m *Module) StartScheduler() error {
	log.Println("Starting core module scheduler...")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	log.Println("Stopping core module scheduler...")
	m.Scheduler.Stop()
}

// RunRelanceNow manually triggers the invitation reminder sweep (useful for testing)
func (m *Module) RunRelanceNow() {
	log.Println("Manually triggering invitation reminders...")
	m.Scheduler.RunNow()
}
