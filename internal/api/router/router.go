package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skoolife/backend/config"
	"skoolife/backend/internal/api/handler"
	"skoolife/backend/internal/api/middleware"
	"skoolife/backend/pkg/jwt"
	"skoolife/backend/pkg/redis"
)

// Setup builds the Gin engine with all middleware and routes.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	// uploads are the largest legal bodies; leave headroom for the multipart framing
	r.Use(middleware.BodyLimit(cfg.Storage.MaxUploadBytes + 1<<20))

	// ── probes ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public routes, credential-guessing surface rate limited per IP
		public := v1.Group("")
		public.Use(middleware.RateLimit(rdb, 30, time.Minute))
		{
			public.POST("/auth/register", h.Auth.Register)
			public.POST("/auth/login", h.Auth.Login)
			public.POST("/auth/refresh", h.Auth.RefreshToken)

			// invite preview is public: the token is the credential
			public.GET("/invites/:token", h.Invite.Get)
		}

		// signed download carries its own credential in the query string
		v1.GET("/files/:id/download", h.File.Download)

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			auth := authorized.Group("/auth")
			{
				auth.POST("/logout", h.Auth.Logout)
				auth.GET("/me", h.Auth.Me)
				auth.PUT("/password", h.Auth.ChangePassword)
			}

			subjects := authorized.Group("/subjects")
			{
				subjects.POST("", h.Subject.Create)
				subjects.GET("", h.Subject.List)
				subjects.GET("/:id", h.Subject.Get)
				subjects.PUT("/:id", h.Subject.Update)
				subjects.PUT("/:id/status", h.Subject.UpdateStatus)
				subjects.DELETE("/:id", h.Subject.Delete)
			}

			events := authorized.Group("/events")
			{
				events.POST("", h.Calendar.Create)
				events.POST("/recurring", h.Calendar.CreateRecurring)
				events.GET("", h.Calendar.List)
				events.PUT("/:id", h.Calendar.Update)
				events.DELETE("/:id", h.Calendar.Delete)
			}

			sessions := authorized.Group("/sessions")
			{
				sessions.POST("", h.Session.Create)
				sessions.GET("", h.Session.List)
				sessions.GET("/:id", h.Session.Get)
				sessions.PUT("/:id", h.Session.Update)
				sessions.PUT("/:id/status", h.Session.UpdateStatus)
				sessions.DELETE("/:id", h.Session.Delete)
				sessions.POST("/:id/invites", h.Invite.Create)
			}

			authorized.POST("/planner/generate", h.Session.GeneratePlan)
			authorized.POST("/invites/:token/accept", h.Invite.Accept)

			files := authorized.Group("/files")
			{
				files.POST("", h.File.Upload)
				files.GET("", h.File.List)
				files.GET("/folders", h.File.ListFolders)
				files.PUT("/folders/:name", h.File.RenameFolder)
				files.DELETE("/:id", h.File.Delete)
			}

			pomodoro := authorized.Group("/pomodoro")
			{
				pomodoro.POST("/runs", h.Pomodoro.Record)
				pomodoro.GET("/stats", h.Pomodoro.Stats)
			}

			schools := authorized.Group("/schools")
			{
				schools.POST("", middleware.RoleAuth("admin"), h.School.Create)
				schools.POST("/access-codes/redeem", h.School.RedeemAccessCode)
				schools.GET("/:id", h.School.Get)
				schools.POST("/:id/cohorts", h.School.CreateCohort)
				schools.GET("/:id/cohorts", h.School.ListCohorts)
				schools.POST("/:id/classes", h.School.CreateClass)
				schools.GET("/:id/classes", h.School.ListClasses)
				schools.GET("/:id/members", h.School.ListMembers)
				schools.DELETE("/:id/members/:member_id", h.School.RemoveMember)
				schools.POST("/:id/access-codes", h.School.CreateAccessCode)
				schools.POST("/:id/members/import", h.School.ImportMembers)
				schools.GET("/:id/analytics", h.School.Analytics)
				schools.GET("/:id/analytics/export", h.School.AnalyticsExport)
			}

			subscription := authorized.Group("/subscription")
			{
				subscription.GET("", h.Subscription.Status)
				subscription.POST("/portal", h.Subscription.Portal)
			}

			authorized.GET("/export/calendar.ics", h.Export.CalendarICS)
			authorized.POST("/import/timetable", h.Export.ImportTimetable)
		}
	}

	return r
}
