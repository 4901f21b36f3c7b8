package router

import (
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/middleware"
	"lunch/backend/internal/pkg/repository/postgresql"

	"lunch/backend/internal/repository/postgres/attendance"
	"lunch/backend/internal/repository/postgres/notification"
	"lunch/backend/internal/repository/postgres/report"
	"lunch/backend/internal/repository/postgres/user"

	attendance_controller "lunch/backend/internal/controller/http/v1/attendance"
	auth_controller "lunch/backend/internal/controller/http/v1/auth"
	notification_controller "lunch/backend/internal/controller/http/v1/notification"
	report_controller "lunch/backend/internal/controller/http/v1/report"
	user_controller "lunch/backend/internal/controller/http/v1/user"

	"github.com/gin-contrib/cors"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	port       string
	auth       *auth.Auth
	jwtKey     string
	rules      attendance.Rules
	cacheTTL   time.Duration
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	a *auth.Auth,
	jwtKey string,
	rules attendance.Rules,
	cacheTTL time.Duration,
) *Router {
	return &Router{
		App:        app,
		postgresDB: postgresDB,
		redisDB:    redisDB,
		port:       port,
		auth:       a,
		jwtKey:     jwtKey,
		rules:      rules,
		cacheTTL:   cacheTTL,
	}
}

func (r Router) Init() error {
	r.setup()
	return r.Run(r.port)
}

func (r Router) setup() {

	r.HandleMethodNotAllowed = true
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8501"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB, r.rules, r.redisDB)
	reportPostgres := report.NewRepository(r.postgresDB, r.redisDB, r.cacheTTL, r.rules.Location)
	notificationPostgres := notification.NewRepository(r.postgresDB)

	// controller
	authController := auth_controller.NewController(userPostgres, r.jwtKey)
	userController := user_controller.NewController(userPostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres)
	reportController := report_controller.NewController(reportPostgres, r.rules.Location)
	notificationController := notification_controller.NewController(notificationPostgres)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)
	r.Post("/api/v1/register", authController.Register)

	// Self-registration above is always EMPLOYEE; creating chef or admin
	// accounts needs admin claims, so that path gets its own guarded route.
	r.Post("/api/v1/admin/users", authController.Register, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #attendance
	r.Post("/api/v1/attendance", attendanceController.Mark, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/today", attendanceController.Today, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/:user_id", attendanceController.GetHistory, middleware.Authenticate(r.auth))

	// #chef
	r.Get("/api/v1/chef/daily-count", reportController.DailyCount, middleware.Authenticate(r.auth, auth.RoleChef, auth.RoleAdmin))
	r.Get("/api/v1/chef/daily-count/pdf", reportController.DailyCountPDF, middleware.Authenticate(r.auth, auth.RoleChef, auth.RoleAdmin))

	// #admin
	r.Get("/api/v1/admin/reports", reportController.AdminReports, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/admin/reports/export", reportController.ExportReports, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/admin/reports/trend", reportController.Trend, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleChef))
	r.Get("/api/v1/admin/users", userController.GetUserList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/admin/users/:id", userController.DeleteUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/admin/notifications", notificationController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
}
