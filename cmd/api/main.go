package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/attendly/attendly-backend-go/internal/config"
	appHTTP "github.com/attendly/attendly-backend-go/internal/handler/http"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/attendly/attendly-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendly-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendly-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/attendly-backend-go/internal/service/attendance"
	serviceAuth "github.com/attendly/attendly-backend-go/internal/service/auth"
	employeeService "github.com/attendly/attendly-backend-go/internal/service/employee"
	reportService "github.com/attendly/attendly-backend-go/internal/service/report"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Pool.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	loc := cfg.Location()
	weekStartsOn := time.Monday
	if cfg.App.WeekStartsOn == "sunday" {
		weekStartsOn = time.Sunday
	}

	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := serviceAuth.NewAuthService(db, userRepo, jwtService, jwtRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, eventRepo, collector, loc, weekStartsOn)
	reportSvc := reportService.NewReportService(db, eventRepo, collector, loc)
	employeeSvc := employeeService.NewEmployeeService(db, userRepo)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		registry,
		authHandler,
		attendanceHandler,
		reportHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
