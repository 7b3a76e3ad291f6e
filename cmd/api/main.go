package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/zenith-erp/erp-backend-go/internal/config"
	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
	"github.com/zenith-erp/erp-backend-go/internal/domain/employee"
	appHTTP "github.com/zenith-erp/erp-backend-go/internal/handler/http"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/database"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/jwt"
	"github.com/zenith-erp/erp-backend-go/internal/repository/postgresql"
	"github.com/zenith-erp/erp-backend-go/internal/repository/sqlite"
	attendanceService "github.com/zenith-erp/erp-backend-go/internal/service/attendance"
	authService "github.com/zenith-erp/erp-backend-go/internal/service/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var eventRepo attendance.EventRepository
	var employeeRepo employee.EmployeeRepository

	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		eventRepo = postgresql.NewCompatRepository(db)
		employeeRepo = postgresql.NewEmployeeRepository(db)
	case "sqlite":
		store, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal("Error opening sqlite store: ", err)
		}
		defer store.Close()
		eventRepo = store
		employeeRepo = store
	default:
		log.Fatal("Unsupported DB_DRIVER: ", cfg.Database.Driver)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := authService.NewAuthService(employeeRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(eventRepo, employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
