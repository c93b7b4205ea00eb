package app

import (
	"database/sql"

	"go-leavetrack/internal/attendance"
	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/balance"
	"go-leavetrack/internal/department"
	"go-leavetrack/internal/designation"
	"go-leavetrack/internal/employee"
	"go-leavetrack/internal/holiday"
	"go-leavetrack/internal/leave"
	"go-leavetrack/internal/leavetype"
	"go-leavetrack/internal/messaging/kafka"
	"go-leavetrack/internal/middleware"
	"go-leavetrack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	departmentRepo := department.NewRepository(gormDB)
	designationRepo := designation.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	holidayRepo := holiday.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Cross-cutting ---
	recorder := audit.NewRecorder(db, outboxRepo)
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	departmentService := department.NewService(departmentRepo, rdb)
	designationService := designation.NewService(designationRepo)
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, recorder)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	holidayService := holiday.NewService(db, holidayRepo, rdb, recorder)
	balanceService := balance.NewService(db, balanceRepo, employeeRepo, recorder)
	leaveService := leave.NewService(leave.Config{
		DB:       db,
		Repo:     leaveRepo,
		Types:    leaveTypeRepo,
		Balances: balanceService,
		Resolver: employeeRepo,
		Teams:    employeeRepo,
		Outbox:   outboxRepo,
		Recorder: recorder,
	})
	attendanceService := attendance.NewService(attendance.Config{
		DB:       db,
		Repo:     attendanceRepo,
		Holidays: holidayService,
		Leaves:   leaveService,
		Resolver: employeeRepo,
		Teams:    employeeRepo,
		Recorder: recorder,
	})

	// --- Handlers ---
	departmentHandler := department.NewHandler(departmentService)
	designationHandler := designation.NewHandler(designationService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	holidayHandler := holiday.NewHandler(holidayService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)
	attendanceHandler := attendance.NewHandler(attendanceService)

	// --- Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))
	router.Use(middleware.Idempotency(rdb))

	api := router.Group("/api/v1")
	{
		department.RegisterRoutes(api, departmentHandler, enforcer)
		designation.RegisterRoutes(api, designationHandler, enforcer)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		leavetype.RegisterRoutes(api, leaveTypeHandler, enforcer)
		holiday.RegisterRoutes(api, holidayHandler, enforcer)
		balance.RegisterRoutes(api, balanceHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer)
	}

	return nil
}
