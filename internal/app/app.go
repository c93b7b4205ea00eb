package app

import (
	"os"

	"go-leavetrack/internal/attendance"
	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/balance"
	"go-leavetrack/internal/department"
	"go-leavetrack/internal/designation"
	"go-leavetrack/internal/employee"
	"go-leavetrack/internal/holiday"
	"go-leavetrack/internal/leave"
	"go-leavetrack/internal/leavetype"
	"go-leavetrack/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates the schema and registers
// every module's routes on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&department.Department{},
		&designation.Designation{},
		&employee.Employee{},
		&leavetype.LeaveType{},
		&balance.LeaveBalance{},
		&leave.LeaveRequest{},
		&attendance.Attendance{},
		&holiday.Holiday{},
		&audit.Log{},
	)
	if err != nil {
		return err
	}

	// outbox_events is shared infrastructure with partial indexes gorm
	// cannot express; keep its DDL explicit.
	err = db.Exec(`
        CREATE TABLE IF NOT EXISTS outbox_events (
            id UUID PRIMARY KEY,
            request_id TEXT,
            aggregate_type TEXT NOT NULL,
            aggregate_id TEXT NOT NULL,
            event_type TEXT NOT NULL,
            topic TEXT NOT NULL,
            payload JSONB NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INT NOT NULL DEFAULT 0,
            error_message TEXT,
            next_retry_at TIMESTAMPTZ,
            processed_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_outbox_pending
            ON outbox_events (created_at)
            WHERE status IN ('pending', 'failed');
    `).Error
	if err != nil {
		return err
	}

	zap.L().Info("schema migrated")
	return nil
}
