package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
)

const slowQueryThreshold = 200 * time.Millisecond

// Options tunes the connection pool. Logger, when set, receives gorm's warnings.
type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Logger          *zap.Logger
}

// Open returns a connected GORM DB instance for the given driver (mysql, postgres or sqlite).
// Driver errors are translated so unique index violations surface as gorm.ErrDuplicatedKey.
func Open(driver, dsn string, opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(opts.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Employee{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops all tables, dependents first.
func Reset(db *gorm.DB) error {
	for _, table := range []interface{}{&model.Employee{}, &model.User{}} {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// newGormLogger reports slow queries and SQL errors. Lookups that find nothing are
// expected (e.g. checking an email before registration) and stay silent.
func newGormLogger(zl *zap.Logger) logger.Interface {
	var w logger.Writer = log.New(os.Stderr, "", log.LstdFlags)
	if zl != nil {
		w = zap.NewStdLog(zl.Named("gorm"))
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
