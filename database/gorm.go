package database

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// Open connects to the database named by url. postgres:// URLs (and plain
// key=value DSNs) use the PostgreSQL driver; sqlite:// URLs open a SQLite file,
// with sqlite://:memory: giving a private in-memory database.
func Open(url string, logger *zap.Logger) (*gorm.DB, error) {
	if url == "" {
		return nil, errors.New("database URL cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.HasPrefix(url, sqliteScheme) {
		return openSQLite(strings.TrimPrefix(url, sqliteScheme), logger)
	}

	db, err := gorm.Open(postgres.Open(url), newConfig(logger))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQL DB")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("connected to database", zap.String("driver", "postgres"))
	return db, nil
}

func openSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(path), newConfig(logger))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQL DB")
	}
	// Every new connection to :memory: is a new empty database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	logger.Info("connected to database", zap.String("driver", "sqlite"), zap.String("path", path))
	return db, nil
}

func newConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      true,
			},
		),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}
}

// Ping checks that the database is reachable
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
