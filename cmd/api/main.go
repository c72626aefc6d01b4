package main

import (
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/nhan10132020/filmlist/internal/data"
	"github.com/nhan10132020/filmlist/internal/jsonlog"
	"github.com/nhan10132020/filmlist/internal/mailer"
	"github.com/nhan10132020/filmlist/internal/storage"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	version   string
	buildTime string
)

// emailSender is satisfied by mailer.Mailer.
type emailSender interface {
	Send(recipient, templateFile string, data interface{}) error
}

type application struct {
	config config
	logger *jsonlog.Logger
	models data.Models
	mailer emailSender
	store  storage.Store
	wg     sync.WaitGroup
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	if cfg.jwt.secret == "" {
		logger.PrintFatal(errors.New("jwt-secret must be provided"), nil)
	}

	db, sqlDB, err := openDB(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer sqlDB.Close()
	logger.PrintInfo("database connection pool established", map[string]string{
		"driver": cfg.db.driver,
	})

	store, err := openStore(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger.PrintInfo("photo storage ready", map[string]string{
		"backend": cfg.storage.backend,
	})

	expvar.NewString("version").Set(version)

	// Publish the number of active goroutines.
	expvar.Publish("goroutines", expvar.Func(func() interface{} {
		return runtime.NumGoroutine()
	}))

	// Publish the database connection pool statistics.
	expvar.Publish("database", expvar.Func(func() interface{} {
		return sqlDB.Stats()
	}))

	// Publish the current Unix timestamp.
	expvar.Publish("timestamp", expvar.Func(func() interface{} {
		return time.Now().Unix()
	}))

	app := &application{
		config: cfg,
		logger: logger,
		models: data.NewModels(db),
		mailer: mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender),
		store:  store,
	}

	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// openDB connects to PostgreSQL (schema managed by the embedded migrations)
// or to SQLite (schema created from the models).
func openDB(cfg config) (*gorm.DB, *sql.DB, error) {
	var dialector gorm.Dialector
	switch cfg.db.driver {
	case "postgres":
		dialector = postgres.Open(cfg.db.dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.db.dsn)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.db.driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.db.maxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.db.maxIdleConns)

	// SQLite allows a single writer, and each connection to ":memory:" is a separate database
	if cfg.db.driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		return nil, nil, err
	}
	sqlDB.SetConnMaxIdleTime(duration)

	// create a context with a 5-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Use PingContext() to establish a new connection to the database, with 5-second timeout
	err = sqlDB.PingContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.db.driver {
	case "postgres":
		err = data.Migrate(sqlDB)
	case "sqlite":
		err = data.AutoMigrate(db)
	}
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, sqlDB, nil
}

func openStore(cfg config) (storage.Store, error) {
	switch cfg.storage.backend {
	case "local":
		return storage.NewDiskStore(cfg.storage.dir)
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.storage.s3.bucket,
			Region:    cfg.storage.s3.region,
			Endpoint:  cfg.storage.s3.endpoint,
			AccessKey: cfg.storage.s3.accessKey,
			SecretKey: cfg.storage.s3.secretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.storage.backend)
	}
}
