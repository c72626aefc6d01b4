package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type config struct {
	port int
	env  string
	db   struct {
		driver       string
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	cors struct {
		trustedOrigins []string
	}
	jwt struct {
		secret string
		ttl    time.Duration
	}
	storage struct {
		backend string
		dir     string
		s3      struct {
			bucket    string
			region    string
			endpoint  string
			accessKey string
			secretKey string
		}
	}
	pageSize       int
	displayVersion bool
}

// parseConfig reads the command line. Settings from the optional TOML file
// named by -config apply only to flags not given explicitly.
func parseConfig(args []string, output io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("filmlist", flag.ContinueOnError)
	fs.SetOutput(output)

	//port setting
	fs.IntVar(&cfg.port, "port", 4000, "API server port")

	// environment setting
	fs.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")

	// db setting
	fs.StringVar(&cfg.db.driver, "db-driver", "postgres", "Database driver (postgres|sqlite)")
	fs.StringVar(&cfg.db.dsn, "db-dsn", "", "Database DSN")
	fs.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "Database max open connections")
	fs.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "Database max idle connections")
	fs.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m", "Database max connection idle time")

	// rate-limiter setting
	fs.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	fs.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	fs.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	// SMTP setting
	fs.StringVar(&cfg.smtp.host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	fs.IntVar(&cfg.smtp.port, "smtp-port", 25, "SMTP port")
	fs.StringVar(&cfg.smtp.username, "smtp-username", "", "SMTP username")
	fs.StringVar(&cfg.smtp.password, "smtp-password", "", "SMTP password")
	fs.StringVar(&cfg.smtp.sender, "smtp-sender", "Filmlist <no-reply@filmlist.nhan1013.net>", "SMTP sender")

	// cors setting
	fs.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})

	// authentication token setting
	fs.StringVar(&cfg.jwt.secret, "jwt-secret", "", "Secret key for signing authentication tokens")
	fs.DurationVar(&cfg.jwt.ttl, "jwt-ttl", 24*time.Hour, "Authentication token lifetime")

	// photo storage setting
	fs.StringVar(&cfg.storage.backend, "storage", "local", "Photo storage backend (local|s3)")
	fs.StringVar(&cfg.storage.dir, "storage-dir", "./uploads", "Directory for photos with the local backend")
	fs.StringVar(&cfg.storage.s3.bucket, "s3-bucket", "filmlist", "S3 bucket")
	fs.StringVar(&cfg.storage.s3.region, "s3-region", "us-east-1", "S3 region")
	fs.StringVar(&cfg.storage.s3.endpoint, "s3-endpoint", "", "S3 endpoint for S3-compatible services")
	fs.StringVar(&cfg.storage.s3.accessKey, "s3-access-key", "", "S3 access key")
	fs.StringVar(&cfg.storage.s3.secretKey, "s3-secret-key", "", "S3 secret key")

	fs.IntVar(&cfg.pageSize, "page-size", 20, "Number of list entries per page")

	// display version setting
	fs.BoolVar(&cfg.displayVersion, "version", false, "Display version and exit")

	configFile := fs.String("config", "", "Path to a TOML config file")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configFile != "" {
		if err := loadConfigFile(fs, *configFile); err != nil {
			return cfg, err
		}
	}

	// the default page size has to pass the same bounds as a client's page_size
	if cfg.pageSize < 1 || cfg.pageSize > 100 {
		return cfg, fmt.Errorf("page-size must be between 1 and 100, got %d", cfg.pageSize)
	}

	return cfg, nil
}

// loadConfigFile sets every flag named by a top-level key of the TOML file,
// unless that flag was passed on the command line. Arrays become space
// separated values.
func loadConfigFile(fs *flag.FlagSet, path string) error {
	var values map[string]interface{}
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	for name, value := range values {
		if explicit[name] {
			continue
		}
		if fs.Lookup(name) == nil || name == "config" {
			return fmt.Errorf("config file %s: unknown setting %q", path, name)
		}

		var s string
		switch v := value.(type) {
		case []interface{}:
			parts := make([]string, len(v))
			for i := range v {
				parts[i] = fmt.Sprint(v[i])
			}
			s = strings.Join(parts, " ")
		default:
			s = fmt.Sprint(v)
		}

		if err := fs.Set(name, s); err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, name, err)
		}
	}

	return nil
}
