package pgstore

import "time"

// Config describes the PostgreSQL connection for the MFA settings store.
type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL,required"`                  // Connection string to the database
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`     // Maximum number of open connections
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`      // Maximum number of idle connections
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"` // Period between pool health checks

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // Connection retry attempts at startup
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"` // Interval between retry attempts
}
