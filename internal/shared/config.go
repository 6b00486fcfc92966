package shared

import (
	"os"
	"strconv"
	"time"

	"room_catalog/internal/domain"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	HTTPRateRPS int
	SeedWorkers int
	SeedRPS     int
	Search      domain.SearchDefaults
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/rooms?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		HTTPRateRPS: atoi("HTTP_RATE_RPS", 100),
		SeedWorkers: atoi("SEED_WORKERS", 8),
		SeedRPS:     atoi("SEED_RPS", 50),
		Search: domain.SearchDefaults{
			SortBy:        env("SEARCH_DEFAULT_SORT", "price"),
			SortDirection: env("SEARCH_DEFAULT_DIRECTION", "ASC"),
			PageSize:      atoi("SEARCH_DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:   atoi("SEARCH_MAX_PAGE_SIZE", 100),
		},
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
