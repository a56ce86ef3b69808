package http

import (
	"time"
)

// Http holds the HTTP server configuration.
type Http struct {
	Host            string
	Port            int
	BodyLimit       int
	ExposeMetrics   bool
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
	Auth            Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// Auth holds token signing and session settings.
type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration
	RefreshExpire  time.Duration
	RedisKeyPrefix string
}
