package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Vault configures the credential vault. The key must be 32 bytes,
// base64 encoded; cmd/keygen generates one.
type Vault struct {
	EncryptionKey string `envconfig:"ENCRYPTION_KEY"`
}

// Plaid configures the external aggregation provider. The three
// credentials plus the vault encryption key are all-or-nothing: a partial
// configuration is a startup error, not a deferred runtime failure.
type Plaid struct {
	ClientId    string        `envconfig:"CLIENT_ID"`
	Secret      string        `envconfig:"SECRET"`
	Env         string        `envconfig:"ENV" default:"sandbox"`
	RedirectUri string        `envconfig:"REDIRECT_URI"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// Recognized SYNC_PROVIDER values.
const (
	SyncProviderMock  = "mock"
	SyncProviderPlaid = "plaid"
)

type Sync struct {
	// Provider selects the transaction source: "mock" or "plaid".
	Provider string `envconfig:"PROVIDER" default:"mock"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledgerlens]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Vault     *Vault     `envconfig:"APP"`
	Plaid     *Plaid     `envconfig:"PLAID"`
	Sync      *Sync      `envconfig:"SYNC"`
}
