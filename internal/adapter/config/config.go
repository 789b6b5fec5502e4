package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Esewa    *Esewa
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString  string `env:"RUN_ADDRESS"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	BackendURL  string `env:"BACKEND_URL" envDefault:"http://localhost:5001"`
}

// Esewa holds the gateway contract parameters. Defaults are the gateway's
// published sandbox credentials.
type Esewa struct {
	SecretKey   string        `env:"ESEWA_SECRET_KEY" envDefault:"8gBm/:&EnhH.1/q"`
	ProductCode string        `env:"ESEWA_PRODUCT_CODE" envDefault:"EPAYTEST"`
	GatewayURL  string        `env:"ESEWA_GATEWAY_URL" envDefault:"https://rc-epay.esewa.com.np"`
	Timeout     time.Duration `env:"ESEWA_TIMEOUT" envDefault:"10s"`

	// AssumeOnError marks an order completed when the verification
	// endpoint is unreachable. Unset, it follows the app mode: on in DEV,
	// off in PROD.
	AssumeOnError string `env:"ESEWA_ASSUME_ON_ERROR"`

	SuccessURL string
	FailureURL string
}

// AssumeCompletedOnError resolves the fallback policy knob against the
// application mode.
func (e *Esewa) AssumeCompletedOnError(mode string) bool {
	if e.AssumeOnError == "" {
		return mode == AppModeDevelop
	}
	v, err := strconv.ParseBool(e.AssumeOnError)
	if err != nil {
		return false
	}
	return v
}

func NewConfig() (*Config, error) {
	// Optional .env file, ignored when absent.
	_ = godotenv.Load()

	var db Database
	var httpConf HTTP
	var esewa Esewa
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&httpConf.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&httpConf)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&esewa)
	if err != nil {
		return nil, fmt.Errorf("error parsing esewa config: %w", err)
	}

	esewa.SuccessURL = httpConf.BackendURL + "/api/payments/esewa/success"
	esewa.FailureURL = httpConf.BackendURL + "/api/payments/esewa/failure"

	config := Config{
		Database: &db,
		HTTP:     &httpConf,
		Esewa:    &esewa,
		App:      &app,
	}

	return &config, nil
}
