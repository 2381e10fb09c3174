package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBUrl             string
	TokenSecret       string
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string
	GeminiBaseURL     string
	Debug             bool
}

// ParseFlags reads process configuration from flags, with a .env file as
// a fallback for the secrets.
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.DBUrl, "db-url", "review-gpt.sqlite", "path to SQLite3 DB file (default review-gpt.sqlite)")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("TOKEN_SECRET"), "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 3600, "token TTL in seconds (default 3600)")
	flag.StringVar(&cfg.AdminUser, "admin-user", envOr("ADMIN_USER", "admin"), "admin login name")
	flag.StringVar(&cfg.AdminPasswordHash, "admin-password-hash", os.Getenv("ADMIN_PASSWORD_HASH"), "bcrypt hash of the admin password")
	flag.StringVar(&cfg.GeminiBaseURL, "gemini-base-url", envOr("GEMINI_BASE_URL", ""), "override the Gemini API base URL")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	} else if cfg.AdminPasswordHash == "" {
		err = errors.New("missing parameter -admin-password-hash")
	}

	return
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
