package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port                string
	DatabaseUser        string
	DatabasePassword    string
	DatabaseHost        string
	DatabasePort        string
	DatabaseName        string
	DatabaseSSLMode     string
	SessionKey          []byte
	JwtSigningKey       []byte
	Env                 string // either prod or dev, will disable https and few other bits
	SentryDSN           string
	RedisAddr           string // empty disables the cross-instance chat relay
	RedisPassword       string
	RedisDB             int
	ApplicationsPerPage int // default page size for my-applications
	MessagesPerPage     int // default page size for conversation messages
	ChatAllowedOrigins  []string
	ChatSendRate        float64 // messages per second accepted on a chat socket
	ChatSendBurst       int
}

// LoadConfig reads the process environment. A .env file in the working
// directory is loaded first when present and never overrides real variables.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "unable to load .env file")
	}
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	redisDB, err := intOrDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	applicationsPerPage, err := intOrDefault("APPLICATIONS_PER_PAGE", 10)
	if err != nil {
		return Config{}, err
	}
	messagesPerPage, err := intOrDefault("MESSAGES_PER_PAGE", 20)
	if err != nil {
		return Config{}, err
	}
	chatSendBurst, err := intOrDefault("CHAT_SEND_BURST", 10)
	if err != nil {
		return Config{}, err
	}
	chatSendRate := 5.0
	if v := os.Getenv("CHAT_SEND_RATE"); v != "" {
		chatSendRate, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, errors.Wrapf(err, "could not parse CHAT_SEND_RATE")
		}
	}
	var chatAllowedOrigins []string
	for _, o := range strings.Split(os.Getenv("CHAT_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			chatAllowedOrigins = append(chatAllowedOrigins, o)
		}
	}

	return Config{
		Port:                port,
		DatabaseUser:        databaseUser,
		DatabasePassword:    databasePassword,
		DatabaseHost:        databaseHost,
		DatabasePort:        databasePort,
		DatabaseName:        databaseName,
		DatabaseSSLMode:     databaseSSLMode,
		SessionKey:          sessionKeyBytes,
		JwtSigningKey:       jwtSigningKeyBytes,
		Env:                 env,
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             redisDB,
		ApplicationsPerPage: applicationsPerPage,
		MessagesPerPage:     messagesPerPage,
		ChatAllowedOrigins:  chatAllowedOrigins,
		ChatSendRate:        chatSendRate,
		ChatSendBurst:       chatSendBurst,
	}, nil
}

func intOrDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to int: %v", key, err)
	}
	return n, nil
}
