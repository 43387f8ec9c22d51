package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	Auth         Auth
	Token        Token
	Invitation   Invitation
	SMTP         SMTP
	Gemini       Gemini
	LogLevel     string
	FrontendBase string
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Driver   string // postgres | sqlite
	DSN      string // used as-is when set
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type Auth struct {
	JWTSecret string
}

// Token bounds the lifetime an access token may be issued with.
type Token struct {
	MinTTLHours int
	MaxTTLHours int
}

type Invitation struct {
	DefaultTTLHours int
}

type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type Gemini struct {
	APIKey string
	Model  string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("QUESTION_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("TOKEN_MIN_TTL_HOURS", 1)
	viper.SetDefault("TOKEN_MAX_TTL_HOURS", 168)
	viper.SetDefault("INVITATION_DEFAULT_TTL_HOURS", 72)
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:4200")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Quiz Team")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.DSN = viper.GetString("DATABASE_DSN")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.CacheTTL = time.Duration(viper.GetInt("QUESTION_CACHE_TTL_SECONDS")) * time.Second

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")

	config.Token.MinTTLHours = viper.GetInt("TOKEN_MIN_TTL_HOURS")
	config.Token.MaxTTLHours = viper.GetInt("TOKEN_MAX_TTL_HOURS")
	config.Invitation.DefaultTTLHours = viper.GetInt("INVITATION_DEFAULT_TTL_HOURS")
	config.FrontendBase = viper.GetString("FRONTEND_BASE_URL")

	config.SMTP.Host = viper.GetString("SMTP_HOST")
	config.SMTP.Port = viper.GetInt("SMTP_PORT")
	config.SMTP.Username = viper.GetString("SMTP_USERNAME")
	config.SMTP.Password = viper.GetString("SMTP_PASSWORD")
	config.SMTP.FromEmail = viper.GetString("SMTP_FROM_EMAIL")
	config.SMTP.FromName = viper.GetString("SMTP_FROM_NAME")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.LogLevel = viper.GetString("LOG_LEVEL")

	if config.Token.MinTTLHours < 1 {
		config.Token.MinTTLHours = 1
	}
	if config.Token.MaxTTLHours < config.Token.MinTTLHours {
		log.Warn().Int("min", config.Token.MinTTLHours).Int("max", config.Token.MaxTTLHours).Msg("TOKEN_MAX_TTL_HOURS below minimum, clamping")
		config.Token.MaxTTLHours = config.Token.MinTTLHours
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("dbDriver", config.Database.Driver).
		Bool("redis", config.Redis.Addr != "").
		Bool("smtp", config.SMTP.Host != "").
		Bool("gemini", config.Gemini.APIKey != "").
		Msg("Config loaded")
	return &config, nil
}
