package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string
		WorkDir      string

		Server   ServerConfig
		Database DatabaseConfig
		Portal   PortalConfig
	}

	ServerConfig struct {
		Host               string
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		UploadDir          string
		AllowOrigins       []string
		DisableReqLogs     bool
	}

	DatabaseConfig struct {
		Engine        string // memory | postgres
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// PortalConfig drives the dashboard client.
	// A zero RequestTimeout disables request deadlines.
	PortalConfig struct {
		APIBaseURL      string
		RequestTimeout  time.Duration
		RequestRetries  int
		RetryBackoff    time.Duration
		LogoutTimeout   time.Duration
		NotificationTTL time.Duration
		SessionFile     string
		ViewportWidth   int
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, strconv.Itoa(dbc.Port))
}

func (dbc DatabaseConfig) InMemory() bool {
	return dbc.Engine == "" || dbc.Engine == "memory"
}

func NewConfig() *Config {
	conf := viper.New()
	wd := Getwd()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "EduTrack")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "d6c4b334f8e4ac89-dev-only-1834aeb9edc45c10")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", "localhost:4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 24*time.Hour)
	conf.SetDefault("server.uploadDir", filepath.Join(wd, "uploads"))
	conf.SetDefault("server.allowOrigins", []string{"*"})
	conf.SetDefault("server.disableReqLogs", false)

	conf.SetDefault("database.engine", "memory")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "edutrack")
	conf.SetDefault("database.user", "edutrack")
	conf.SetDefault("database.password", "edutrack")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("portal.apiBaseURL", "http://localhost:8000")
	conf.SetDefault("portal.requestTimeout", 15*time.Second)
	conf.SetDefault("portal.requestRetries", 2)
	conf.SetDefault("portal.retryBackoff", 200*time.Millisecond)
	conf.SetDefault("portal.logoutTimeout", 500*time.Millisecond)
	conf.SetDefault("portal.notificationTTL", 5*time.Second)
	conf.SetDefault("portal.sessionFile", defaultSessionFile())
	conf.SetDefault("portal.viewportWidth", 1280)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		WorkDir:      wd,
		Server: ServerConfig{
			Host:               conf.GetString("server.host"),
			Address:            conf.GetString("server.address"),
			DebugHost:          conf.GetString("server.debugHost"),
			ShutdownTimeout:    conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("server.jwtExpirationDelta"),
			UploadDir:          conf.GetString("server.uploadDir"),
			AllowOrigins:       conf.GetStringSlice("server.allowOrigins"),
			DisableReqLogs:     conf.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Portal: PortalConfig{
			APIBaseURL:      strings.TrimRight(conf.GetString("portal.apiBaseURL"), "/"),
			RequestTimeout:  conf.GetDuration("portal.requestTimeout"),
			RequestRetries:  conf.GetInt("portal.requestRetries"),
			RetryBackoff:    conf.GetDuration("portal.retryBackoff"),
			LogoutTimeout:   conf.GetDuration("portal.logoutTimeout"),
			NotificationTTL: conf.GetDuration("portal.notificationTTL"),
			SessionFile:     conf.GetString("portal.sessionFile"),
			ViewportWidth:   conf.GetInt("portal.viewportWidth"),
		},
	}
}

// NewTestConfig returns a Config fit for tests: in-memory storage, no request logs,
// short client timeouts and a throwaway upload dir.
func NewTestConfig(uploadDir string) *Config {
	return &Config{
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		AppName:   "EduTrack",
		SecretKey: "test-secret",
		Server: ServerConfig{
			Host:               "localhost",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			UploadDir:          uploadDir,
			AllowOrigins:       []string{"*"},
			DisableReqLogs:     true,
		},
		Database: DatabaseConfig{Engine: "memory"},
		Portal: PortalConfig{
			RequestTimeout:  5 * time.Second,
			RetryBackoff:    10 * time.Millisecond,
			LogoutTimeout:   200 * time.Millisecond,
			NotificationTTL: 5 * time.Second,
			ViewportWidth:   1280,
		},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "edutrack", "session.json")
}
