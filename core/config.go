package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool

		// InMemory swaps Postgres for a seeded in-memory store (demo & local runs).
		InMemory bool
	}

	ServerConfig struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
	}

	AnalyticsConfig struct {
		DefaultHorizon   int
		MaxHorizon       int
		ClusterSeed      int64
		KeyOutcomes      []string
		KeyOutcomeWeight float64
		ReadinessTarget  float64
	}

	ReportConfig struct {
		Title                   string
		StakeholderSatisfaction float64
		AccreditationStatus     string
	}

	Config struct {
		AppName          string
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		WorkDir          string
		RollbarToken     string
		SendgridApiKey   string
		DefaultFromEmail mail.Address

		Database  DatabaseConfig
		Server    ServerConfig
		Analytics AnalyticsConfig
		Report    ReportConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig reads the configuration from the environment.
// Values are looked up as <ENV>_<KEY> (eg. DEV_DATABASE_HOST); a `config/.env.<env>` file is loaded first if present.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "OBE Dashboard")
	conf.SetDefault("build", "develop")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "obe")
	conf.SetDefault("database.user", "obe")
	conf.SetDefault("database.password", "obe")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.inMemory", false)

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.readTimeout", 10*time.Second)
	conf.SetDefault("server.writeTimeout", 30*time.Second)

	conf.SetDefault("analytics.defaultHorizon", 2)
	conf.SetDefault("analytics.maxHorizon", 4)
	conf.SetDefault("analytics.clusterSeed", 42)
	conf.SetDefault("analytics.keyOutcomes", []string{"PLO8", "PLO10", "PLO11"})
	conf.SetDefault("analytics.keyOutcomeWeight", 1.5)
	conf.SetDefault("analytics.readinessTarget", 80.0)

	conf.SetDefault("report.title", "OBE REPORT - INFORMATION SYSTEMS STUDY PROGRAM")
	conf.SetDefault("report.stakeholderSatisfaction", 4.2)
	conf.SetDefault("report.accreditationStatus", "Accredited B")

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
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:        conf.GetString("appName"),
		Env:            env,
		Build:          conf.GetString("build"),
		Debug:          conf.GetBool("debug"),
		TestMode:       conf.GetBool("testMode"),
		WorkDir:        workDir,
		RollbarToken:   conf.GetString("rollbarToken"),
		SendgridApiKey: conf.GetString("sendgridApiKey"),
		DefaultFromEmail: mail.Address{
			Name:    conf.GetString("appName"),
			Address: conf.GetString("defaultFromEmail"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
			InMemory:      conf.GetBool("database.inMemory"),
		},
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			Address:         conf.GetString("server.address"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			ReadTimeout:     conf.GetDuration("server.readTimeout"),
			WriteTimeout:    conf.GetDuration("server.writeTimeout"),
		},
		Analytics: AnalyticsConfig{
			DefaultHorizon:   conf.GetInt("analytics.defaultHorizon"),
			MaxHorizon:       conf.GetInt("analytics.maxHorizon"),
			ClusterSeed:      conf.GetInt64("analytics.clusterSeed"),
			KeyOutcomes:      conf.GetStringSlice("analytics.keyOutcomes"),
			KeyOutcomeWeight: conf.GetFloat64("analytics.keyOutcomeWeight"),
			ReadinessTarget:  conf.GetFloat64("analytics.readinessTarget"),
		},
		Report: ReportConfig{
			Title:                   conf.GetString("report.title"),
			StakeholderSatisfaction: conf.GetFloat64("report.stakeholderSatisfaction"),
			AccreditationStatus:     conf.GetString("report.accreditationStatus"),
		},
	}
}
