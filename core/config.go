package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries every tunable of the portal. Values come from defaults,
// an optional config/.env.<env> file and ENV-prefixed environment variables,
// in increasing order of precedence.
type Config struct {
	AppName  string
	Debug    bool
	TestMode bool
	Env      string // DEV (local; default), TEST, QA, PROD
	Build    string

	Server struct {
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	API struct {
		BaseURL string
		Timeout time.Duration
		// ProfileEndpoints is prepended to the class-link resolver's
		// default probe list.
		ProfileEndpoints []string
	}

	// Class is the accepted grade-level range. The remote API has disagreed
	// with its own UI about this bound before, hence a setting.
	Class struct {
		Min int
		Max int
	}

	Health struct {
		Interval time.Duration
		Timeout  time.Duration
	}

	Session struct {
		TTL           time.Duration
		SweepInterval time.Duration
	}

	RollbarToken string
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "BrainBuddy")
	v.SetDefault("build", "dev")
	v.SetDefault("serverAddr", ":3000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("apiBaseUrl", "http://127.0.0.1:8000")
	v.SetDefault("apiTimeout", 60*time.Second)
	v.SetDefault("profileEndpoints", "")
	v.SetDefault("classMin", 1)
	v.SetDefault("classMax", 12)
	v.SetDefault("healthInterval", 15*time.Second)
	v.SetDefault("healthTimeout", 8*time.Second)
	v.SetDefault("sessionTtl", 12*time.Hour)
	v.SetDefault("sessionSweepInterval", 10*time.Minute)
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Env:          env,
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.DebugHost = v.GetString("serverDebugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("serverShutdownTimeout")
	conf.API.BaseURL = strings.TrimRight(v.GetString("apiBaseUrl"), "/")
	conf.API.Timeout = v.GetDuration("apiTimeout")
	conf.API.ProfileEndpoints = splitCommaList(v.GetString("profileEndpoints"))
	conf.Class.Min = v.GetInt("classMin")
	conf.Class.Max = v.GetInt("classMax")
	conf.Health.Interval = v.GetDuration("healthInterval")
	conf.Health.Timeout = v.GetDuration("healthTimeout")
	conf.Session.TTL = v.GetDuration("sessionTtl")
	conf.Session.SweepInterval = v.GetDuration("sessionSweepInterval")
	return conf
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Getwd tries to find the project root "portal".
// go-test changes the working directory to the test package being run during tests;
// this breaks relative config paths.
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	root := "portal"
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(currDir); err == nil {
			if filepath.Base(currDir) == root && fi.IsDir() {
				return currDir
			}
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd // fall back to the process working directory
		}
		currDir = newDir
	}
}
