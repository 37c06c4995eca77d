// FILE: lixenwraith/hiconfig/example/main.go
package main

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/lixenwraith/hiconfig"
)

// ServerConfig is scanned from the "server" subtree.
type ServerConfig struct {
	Host        string        `hiconfig:"host"`
	Port        int           `hiconfig:"port"`
	ReadTimeout time.Duration `hiconfig:"read_timeout"`
	LogLevel    string        `hiconfig:"log_level"`
}

// AppConfig is scanned from the whole namespace.
type AppConfig struct {
	Server ServerConfig `hiconfig:"server"`
	Debug  bool         `hiconfig:"debug"`
	Tags   []string     `hiconfig:"tags"`
}

const configFilePath = "example.toml"

const initialConfig = `
debug = false
tags = ["alpha", "beta"]

[server]
host = "file-host"
port = 8081
log-level = "warn"
`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Create a configuration file on disk for the program to read.
	// =========================================================================
	log.Println("---")
	log.Println("PART 1: Creating initial configuration file...")

	defer func() {
		log.Println("---")
		log.Println("Cleaning up...")
		os.Remove(configFilePath)
		os.Unsetenv("APP_SERVER_PORT")
	}()

	if err := os.WriteFile(configFilePath, []byte(initialConfig), 0644); err != nil {
		log.Fatalf("Failed during initial file creation: %v", err)
	}

	// =========================================================================
	// PART 2: DECLARE THE SCHEMA
	// The server component declares its own values; the app links it as a child.
	// =========================================================================
	server := hiconfig.NewProviderBuilder().
		WithValues(
			hiconfig.Value{Names: []string{"host"}, Default: "localhost", Help: "listen host"},
			hiconfig.Value{Names: []string{"port"}, Default: 8080, Help: "listen port"},
			hiconfig.Value{Names: []string{"read-timeout"}, Default: 30 * time.Second, Help: "read timeout"},
			hiconfig.Value{Names: []string{"log-level"}, Default: "info", Choices: []string{"debug", "info", "warn", "error"}},
		).
		MustBuild()

	app := hiconfig.NewProviderBuilder().
		WithValues(
			hiconfig.Value{Names: []string{"debug"}, Default: false, Help: "enable debug mode"},
			hiconfig.Value{Names: []string{"tags"}, Default: []string{}, Help: "instance tags"},
		).
		WithChild("server", server).
		MustBuild()

	// =========================================================================
	// PART 3: BUILD FROM FILE, ENVIRONMENT AND ARGUMENTS
	// Precedence: CLI > Env > File > Default.
	// =========================================================================
	os.Setenv("APP_SERVER_PORT", "9090")

	var cfg AppConfig
	err := hiconfig.NewBuilder(app).
		WithName("example").
		WithFile(configFilePath).
		WithEnvPrefix("APP_").
		WithArgs([]string{"--server-read-timeout=1m", "--tags=prod"}).
		BuildAndScan(&cfg)
	if err != nil && !errors.Is(err, hiconfig.ErrConfigNotFound) {
		log.Fatalf("Failed to build configuration: %v", err)
	}

	log.Println("---")
	log.Println("PART 3: Resolved configuration")
	log.Printf("  server.host         = %s (file)", cfg.Server.Host)
	log.Printf("  server.port         = %d (env)", cfg.Server.Port)
	log.Printf("  server.read_timeout = %s (cli)", cfg.Server.ReadTimeout)
	log.Printf("  server.log_level    = %s (file)", cfg.Server.LogLevel)
	log.Printf("  tags                = %v (cli replaces file)", cfg.Tags)
	log.Printf("  debug               = %v (file)", cfg.Debug)
}
