package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string
	OutputDir    string
	DBPath       string
	RosterPath   string
	ManifestPath string
	JSONOutput   string

	FilterDistrictRaces bool
	YearWorkers         int

	LogLevel    string
	LogEncoding string
}

// Load reads .env (or the given env files) and the process environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))
	cfg := Config{
		DataDir:      dataDir,
		OutputDir:    getEnv("OUTPUT_DIR", dataDir),
		DBPath:       getEnv("DB_PATH", filepath.Join(dataDir, "ohelect.db")),
		RosterPath:   getEnv("ROSTER_PATH", ""),
		ManifestPath: getEnv("MANIFEST_PATH", filepath.Join(dataDir, "sources.yaml")),
		JSONOutput:   getEnv("JSON_OUTPUT", "ohio_election_results.json"),

		FilterDistrictRaces: getEnvBool("FILTER_DISTRICT_RACES", true),
		YearWorkers:         getEnvInt("YEAR_WORKERS", 4),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogEncoding: getEnv("LOG_ENCODING", "console"),
	}
	if cfg.YearWorkers < 1 {
		cfg.YearWorkers = 1
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// JSONOutputPath resolves JSONOutput against OutputDir unless it is absolute.
func (c Config) JSONOutputPath() string {
	if filepath.IsAbs(c.JSONOutput) {
		return c.JSONOutput
	}
	return filepath.Join(c.OutputDir, c.JSONOutput)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
