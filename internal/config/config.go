package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// City maps a feed code (used in remote file names) to a display name.
type City struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FTP holds the connection settings for the remote file server.
type FTP struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Dirs is the local working directory layout.
type Dirs struct {
	Base    string // working root
	Cache   string // downloaded feed files, never re-fetched once present
	Reports string // persisted report artifacts
}

// Config is the immutable configuration for one process. Build it once with
// Load and pass it down; nothing mutates it afterwards.
type Config struct {
	FTP        FTP
	RemoteRoot string // remote directory all feed paths are relative to
	Dirs       Dirs
	Cities     []City
	HTTPAddr   string
}

// defaultCities is the feed set served by the remote; overridable via CITIES
// as a comma-separated code:name list.
var defaultCities = []City{
	{Code: "khar", Name: "Kharkiv"},
	{Code: "kiev", Name: "Kyiv"},
	{Code: "dnepr", Name: "Dnipro"},
	{Code: "bel", Name: "Bila Tserkva"},
}

// Load reads configuration from the environment, with defaults matching the
// production feed server. A missing .env file is not an error.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	base := getenv("DATA_DIR", "ftp_data")

	cfg := Config{
		FTP: FTP{
			Host:     getenv("FTP_HOST", "smkft.space"),
			Port:     getenvInt("FTP_PORT", 2122),
			User:     getenv("FTP_USER", "nielsen"),
			Password: getenv("FTP_PASSWORD", ""),
		},
		RemoteRoot: getenv("FTP_ROOT", "/www"),
		Dirs: Dirs{
			Base:    base,
			Cache:   filepath.Join(base, "cache"),
			Reports: filepath.Join(base, "reports"),
		},
		Cities:   parseCities(os.Getenv("CITIES")),
		HTTPAddr: ":" + getenv("PORT", "8080"),
	}
	return cfg
}

// EnsureDirs creates the local working directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.Dirs.Base, c.Dirs.Cache, c.Dirs.Reports} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// CityName resolves a feed code to its display name; unknown codes fall back
// to the code itself.
func (c Config) CityName(code string) string {
	for _, city := range c.Cities {
		if city.Code == code {
			return city.Name
		}
	}
	return code
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func parseCities(raw string) []City {
	if raw == "" {
		return defaultCities
	}
	var cities []City
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, name, ok := strings.Cut(entry, ":")
		if !ok {
			name = code
		}
		cities = append(cities, City{Code: code, Name: name})
	}
	if len(cities) == 0 {
		return defaultCities
	}
	return cities
}
