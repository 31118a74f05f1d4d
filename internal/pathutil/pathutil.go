// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const envName = "ATTEND_ENV"

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	eventsFileName string
	cacheFileName  string
	logFileName    string
	envFileName    string

	// Computed absolute paths
	configFilePath string
	eventsFilePath string
	cacheFilePath  string
	logFilePath    string
	envFilePath    string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

// Initialize computes the application paths. It is safe to call more than
// once; only the first call has an effect.
func Initialize() error {
	once.Do(func() {
		paths = &Paths{
			configDir:      "attend",
			configFileName: "config.yml",
			eventsFileName: "events.db",
			cacheFileName:  "session.db",
			logFileName:    "attend.log",
			envFileName:    ".env",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

// EventsFilePath is the bbolt file backing the local event log.
func EventsFilePath() string {
	return Must().eventsFilePath
}

// CacheFilePath is the bbolt file backing the local session cache.
func CacheFilePath() string {
	return Must().cacheFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

// EnvFilePath is the optional dotenv file next to the config file.
func EnvFilePath() string {
	return Must().envFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv(envName))
	if env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.eventsFileName = fmt.Sprintf("events_%s.db", env)
		p.cacheFileName = fmt.Sprintf("session_%s.db", env)
		p.logFileName = fmt.Sprintf("attend_%s.log", env)
		p.envFileName = fmt.Sprintf(".env.%s", env)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	p.envFilePath = filepath.Join(filepath.Dir(p.configFilePath), p.envFileName)

	// DataFile creates the attend data directory
	p.eventsFilePath, err = xdg.DataFile(filepath.Join(p.configDir, p.eventsFileName))
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}

	dataDir := filepath.Dir(p.eventsFilePath)

	p.cacheFilePath = filepath.Join(dataDir, p.cacheFileName)

	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
