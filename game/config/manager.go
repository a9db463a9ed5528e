package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/anchor/game/engine"
	"github.com/wricardo/mcp-training/anchor/game/puzzle"
	"github.com/wricardo/mcp-training/anchor/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is loaded as the default puzzle when present
const DefaultConfigName = "classic"

// extensions lists the supported puzzle file formats in lookup order
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles puzzle configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.PuzzleConfig
	configs       map[string]*engine.PuzzleConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.PuzzleConfig),
	}

	m.loadDefaultConfig()

	return m, nil
}

// LoadConfig loads a configuration by name (file name with or without
// extension). The cache is keyed by the resolved file name, so x.json and
// x.yaml never shadow each other.
func (m *Manager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	key := filepath.Base(path)

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[key]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	config, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have loaded it meanwhile
	if cached, exists := m.configs[key]; exists {
		return cached, nil
	}
	m.configs[key] = config
	return config, nil
}

// LoadAll loads every puzzle file in the directory. Files that fail to load
// are skipped and their errors combined into the returned error.
func (m *Manager) LoadAll() (map[string]*engine.PuzzleConfig, error) {
	files, err := m.files()
	if err != nil {
		return nil, err
	}

	loaded := make(map[string]*engine.PuzzleConfig, len(files))
	var errs error
	for _, file := range files {
		config, err := m.LoadConfig(file)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		loaded[configID(file)] = config
	}

	return loaded, errs
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	files, err := m.files()
	if err != nil {
		return nil, err
	}

	var configs []*service.ConfigInfo

	for _, file := range files {
		config, err := m.LoadConfig(file)
		if err != nil {
			// Skip invalid configs
			log.Warn().Err(err).Str("file", file).Msg("skipping invalid puzzle config")
			continue
		}

		board, err := engine.BoardFromConfig(config)
		if err != nil {
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    file,
			ConfigID:    configID(file), // This is the identifier to use for session creation
			Name:        config.Name,
			Description: config.Description,
			Tokens:      board.Tokens(),
			Blocks:      board.Count(puzzle.Block),
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.PuzzleConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.PuzzleConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// loadDefaultConfig picks classic, then the first loadable file, then the
// built-in puzzle.
func (m *Manager) loadDefaultConfig() {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		config = nil
		if files, listErr := m.files(); listErr == nil {
			for _, file := range files {
				if c, err := m.LoadConfig(file); err == nil {
					config = c
					break
				}
			}
		}
	}
	if config == nil {
		config = engine.DefaultPuzzleConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// files returns the puzzle file names in the config directory sorted by
// config ID. When several files share an ID only the one resolve would
// pick is kept, so every listed ID is unique.
func (m *Manager) files() ([]string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Slice(files, func(i, j int) bool {
		if a, b := configID(files[i]), configID(files[j]); a != b {
			return a < b
		}
		return extensionRank(files[i]) < extensionRank(files[j])
	})

	unique := files[:0]
	for i, file := range files {
		if i > 0 && configID(file) == configID(unique[len(unique)-1]) {
			log.Warn().
				Str("file", file).
				Str("shadowed_by", unique[len(unique)-1]).
				Msg("skipping puzzle config with duplicate id")
			continue
		}
		unique = append(unique, file)
	}

	return unique, nil
}

// resolve finds the file for a config name, trying each extension when
// the name has none.
func (m *Manager) resolve(name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", ErrConfigNotFound
	}

	if supported(name) {
		path := filepath.Join(m.configDir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", ErrConfigNotFound
			}
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
		return path, nil
	}

	for _, ext := range extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// ParseFile reads and validates a single puzzle file
func ParseFile(path string) (*engine.PuzzleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.PuzzleConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidatePuzzleConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// extensionRank orders a file by its position in extensions
func extensionRank(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	for i, e := range extensions {
		if ext == e {
			return i
		}
	}
	return len(extensions)
}

// configID strips a supported extension from a file name
func configID(name string) string {
	if supported(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
