package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/patrolsim/internal/stones"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath     = "patrolsim.yaml"
	DefaultInputPath      = "Input.txt"
	DefaultDBPath         = "patrolsim.db"
	DefaultHost           = "0.0.0.0"
	DefaultPort           = "6996"
	DefaultHostKeyPath    = ".ssh/id_ed25519"
	DefaultReplayTick     = 40 * time.Millisecond
	DefaultMaxBlinks      = 5000
	maxConnectionsPerIP   = 2
	envPrefix             = "PATROLSIM_"
	defaultLogLevelString = "info"
)

var (
	DefaultStones = []string{"2", "77706", "5847", "9258441", "0", "741", "883933", "12"}
	DefaultBlinks = []int{25, 75, 1000}

	ErrInvalidConfig = errors.New("invalid config")
)

type SSHConfig struct {
	Host                string `yaml:"host"`
	Port                string `yaml:"port"`
	HostKeyPath         string `yaml:"host_key_path"`
	MaxConnectionsPerIP int    `yaml:"max_connections_per_ip"`
}

type Config struct {
	InputPath  string        `yaml:"input"`
	Workers    int           `yaml:"workers"`
	Stones     []string      `yaml:"stones"`
	Blinks     []int         `yaml:"blinks"`
	MaxBlinks  int           `yaml:"max_blinks"`
	DBPath     string        `yaml:"db_path"`
	LogLevel   string        `yaml:"log_level"`
	ReplayTick time.Duration `yaml:"replay_tick"`
	SSH        SSHConfig     `yaml:"ssh"`
}

func Default() Config {
	return Config{
		InputPath:  DefaultInputPath,
		Workers:    runtime.NumCPU(),
		Stones:     append([]string(nil), DefaultStones...),
		Blinks:     append([]int(nil), DefaultBlinks...),
		MaxBlinks:  DefaultMaxBlinks,
		DBPath:     DefaultDBPath,
		LogLevel:   defaultLogLevelString,
		ReplayTick: DefaultReplayTick,
		SSH: SSHConfig{
			Host:                DefaultHost,
			Port:                DefaultPort,
			HostKeyPath:         DefaultHostKeyPath,
			MaxConnectionsPerIP: maxConnectionsPerIP,
		},
	}
}

// Load reads path over the defaults and applies PATROLSIM_* environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		log.Debug("Config file not found, using defaults", "path", path)
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("INPUT"); ok {
		c.InputPath = v
	}
	if v, ok := lookupEnv("DB_PATH"); ok {
		c.DBPath = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("PRIVATE_KEY_PATH"); ok {
		c.SSH.HostKeyPath = v
	}
	if v, ok := lookupEnv("PORT"); ok {
		c.SSH.Port = v
	}
	if v, ok := lookupEnv("WORKERS"); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sWORKERS=%q: %w", ErrInvalidConfig, envPrefix, v, err)
		}
		c.Workers = workers
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if len(c.Stones) == 0 {
		return fmt.Errorf("%w: no stones configured", ErrInvalidConfig)
	}
	if _, err := stones.ParseValues(strings.Join(c.Stones, " ")); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxBlinks < 1 {
		return fmt.Errorf("%w: max blinks must be positive, got %d", ErrInvalidConfig, c.MaxBlinks)
	}
	for _, b := range c.Blinks {
		if b < 0 || b > c.MaxBlinks {
			return fmt.Errorf("%w: blink count %d outside 0..%d", ErrInvalidConfig, b, c.MaxBlinks)
		}
	}
	if c.ReplayTick <= 0 {
		return fmt.Errorf("%w: replay tick must be positive", ErrInvalidConfig)
	}
	if c.SSH.HostKeyPath == "" {
		return fmt.Errorf("%w: host key path is empty", ErrInvalidConfig)
	}
	if c.SSH.MaxConnectionsPerIP < 1 {
		return fmt.Errorf("%w: max connections per ip must be positive", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the configured log level; Validate has already checked it.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (c Config) Address() string {
	return c.SSH.Host + ":" + c.SSH.Port
}
