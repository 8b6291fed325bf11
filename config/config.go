package config

import (
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/model"
	"github.com/ShaiW/blanim/infrastructure/logger"
)

const (
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "blanim.log"
	defaultErrLogFilename = "blanim_err.log"

	defaultK                  = 18
	defaultSimulationDuration = 20 * time.Second
	defaultBlocksPerSecond    = 1.0
	defaultNetworkDelay       = 500 * time.Millisecond
)

// Flags defines the command line configuration options.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion        bool          `short:"V" long:"version" description:"Display version information and exit"`
	LogDir             string        `long:"logdir" description:"Directory to log output."`
	LogLevel           string        `short:"d" long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
	K                  uint8         `short:"k" long:"k" description:"GHOSTDAG k parameter: the maximum blue anticone size of a blue block"`
	SimulationDuration time.Duration `long:"duration" description:"Simulated time span over which blocks are mined. Valid time units are {s, m, h}"`
	BlocksPerSecond    float64       `long:"bps" description:"Rate of the simulated block-creation process"`
	NetworkDelay       time.Duration `long:"delay" description:"Simulated block propagation delay. Valid time units are {ms, s}"`
	Seed               int64         `long:"seed" description:"Random seed for the simulation. -1 derives a seed from the current time"`
}

// Config wraps the parsed flags after validation and default resolution.
type Config struct {
	*Flags
}

func defaultFlags() *Flags {
	return &Flags{
		LogLevel:           defaultLogLevel,
		K:                  defaultK,
		SimulationDuration: defaultSimulationDuration,
		BlocksPerSecond:    defaultBlocksPerSecond,
		NetworkDelay:       defaultNetworkDelay,
		Seed:               -1,
	}
}

// LoadConfig parses command line options into a Config, applying defaults for
// every option the user did not set.
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) resolve() error {
	if _, ok := logger.LevelFromString(cfg.LogLevel); !ok {
		return errors.Errorf("the given log level %s doesn't exist", cfg.LogLevel)
	}
	if cfg.SimulationDuration <= 0 {
		return errors.Errorf("simulation duration must be positive, got %s", cfg.SimulationDuration)
	}
	if cfg.BlocksPerSecond <= 0 {
		return errors.Errorf("blocks per second must be positive, got %f", cfg.BlocksPerSecond)
	}
	if cfg.NetworkDelay < 0 {
		return errors.Errorf("network delay must not be negative, got %s", cfg.NetworkDelay)
	}
	if cfg.Seed == -1 {
		cfg.Seed = time.Now().UnixNano()
	}
	return nil
}

// KType returns the configured k in the classifier's parameter type.
func (cfg *Config) KType() model.KType {
	return model.KType(cfg.K)
}

// Level returns the configured logging level.
func (cfg *Config) Level() logger.Level {
	level, _ := logger.LevelFromString(cfg.LogLevel)
	return level
}

// LogFiles returns the main and error log file paths, or empty strings when
// file logging is disabled.
func (cfg *Config) LogFiles() (logFile, errLogFile string) {
	if cfg.LogDir == "" {
		return "", ""
	}
	return filepath.Join(cfg.LogDir, defaultLogFilename),
		filepath.Join(cfg.LogDir, defaultErrLogFilename)
}
