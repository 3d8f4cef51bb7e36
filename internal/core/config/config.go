package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the viewer process configuration, loadable from a YAML file.
// Zero fields fall back to Default values.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Scene     SceneConfig     `yaml:"scene"`
	Transport TransportConfig `yaml:"transport"`
}

// SceneConfig names the replica and sets its reconciliation cadence.
type SceneConfig struct {
	Name         string   `yaml:"name"`
	TickInterval Duration `yaml:"tick_interval"`
}

// TransportConfig selects and tunes the transport node.
type TransportConfig struct {
	// Kind is one of "websocket", "quic" or "loopback".
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	Address string `yaml:"address"`

	DialTimeout  Duration `yaml:"dial_timeout"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	BufferSize   int      `yaml:"buffer_size"`
	QueueSize    int      `yaml:"queue_size"`

	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Scene: SceneConfig{
			Name:         "default",
			TickInterval: Duration(50 * time.Millisecond),
		},
		Transport: TransportConfig{
			Kind: "websocket",
			URL:  "ws://127.0.0.1:8080/ws",
		},
	}
}

// Load reads a YAML file over the defaults. Absent fields keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Scene.Name == "" {
		cfg.Scene.Name = Default().Scene.Name
	}
	if cfg.Scene.TickInterval <= 0 {
		cfg.Scene.TickInterval = Default().Scene.TickInterval
	}
	return cfg, nil
}

// Duration decodes YAML strings like "250ms" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
