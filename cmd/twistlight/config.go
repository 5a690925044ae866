//go:build !tinygo

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"twistlight/cube"
)

// Config is the top-level YAML configuration for the twistlight daemon.
//
// Defaults and validation live here so the rest of the code can assume a
// well-formed config.
type Config struct {
	Serial   SerialConfig       `yaml:"serial"`
	Input    InputConfig        `yaml:"input"`
	Strip    StripConfig        `yaml:"strip"`
	Debounce DebounceFileConfig `yaml:"debounce"`
	Render   RenderConfig       `yaml:"render"`
	Maps     MapsConfig         `yaml:"maps"`
	Monitor  MonitorConfig      `yaml:"monitor"`
	Sim      SimConfig          `yaml:"sim"`
	Logging  LoggingConfig      `yaml:"logging"`
}

type SerialConfig struct {
	Device string `yaml:"device,omitempty"` // tty carrying the protocol; empty disables
	Baud   int    `yaml:"baud"`
	Socket string `yaml:"socket,omitempty"` // unix socket speaking the same protocol; empty disables
}

type InputConfig struct {
	Devices []string `yaml:"devices,omitempty"` // evdev nodes (gpio-keys)
	// KeyBase maps key codes to inputs as code-KeyBase.
	KeyBase int `yaml:"key_base"`
	// Keys overrides KeyBase for individual key codes.
	Keys map[int]int `yaml:"keys,omitempty"`
}

type StripConfig struct {
	Device     string `yaml:"device,omitempty"` // spidev node; empty disables
	SpeedHz    int    `yaml:"speed_hz"`
	Skip       int    `yaml:"skip"`
	Brightness int    `yaml:"brightness"`
}

type DebounceFileConfig struct {
	RepressMS         int `yaml:"repress_ms"`
	InverseCooldownMS int `yaml:"inverse_cooldown_ms"`
	ConfirmMS         int `yaml:"confirm_ms"`
}

type RenderConfig struct {
	FrameMS int `yaml:"frame_ms"`
	LoopHz  int `yaml:"loop_hz"`
}

// MapsConfig holds boot-time maps in protocol payload form.
type MapsConfig struct {
	Switchmap string `yaml:"switchmap,omitempty"` // 36 digits, "99" leaves a twist unmapped
	Ledmap    string `yaml:"ledmap,omitempty"`    // 90 digits
}

type MonitorConfig struct {
	Addr string `yaml:"addr,omitempty"` // e.g. "127.0.0.1:8090"; empty disables
	Path string `yaml:"path"`
}

type SimConfig struct {
	Enabled bool   `yaml:"enabled"`
	Sound   bool   `yaml:"sound"`
	Keys    string `yaml:"keys"` // one key per entry of switchInputs
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"` // empty logs to stderr
}

const (
	defaultSerialBaud   = 115200
	defaultSocketPath   = "/tmp/twistlight.sock"
	defaultSPISpeedHz   = 2400000
	defaultMonitorPath  = "/ws"
	defaultKeyBase      = 0x2c0 // BTN_TRIGGER_HAPPY1
	defaultSimKeys      = "qwertyasdfghzxcvbn"
	unmappedSwitchDigit = "99"
)

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Serial: SerialConfig{
			Baud:   defaultSerialBaud,
			Socket: defaultSocketPath,
		},
		Input: InputConfig{
			KeyBase: defaultKeyBase,
		},
		Strip: StripConfig{
			SpeedHz:    defaultSPISpeedHz,
			Skip:       defaultSkipLEDs,
			Brightness: defaultBrightness,
		},
		Debounce: DebounceFileConfig{
			RepressMS:         int(defaultRepressDelay / time.Millisecond),
			InverseCooldownMS: int(defaultInverseCooldown / time.Millisecond),
			ConfirmMS:         int(defaultConfirmDelay / time.Millisecond),
		},
		Render: RenderConfig{
			FrameMS: int(defaultFrameInterval / time.Millisecond),
			LoopHz:  defaultLoopHz,
		},
		Monitor: MonitorConfig{
			Path: defaultMonitorPath,
		},
		Sim: SimConfig{
			Keys: defaultSimKeys,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the defaults.
// Unknown fields are rejected.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return parseConfig(b)
}

func parseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace/comments are allowed after the document.
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides carries flag values that win over the config file. A nil
// pointer means the flag was not set.
type FlagOverrides struct {
	SerialDevice *string
	SerialSocket *string
	InputDevices []string
	StripDevice  *string
	MonitorAddr  *string
	LogLevel     *string
	Sim          *bool
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.SerialDevice != nil {
		cfg.Serial.Device = *o.SerialDevice
	}
	if o.SerialSocket != nil {
		cfg.Serial.Socket = *o.SerialSocket
	}
	if o.InputDevices != nil {
		cfg.Input.Devices = o.InputDevices
	}
	if o.StripDevice != nil {
		cfg.Strip.Device = *o.StripDevice
	}
	if o.MonitorAddr != nil {
		cfg.Monitor.Addr = *o.MonitorAddr
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.Sim != nil {
		cfg.Sim.Enabled = *o.Sim
	}
}

// Validate checks config invariants and returns a user-friendly error.
// Call it after defaults, file and overrides are applied.
func (c *Config) Validate() error {
	if c.Serial.Device != "" && c.Serial.Baud <= 0 {
		return errors.New("serial.baud must be > 0")
	}

	for i, dev := range c.Input.Devices {
		if dev == "" {
			return fmt.Errorf("input.devices[%d] is empty", i)
		}
	}
	for code, in := range c.Input.Keys {
		if in < 0 || in > maxInputNum {
			return fmt.Errorf("input.keys[%d] = %d, must be between 0 and %d", code, in, maxInputNum)
		}
	}

	if c.Strip.Device != "" && c.Strip.SpeedHz <= 0 {
		return errors.New("strip.speed_hz must be > 0")
	}
	if c.Strip.Skip < 0 {
		return errors.New("strip.skip must be >= 0")
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 255 {
		return errors.New("strip.brightness must be between 0 and 255")
	}

	if c.Debounce.RepressMS < 0 || c.Debounce.InverseCooldownMS < 0 || c.Debounce.ConfirmMS < 0 {
		return errors.New("debounce timings must be >= 0")
	}

	if c.Render.FrameMS <= 0 {
		return errors.New("render.frame_ms must be > 0")
	}
	if c.Render.LoopHz <= 0 || c.Render.LoopHz > 10000 {
		return errors.New("render.loop_hz must be between 1 and 10000")
	}

	if c.Maps.Switchmap != "" {
		if _, err := parseSwitchmapConfig(c.Maps.Switchmap); err != nil {
			return fmt.Errorf("maps.switchmap: %w", err)
		}
	}
	if c.Maps.Ledmap != "" {
		if _, err := parseLedmapConfig(c.Maps.Ledmap); err != nil {
			return fmt.Errorf("maps.ledmap: %w", err)
		}
	}

	if c.Monitor.Addr != "" && c.Monitor.Path == "" {
		return errors.New("monitor.path must not be empty")
	}

	if c.Sim.Enabled && len(c.Sim.Keys) != numTwists {
		return fmt.Errorf("sim.keys must have %d characters, got %d", numTwists, len(c.Sim.Keys))
	}

	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}

// ToSettings converts the file config into runtime settings. Call Validate
// first; invalid map strings fall back to defaults here.
func (c *Config) ToSettings() Settings {
	s := DefaultSettings()
	s.Debounce = DebounceTiming{
		RepressDelay:    time.Duration(c.Debounce.RepressMS) * time.Millisecond,
		InverseCooldown: time.Duration(c.Debounce.InverseCooldownMS) * time.Millisecond,
		ConfirmDelay:    time.Duration(c.Debounce.ConfirmMS) * time.Millisecond,
	}
	s.FrameInterval = time.Duration(c.Render.FrameMS) * time.Millisecond
	s.LoopHz = c.Render.LoopHz
	s.Brightness = uint8(c.Strip.Brightness)
	s.SkipLEDs = c.Strip.Skip

	if c.Maps.Switchmap != "" {
		if m, err := parseSwitchmapConfig(c.Maps.Switchmap); err == nil {
			s.SwitchMap = m
		}
	} else if c.Sim.Enabled {
		// The simulator is unusable without switches; give it the board layout.
		for i, in := range switchInputs {
			s.SwitchMap[i] = in
		}
	}
	if c.Maps.Ledmap != "" {
		if m, err := parseLedmapConfig(c.Maps.Ledmap); err == nil {
			s.Outputs = m
		}
	}
	return s
}

// KeyInput maps an evdev key code to an input number.
func (c *InputConfig) KeyInput(code uint16) (int, bool) {
	if in, ok := c.Keys[int(code)]; ok {
		return in, true
	}
	in := int(code) - c.KeyBase
	if in < 0 || in > maxInputNum {
		return 0, false
	}
	return in, true
}

func parseSwitchmapConfig(s string) ([numTwists]int, error) {
	var m [numTwists]int
	if len(s) != switchmapBytes {
		return m, fmt.Errorf("need %d digits, got %d", switchmapBytes, len(s))
	}
	for t := 0; t < numTwists; t++ {
		pair := s[2*t : 2*t+2]
		if pair == unmappedSwitchDigit {
			m[t] = noInput
			continue
		}
		n, ok := parseSwitchNumber(pair[0], pair[1])
		if !ok {
			return m, fmt.Errorf("twist %s: bad input number %q", LogicalTwist(t), pair)
		}
		m[t] = n
	}
	return m, nil
}

func parseLedmapConfig(s string) (cube.OutputMap, error) {
	m := cube.DefaultOutputMap()
	if len(s) != cube.MapDigits {
		return m, fmt.Errorf("need %d digits, got %d", cube.MapDigits, len(s))
	}
	digits := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		digits[i] = s[i] - '0'
	}
	if _, err := m.RemapOutputs(digits); err != nil {
		return m, err
	}
	return m, nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
