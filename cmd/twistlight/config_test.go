//go:build !tinygo

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"twistlight/cube"
)

func TestParseConfig_OverridesDefaults(t *testing.T) {
	yml := `
serial:
  device: /dev/ttyGS0
input:
  devices: [/dev/input/event0]
  keys:
    704: 2
strip:
  device: /dev/spidev0.0
  brightness: 80
debounce:
  repress_ms: 200
maps:
  switchmap: "020304050608101112131415161718192021"
logging:
  level: debug
`
	cfg, err := parseConfig([]byte(yml))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Serial.Baud != defaultSerialBaud {
		t.Fatalf("baud = %d, default must survive", cfg.Serial.Baud)
	}
	if cfg.Serial.Socket != defaultSocketPath {
		t.Fatalf("socket = %q", cfg.Serial.Socket)
	}

	s := cfg.ToSettings()
	if s.Brightness != 80 {
		t.Fatalf("brightness = %d", s.Brightness)
	}
	if s.Debounce.RepressDelay != 200*time.Millisecond {
		t.Fatalf("repress = %v", s.Debounce.RepressDelay)
	}
	if s.Debounce.InverseCooldown != defaultInverseCooldown {
		t.Fatalf("cooldown = %v", s.Debounce.InverseCooldown)
	}
	for tw, in := range switchInputs {
		if s.SwitchMap[tw] != in {
			t.Fatalf("twist %d -> %d, want %d", tw, s.SwitchMap[tw], in)
		}
	}
	if in, ok := cfg.Input.KeyInput(704); !ok || in != 2 {
		t.Fatalf("KeyInput(704) = %d, %v", in, ok)
	}
}

func TestParseConfig_RejectsUnknownFields(t *testing.T) {
	_, err := parseConfig([]byte("strip:\n  colour: red\n"))
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestParseConfig_RejectsTrailingDocument(t *testing.T) {
	_, err := parseConfig([]byte("logging:\n  level: info\n---\nlogging:\n  level: debug\n"))
	if err == nil || !strings.Contains(err.Error(), "trailing") {
		t.Fatalf("err = %v, want trailing document error", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want string
	}{
		{"brightness", func(c *Config) { c.Strip.Brightness = 300 }, "strip.brightness"},
		{"skip", func(c *Config) { c.Strip.Skip = -1 }, "strip.skip"},
		{"frame", func(c *Config) { c.Render.FrameMS = 0 }, "render.frame_ms"},
		{"loop", func(c *Config) { c.Render.LoopHz = 0 }, "render.loop_hz"},
		{"key input", func(c *Config) { c.Input.Keys = map[int]int{704: 22} }, "input.keys"},
		{"switchmap length", func(c *Config) { c.Maps.Switchmap = "0203" }, "maps.switchmap"},
		{"switchmap number", func(c *Config) { c.Maps.Switchmap = "22" + strings.Repeat("99", numTwists-1) }, "maps.switchmap"},
		{"ledmap", func(c *Config) { c.Maps.Ledmap = strings.Repeat("69", cube.OutputLen) }, "maps.ledmap"},
		{"sim keys", func(c *Config) { c.Sim.Enabled = true; c.Sim.Keys = "qwe" }, "sim.keys"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfig_SwitchmapUnmappedDigits(t *testing.T) {
	m, err := parseSwitchmapConfig("05" + strings.Repeat("99", numTwists-1))
	if err != nil {
		t.Fatalf("parseSwitchmapConfig: %v", err)
	}
	if m[0] != 5 {
		t.Fatalf("f -> %d, want 5", m[0])
	}
	for i := 1; i < numTwists; i++ {
		if m[i] != noInput {
			t.Fatalf("twist %d -> %d, want unmapped", i, m[i])
		}
	}
}

func TestConfig_SimGetsBoardLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sim.Enabled = true
	s := cfg.ToSettings()
	for tw, in := range switchInputs {
		if s.SwitchMap[tw] != in {
			t.Fatalf("twist %d -> %d, want %d", tw, s.SwitchMap[tw], in)
		}
	}

	cfg.Sim.Enabled = false
	s = cfg.ToSettings()
	if s.SwitchMap[0] != noInput {
		t.Fatalf("hardware default must leave twists unmapped")
	}
}

func TestFlagOverridesApply(t *testing.T) {
	cfg := DefaultConfig()
	dev := "/dev/ttyACM0"
	sim := true
	FlagOverrides{
		SerialDevice: &dev,
		InputDevices: []string{"/dev/input/event3"},
		Sim:          &sim,
	}.Apply(&cfg)

	if cfg.Serial.Device != dev {
		t.Fatalf("serial device = %q", cfg.Serial.Device)
	}
	if len(cfg.Input.Devices) != 1 || cfg.Input.Devices[0] != "/dev/input/event3" {
		t.Fatalf("input devices = %v", cfg.Input.Devices)
	}
	if !cfg.Sim.Enabled {
		t.Fatalf("sim not enabled")
	}
	if cfg.Serial.Socket != defaultSocketPath {
		t.Fatalf("unset override changed socket to %q", cfg.Serial.Socket)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twistlight.yaml")
	if err := os.WriteFile(path, []byte("render:\n  frame_ms: 80\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Render.FrameMS != 80 {
		t.Fatalf("frame_ms = %d", cfg.Render.FrameMS)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestKeyInputFromBase(t *testing.T) {
	c := InputConfig{KeyBase: defaultKeyBase}
	if in, ok := c.KeyInput(defaultKeyBase + 21); !ok || in != 21 {
		t.Fatalf("KeyInput(base+21) = %d, %v", in, ok)
	}
	if _, ok := c.KeyInput(defaultKeyBase + 22); ok {
		t.Fatalf("KeyInput(base+22) must be rejected")
	}
	if _, ok := c.KeyInput(defaultKeyBase - 1); ok {
		t.Fatalf("KeyInput(base-1) must be rejected")
	}
}
