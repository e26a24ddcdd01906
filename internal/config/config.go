package config

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-sketchpad/internal/background"
	"github.com/coreman2200/funtimes-sketchpad/internal/layout"
)

type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type SwiperCfg struct {
	Loop       bool `yaml:"loop"`
	Vertical   bool `yaml:"vertical"`
	AutoplayMs int  `yaml:"autoplay_ms"` // 0 disables autoplay
	// TransitionMs is the wipe duration between backgrounds.
	TransitionMs int    `yaml:"transition_ms"`
	Ease         string `yaml:"ease"`
	// Mode is "wipe" or "fade".
	Mode string `yaml:"mode"`
}

type BloomCfg struct {
	Strength  float64 `yaml:"strength"` // 0 disables bloom
	Threshold float64 `yaml:"threshold"`
	Radius    int     `yaml:"radius"`
	Dither    float64 `yaml:"dither"` // in 8-bit steps
}

type PowerCfg struct {
	LimitAmps float64 `yaml:"limit_amps"`
	WhiteCap  float64 `yaml:"white_cap"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. SPI0.0, "" for the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type OutputCfg struct {
	Driver       string        `yaml:"driver"` // "console" | "nrz" | "none"
	ConsoleEvery int           `yaml:"console_every"`
	Brightness   float64       `yaml:"brightness"`
	Matrix       layout.Matrix `yaml:"matrix"`
	SPI          SPI           `yaml:"spi,omitempty"`
	Power        PowerCfg      `yaml:"power"`
}

type PreviewCfg struct {
	Addr string `yaml:"addr"` // "" disables the preview server
}

type SettingsCfg struct {
	Path     string `yaml:"path"` // .yaml or .toml; "" keeps settings in memory
	Key      string `yaml:"key"`
	AutoLoad bool   `yaml:"auto_load"`
	AutoSave bool   `yaml:"auto_save"`
}

type Config struct {
	Name   string `yaml:"name"`
	Author string `yaml:"author"`
	FPS    int    `yaml:"fps"`

	// Width and Height fix the canvas size; 0 follows the viewport.
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	Viewport Viewport `yaml:"viewport"`
	Preset   string   `yaml:"preset"`
	Zoom     float64  `yaml:"zoom"`

	Backgrounds []background.Spec `yaml:"backgrounds"`
	Swiper      SwiperCfg         `yaml:"swiper"`
	Exposure    float64           `yaml:"exposure_ev"`
	Bloom       BloomCfg          `yaml:"bloom"`
	// Seed drives every seeded effect.
	Seed int64 `yaml:"seed"`

	Output   OutputCfg   `yaml:"output"`
	Preview  PreviewCfg  `yaml:"preview"`
	Settings SettingsCfg `yaml:"settings"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Name:     "Gallery",
		FPS:      60,
		Viewport: Viewport{Width: 320, Height: 180},
		Zoom:     100,
		Backgrounds: []background.Spec{
			{Type: "solid", Colors: []string{"#1b1b3a"}},
			{Type: "linear", Colors: []string{"#ff6b6b", "#ffd93d", "#6bcB77"}, Angle: 45},
			{Type: "radial", Colors: []string{"#ffffff", "#4d96ff"}, Speed: 0.25},
			{Type: "wave", Speed: 0.2},
			{Type: "simplex", Colors: []string{"#0b132b", "#5bc0be", "#f5f3f4"}, Speed: 0.1},
		},
		Swiper: SwiperCfg{Loop: true, TransitionMs: 400, Ease: "cubic", Mode: "wipe"},
		Bloom:  BloomCfg{Strength: 0.6, Threshold: 0.3, Radius: 1, Dither: 1},
		Output: OutputCfg{
			Driver:       "console",
			ConsoleEvery: 60,
			Brightness:   1,
			Matrix:       layout.Matrix{Width: 16, Height: 16, Serpentine: true},
			Power:        PowerCfg{WhiteCap: 3},
		},
		Settings: SettingsCfg{Key: "settings"},
	}
}

// Load reads path over the defaults; "~" is expanded.
func Load(path string) (*Config, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	p, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0644)
}
