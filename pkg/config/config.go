package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/palette"
)

// AppName names the configuration directory under XDG_CONFIG_HOME.
const AppName = "allocviz"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the resolved configuration.
type Config struct {
	Layouts layout.Set
	Cache   CacheConfig
	Server  ServerConfig
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`   // file, redis or none
	Dir      string `toml:"dir"`       // file backend directory; empty uses the XDG cache dir
	RedisURL string `toml:"redis_url"` // redis backend URL
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layouts: layout.DefaultSet(),
		Cache:   CacheConfig{Backend: CacheFile},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// file mirrors the TOML document. Pointers distinguish "absent" from zero.
type file struct {
	Bitmap     layoutSection `toml:"bitmap"`
	Buddy      layoutSection `toml:"buddy"`
	LinkedList layoutSection `toml:"linkedlist"`
	Palette    *paletteSection `toml:"palette"`
	Cache      *CacheConfig    `toml:"cache"`
	Server     *ServerConfig   `toml:"server"`
}

type layoutSection struct {
	Padding             []int           `toml:"padding"` // left, top, right, bottom
	Block               []int           `toml:"block"`   // width, height
	Margin              []int           `toml:"margin"`  // width, height
	InterGroupPad       *int            `toml:"inter_group_pad"`
	SizingMultiplier    *int            `toml:"sizing_multiplier"`
	LayerZeroIsCoarsest *bool           `toml:"layer_zero_coarsest"`
	CapWidth            *int            `toml:"cap_width"`
	RegionInset         *int            `toml:"region_inset"`
	MemSize             *int            `toml:"mem_size"`
	Palette             *paletteSection `toml:"palette"`
}

type paletteSection struct {
	Background *string  `toml:"background"`
	Empty      *string  `toml:"empty"`
	States     []string `toml:"states"`
}

// DefaultPath returns $XDG_CONFIG_HOME/allocviz/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// Load reads the configuration file at path. A missing file is a
// FILE_NOT_FOUND error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at [DefaultPath] if it exists and returns the
// defaults otherwise. The returned path is empty when no file was read.
func LoadDefault() (Config, string, error) {
	path := DefaultPath()
	if path == "" {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Parse decodes a TOML document on top of [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}

	cfg := Default()
	if f.Palette != nil {
		pal, err := f.Palette.apply(palette.Default())
		if err != nil {
			return Config{}, fmt.Errorf("[palette]: %w", err)
		}
		cfg.Layouts.Bitmap.Palette = pal
		cfg.Layouts.Buddy.Palette = pal
		cfg.Layouts.LinkedList.Palette = pal
	}

	sections := []struct {
		name string
		sec  layoutSection
		dst  *layout.Config
	}{
		{"bitmap", f.Bitmap, &cfg.Layouts.Bitmap},
		{"buddy", f.Buddy, &cfg.Layouts.Buddy},
		{"linkedlist", f.LinkedList, &cfg.Layouts.LinkedList},
	}
	for _, s := range sections {
		if err := s.sec.apply(s.dst); err != nil {
			return Config{}, fmt.Errorf("[%s]: %w", s.name, err)
		}
	}
	if err := cfg.Layouts.Validate(); err != nil {
		return Config{}, err
	}

	if f.Cache != nil {
		if f.Cache.Backend != "" {
			cfg.Cache.Backend = strings.ToLower(f.Cache.Backend)
		}
		cfg.Cache.Dir = f.Cache.Dir
		cfg.Cache.RedisURL = f.Cache.RedisURL
	}
	if err := cfg.Cache.Validate(); err != nil {
		return Config{}, err
	}

	if f.Server != nil {
		if f.Server.Addr != "" {
			cfg.Server.Addr = f.Server.Addr
		}
		if f.Server.MaxBodyBytes != 0 {
			cfg.Server.MaxBodyBytes = f.Server.MaxBodyBytes
		}
		if f.Server.ReadTimeout != 0 {
			cfg.Server.ReadTimeout = f.Server.ReadTimeout
		}
		if f.Server.WriteTimeout != 0 {
			cfg.Server.WriteTimeout = f.Server.WriteTimeout
		}
	}
	if err := cfg.Server.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the backend name and its required settings.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case CacheFile, CacheNone:
		return nil
	case CacheRedis:
		if c.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache] redis backend needs redis_url")
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q (valid: file, redis, none)", c.Backend)
}

// Validate checks the server limits.
func (c ServerConfig) Validate() error {
	switch {
	case c.MaxBodyBytes < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "[server] max_body_bytes %d must not be negative", c.MaxBodyBytes)
	case c.ReadTimeout < 0 || c.WriteTimeout < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "[server] timeouts must not be negative")
	}
	return nil
}

func (s layoutSection) apply(c *layout.Config) error {
	if s.Padding != nil {
		if len(s.Padding) != 4 {
			return errors.New(errors.ErrCodeInvalidConfig, "padding needs 4 values (left, top, right, bottom), got %d", len(s.Padding))
		}
		c.Padding = layout.Padding{Left: s.Padding[0], Top: s.Padding[1], Right: s.Padding[2], Bottom: s.Padding[3]}
	}
	if s.Block != nil {
		sz, err := pair("block", s.Block)
		if err != nil {
			return err
		}
		c.Block = sz
	}
	if s.Margin != nil {
		sz, err := pair("margin", s.Margin)
		if err != nil {
			return err
		}
		c.Margin = sz
	}
	setInt(&c.InterGroupPad, s.InterGroupPad)
	setInt(&c.SizingMultiplier, s.SizingMultiplier)
	setInt(&c.CapWidth, s.CapWidth)
	setInt(&c.RegionInset, s.RegionInset)
	setInt(&c.MemSize, s.MemSize)
	if s.LayerZeroIsCoarsest != nil {
		c.LayerZeroIsCoarsest = *s.LayerZeroIsCoarsest
	}
	if s.Palette != nil {
		pal, err := s.Palette.apply(c.Palette)
		if err != nil {
			return err
		}
		c.Palette = pal
	}
	return nil
}

// apply overlays the section on base, keeping entries it leaves out.
func (s paletteSection) apply(base palette.Palette) (palette.Palette, error) {
	bg, empty, states := base.Hex()
	if s.Background != nil {
		bg = *s.Background
	}
	if s.Empty != nil {
		empty = *s.Empty
	}
	if s.States != nil {
		states = s.States
	}
	return palette.New(bg, empty, states...)
}

func pair(name string, v []int) (layout.Size, error) {
	if len(v) != 2 {
		return layout.Size{}, errors.New(errors.ErrCodeInvalidConfig, "%s needs 2 values (width, height), got %d", name, len(v))
	}
	return layout.Size{W: v[0], H: v[1]}, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
