package compositor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/compositor/buffer"
)

// Config is the file form of swap chain settings.
//
// Example YAML:
//
//	buffers: 3
//	width: 1920
//	height: 1080
//	format: bgra8unorm
//	allocator: shm
//	eager_wake: false
type Config struct {
	// Buffers is the pool size, 2 or 3.
	Buffers int `yaml:"buffers"`

	// Width and Height are the buffer dimensions in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Format is "rgba8unorm", "bgra8unorm" or empty to let the allocator choose.
	Format string `yaml:"format"`

	// Allocator names a registered buffer allocator. Empty selects the
	// best available one.
	Allocator string `yaml:"allocator"`

	// EagerWake enables WithEagerWake.
	EagerWake bool `yaml:"eager_wake"`
}

// DefaultConfig returns a triple-buffered 640x480 RGBA configuration.
func DefaultConfig() Config {
	return Config{
		Buffers: buffer.MaxPoolSize,
		Width:   640,
		Height:  480,
		Format:  "rgba8unorm",
	}
}

// LoadConfig decodes a YAML configuration on top of DefaultConfig.
// Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("compositor: decode config: %w", err)
	}
	return c, c.Validate()
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate reports whether the configuration can build a swap chain.
func (c Config) Validate() error {
	if c.Buffers < buffer.MinPoolSize || c.Buffers > buffer.MaxPoolSize {
		return fmt.Errorf("%w: buffers must be %d or %d, got %d",
			ErrInvalidConfig, buffer.MinPoolSize, buffer.MaxPoolSize, c.Buffers)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if _, err := ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

// Spec returns the buffer spec described by the configuration.
func (c Config) Spec() (buffer.Spec, error) {
	format, err := ParseFormat(c.Format)
	if err != nil {
		return buffer.Spec{}, err
	}
	return buffer.Spec{Width: c.Width, Height: c.Height, Format: format}, nil
}

// Options returns the swap chain options described by the configuration.
func (c Config) Options() []Option {
	opts := []Option{WithBufferCount(c.Buffers)}
	if c.EagerWake {
		opts = append(opts, WithEagerWake())
	}
	return opts
}

// NewAllocator resolves the configured allocator in the buffer registry.
func (c Config) NewAllocator() (buffer.Allocator, error) {
	if c.Allocator == "" {
		return buffer.NewAllocator()
	}
	return buffer.NewAllocatorByName(c.Allocator)
}

// NewFromConfig builds a swap chain from a configuration. Extra options
// are applied after the configured ones.
func NewFromConfig(c Config, opts ...Option) (*SwapChain, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	alloc, err := c.NewAllocator()
	if err != nil {
		return nil, err
	}
	spec, err := c.Spec()
	if err != nil {
		return nil, err
	}
	return New(alloc, spec, append(c.Options(), opts...)...)
}

// ParseFormat maps a format name to a pixel format. The empty string maps
// to Undefined.
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return gputypes.TextureFormatUndefined, nil
	case "rgba8unorm", "rgba8":
		return gputypes.TextureFormatRGBA8Unorm, nil
	case "bgra8unorm", "bgra8":
		return gputypes.TextureFormatBGRA8Unorm, nil
	default:
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, name)
	}
}
