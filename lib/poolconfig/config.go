// Package poolconfig loads reactive pool sizing settings from a TOML
// file, the way lib/core loads node settings in the mesh VPN this
// package was adapted from. It covers only the data-shaped knobs of
// pool.PoolConfig — MaxSize, InitialSize, AcquireTimeout — since the
// Allocator/ReleaseHandler/Destructor/DeliveryContext fields are Go
// values that cannot round-trip through a file.
package poolconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/go-i2p/reactivepool/lib/pool"
	"github.com/pelletier/go-toml/v2"
)

// FileConfig is the on-disk shape of a pool's sizing settings.
type FileConfig struct {
	// MaxSize bounds the number of simultaneously live resources.
	MaxSize int `toml:"max_size"`
	// InitialSize is how many resources are eagerly allocated at
	// construction.
	InitialSize int `toml:"initial_size"`
	// AcquireTimeout bounds BorrowCtx calls made with a context that has
	// no deadline of its own. Zero disables the timeout.
	AcquireTimeout time.Duration `toml:"acquire_timeout"`
}

// DefaultFileConfig mirrors pool.NewPoolConfig's defaults.
func DefaultFileConfig() FileConfig {
	return FileConfig{MaxSize: 10}
}

// Load reads a TOML file at path into a FileConfig. A missing file is
// not an error: DefaultFileConfig is returned instead, the same
// not-found behavior lib/core.LoadConfig uses for the mesh VPN's node
// config.
func Load(path string) (FileConfig, error) {
	fc := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return FileConfig{}, fmt.Errorf("poolconfig: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("poolconfig: parsing %s: %w", path, err)
	}

	if err := fc.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("poolconfig: %s: %w", path, err)
	}

	return fc, nil
}

// Save writes fc to path as TOML.
func Save(fc FileConfig, path string) error {
	data, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("poolconfig: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("poolconfig: writing %s: %w", path, err)
	}
	return nil
}

// Validate checks fc's invariants independent of any particular pool's
// Allocator.
func (fc FileConfig) Validate() error {
	if fc.MaxSize <= 0 {
		return fmt.Errorf("max_size must be > 0")
	}
	if fc.InitialSize < 0 {
		return fmt.Errorf("initial_size must be >= 0")
	}
	if fc.InitialSize > fc.MaxSize {
		return fmt.Errorf("initial_size must be <= max_size")
	}
	if fc.AcquireTimeout < 0 {
		return fmt.Errorf("acquire_timeout must be >= 0")
	}
	return nil
}

// Options translates fc into pool.Option values for the given resource
// type, to be passed alongside an Allocator into pool.NewPoolConfig.
func Options[R any](fc FileConfig) []pool.Option[R] {
	opts := []pool.Option[R]{pool.WithMaxSize[R](fc.MaxSize)}
	if fc.InitialSize > 0 {
		opts = append(opts, pool.WithInitialSize[R](fc.InitialSize))
	}
	if fc.AcquireTimeout > 0 {
		opts = append(opts, pool.WithAcquireTimeout[R](fc.AcquireTimeout))
	}
	return opts
}
