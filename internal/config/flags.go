// Package config holds the CLI/config surface of the driver (spec §6):
// environment-backed flag defaults parsed with caarlos0/env, and a
// TOML-style config file reader whose keys mirror those flags.
package config

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v6"
)

// Flags is the CLI/environment knob set of spec §6. WorkerThreadCount is
// read but never consulted by the four in-scope cores (the pipeline is
// single-threaded per spec §5); it exists only because the original
// exposes it.
type Flags struct {
	WorkerThreadCount uint32 `env:"ILEX_WORKER_THREAD_COUNT"`
	MaxStringLength   uint32 `env:"ILEX_MAX_STRING_LENGTH" envDefault:"4096"`

	MaxConcurrentReads  uint32 `env:"ILEX_MAX_CONCURRENT_READS" envDefault:"4"`
	ReadBufferSize      uint32 `env:"ILEX_READ_BUFFER_SIZE" envDefault:"65536"`

	FileMapCapacity       uint32 `env:"ILEX_FILE_MAP_CAPACITY" envDefault:"64"`
	IdentifierMapCapacity uint32 `env:"ILEX_IDENTIFIER_MAP_CAPACITY" envDefault:"1024"`
}

// ParseFlags reads Flags from the process environment, filling
// WorkerThreadCount with the logical processor count when unset.
func ParseFlags() (Flags, error) {
	var f Flags
	if err := env.Parse(&f); err != nil {
		return Flags{}, fmt.Errorf("config: %w", err)
	}
	if f.WorkerThreadCount == 0 {
		f.WorkerThreadCount = uint32(runtime.NumCPU())
	}
	return f, f.Validate()
}

// Validate enforces the ranges spec §6 documents for each knob.
func (f Flags) Validate() error {
	if f.WorkerThreadCount < 1 || f.WorkerThreadCount > 1024 {
		return fmt.Errorf("config: worker-thread-count must be in [1, 1024], got %d", f.WorkerThreadCount)
	}
	if f.MaxStringLength < 4096 || f.MaxStringLength > 65536 {
		return fmt.Errorf("config: max-string-length must be in [4096, 65536], got %d", f.MaxStringLength)
	}
	return nil
}
