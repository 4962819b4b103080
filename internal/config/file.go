package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoggingTarget is one entry of File.Logging: a named subsystem's
// enable toggle plus an optional dedicated log file.
type LoggingTarget struct {
	Enable      bool   `toml:"enable"`
	LogFilepath string `toml:"log_filepath"`
}

// Logging is the `logging.*` tree of spec §6, one toggle per subsystem.
type Logging struct {
	Asts        LoggingTarget `toml:"asts"`
	Imports     LoggingTarget `toml:"imports"`
	Types       LoggingTarget `toml:"types"`
	Opcodes     LoggingTarget `toml:"opcodes"`
	Config      LoggingTarget `toml:"config"`
	Diagnostics LoggingTarget `toml:"diagnostics"`
}

// Entrypoint names the file/symbol a compilation starts from.
type Entrypoint struct {
	Filepath string `toml:"filepath"`
	Symbol   string `toml:"symbol"`
}

// Std locates the standard library entrypoint.
type Std struct {
	Filepath string `toml:"filepath"`
}

// File is the TOML-style config file of spec §6: its keys mirror Flags
// and add the entrypoint/std/logging sections the CLI alone doesn't
// carry.
type File struct {
	WorkerThreadCount uint32 `toml:"worker_thread_count"`
	MaxStringLength   uint32 `toml:"max_string_length"`

	MaxConcurrentReads uint32 `toml:"max_concurrent_reads"`
	ReadBufferSize     uint32 `toml:"read_buffer_size"`

	FileMapCapacity       uint32 `toml:"file_map_capacity"`
	IdentifierMapCapacity uint32 `toml:"identifier_map_capacity"`

	Entrypoint Entrypoint `toml:"entrypoint"`
	Std        Std        `toml:"std"`
	Logging    Logging    `toml:"logging"`
}

// LoadFile reads and decodes the TOML config file at path.
func LoadFile(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	var f File
	if err := toml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	return f, nil
}

// Flags projects the CLI-overlapping subset of f onto a Flags value, for
// a driver that loads a config file in place of (or layered under)
// environment variables.
func (f File) Flags() Flags {
	return Flags{
		WorkerThreadCount:     f.WorkerThreadCount,
		MaxStringLength:       f.MaxStringLength,
		MaxConcurrentReads:    f.MaxConcurrentReads,
		ReadBufferSize:        f.ReadBufferSize,
		FileMapCapacity:       f.FileMapCapacity,
		IdentifierMapCapacity: f.IdentifierMapCapacity,
	}
}
