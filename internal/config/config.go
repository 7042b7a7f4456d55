// Package config loads the cmd/fina CLI's configuration: where feed files
// live, and the chunking/size ceilings passed into every pkg/phpfina
// operation as a phpfina.Config value. No part of the library core reads
// this package directly; it exists solely to build the value the CLI
// threads through.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/emontools/phpfina/pkg/phpfina"
)

// File is the on-disk shape of a fina config file (HuJSON: JSON plus
// comments and trailing commas).
type File struct {
	DataDir        string `json:"data_dir,omitempty"`
	ChunkSizeFloor int    `json:"chunk_size_floor,omitempty"`
	MaxDataSize    int64  `json:"max_data_size,omitempty"`
	MaxMetaSize    int64  `json:"max_meta_size,omitempty"`
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".fina.hujson"

var (
	errDataDirEmpty       = errors.New("config: data_dir cannot be empty")
	errConfigFileNotFound = errors.New("config: file not found")
	errConfigFileRead     = errors.New("config: could not read file")
	errConfigInvalid      = errors.New("config: invalid")
)

// Sources records which config files, if any, contributed to the final
// value, for diagnostic output. The fina CLI currently discards it.
type Sources struct {
	Global  string
	Project string
}

// Overrides holds CLI-flag values that take precedence over any config
// file. HasX fields distinguish "flag not passed" from "flag passed as the
// zero value".
type Overrides struct {
	DataDir           string
	HasDataDir        bool
	ChunkSizeFloor    int
	HasChunkSizeFloor bool
	MaxDataSize       int64
	HasMaxDataSize    bool
	MaxMetaSize       int64
	HasMaxMetaSize    bool
}

// Load resolves a [phpfina.Config] from, in ascending precedence:
//  1. phpfina.DefaultConfig
//  2. $XDG_CONFIG_HOME/fina/config.hujson (or ~/.config/fina/config.hujson)
//  3. configPath if non-empty, else ./.fina.hujson in workDir (optional)
//  4. CLI flag overrides
func Load(workDir, configPath string, overrides Overrides, env []string) (phpfina.Config, Sources, error) {
	cfg := phpfina.DefaultConfig(".")

	var sources Sources

	globalFile, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return phpfina.Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = merge(cfg, globalFile)

	projectFile, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return phpfina.Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = merge(cfg, projectFile)

	cfg = applyOverrides(cfg, overrides)

	if cfg.DataDir == "" {
		return phpfina.Config{}, Sources{}, errDataDirEmpty
	}

	return cfg, sources, nil
}

func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "fina", "config.hujson")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fina", "config.hujson")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "fina", "config.hujson")
	}

	return ""
}

func loadGlobalConfig(env []string) (File, string, error) {
	path := getGlobalConfigPath(env)
	if path == "" {
		return File{}, "", nil
	}

	file, loaded, err := loadConfigFile(path, false)
	if err != nil {
		return File{}, "", err
	}

	if !loaded {
		return File{}, "", nil
	}

	return file, path, nil
}

func loadProjectConfig(workDir, configPath string) (File, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		if _, err := os.Stat(path); err != nil {
			return File{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, ConfigFileName)
	}

	file, loaded, err := loadConfigFile(path, mustExist)
	if err != nil {
		return File{}, "", err
	}

	if !loaded {
		return File{}, "", nil
	}

	return file, path, nil
}

func loadConfigFile(path string, mustExist bool) (File, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return File{}, false, nil
		}

		if mustExist {
			return File{}, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
		}

		return File{}, false, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return File{}, false, fmt.Errorf("%w %s: invalid HuJSON: %w", errConfigInvalid, path, err)
	}

	var file File

	if err := json.Unmarshal(standardized, &file); err != nil {
		return File{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return file, true, nil
}

func merge(base phpfina.Config, overlay File) phpfina.Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.ChunkSizeFloor != 0 {
		base.ChunkSizeFloor = overlay.ChunkSizeFloor
	}

	if overlay.MaxDataSize != 0 {
		base.MaxDataSize = overlay.MaxDataSize
	}

	if overlay.MaxMetaSize != 0 {
		base.MaxMetaSize = overlay.MaxMetaSize
	}

	return base
}

func applyOverrides(cfg phpfina.Config, o Overrides) phpfina.Config {
	if o.HasDataDir {
		cfg.DataDir = o.DataDir
	}

	if o.HasChunkSizeFloor {
		cfg.ChunkSizeFloor = o.ChunkSizeFloor
	}

	if o.HasMaxDataSize {
		cfg.MaxDataSize = o.MaxDataSize
	}

	if o.HasMaxMetaSize {
		cfg.MaxMetaSize = o.MaxMetaSize
	}

	return cfg
}

// Format returns cfg as formatted JSON, for diagnostics.
func Format(cfg phpfina.Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}
