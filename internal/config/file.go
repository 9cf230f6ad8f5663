package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML config read by the board CLI, e.g.
//
//	station: PR
//	count: 10
//	line: S1
//	store: memory
type File struct {
	Station        string        `yaml:"station"`
	Count          int           `yaml:"count"`
	Line           string        `yaml:"line"`
	Store          string        `yaml:"store"`
	LogLevel       string        `yaml:"log_level"`
	CameraInterval time.Duration `yaml:"camera_interval"`
	StationsFile   string        `yaml:"stations_file"`
}

// LoadFile reads a YAML config file. A missing file yields an empty File.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &f, nil
}

// Options turns the file into config options
func (f *File) Options() []Option {
	opts := []Option{
		WithBoardDefaults(f.Station, f.Count, f.Line),
		WithCameraInterval(f.CameraInterval),
	}
	if f.LogLevel != "" {
		opts = append(opts, WithLogLevel(f.LogLevel))
	}
	if f.StationsFile != "" {
		opts = append(opts, WithStationsFile(f.StationsFile))
	}
	return opts
}

// Apply overrides the store backend if the file names one
func (f *File) Apply(cache *CacheConfig) {
	if f.Store != "" {
		cache.Backend = f.Store
	}
}
