// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/robinhood/pkg/common/moerr"
	"github.com/matrixorigin/robinhood/pkg/container/robinhood"
	"github.com/matrixorigin/robinhood/pkg/logutil"
)

const (
	KeyKindString = "string"
	KeyKindBytes  = "bytes"
	KeyKindInt    = "int"

	defaultParallelism = 4

	// key ids are tracked in a 32 bit bitmap
	maxWorkloadKeys = 1 << 32
)

// Workload describes one map exercised by rh-check.
type Workload struct {
	//name is reported with the result
	Name string `toml:"name"`

	//default is "string". one of string, bytes, int
	KeyKind string `toml:"key-kind"`

	//number of distinct keys inserted
	Keys int `toml:"keys"`

	//number of keys inserted a second time with a new value. must not exceed keys
	Overwrites int `toml:"overwrites"`

	//number of lookups for keys that were never inserted
	Misses int `toml:"misses"`

	//default is 256. rounded up to a power of two
	InitialCapacity int `toml:"initial-capacity"`

	//default is 90. percentage in [1, 100]
	LoadFactor int `toml:"load-factor"`

	//seed of the key shuffle
	Seed int64 `toml:"seed"`
}

// Config is the rh-check configuration file.
type Config struct {
	Log logutil.LogConfig `toml:"log"`

	//default is 4. number of workloads run at the same time
	Parallelism int `toml:"parallelism"`

	Workloads []Workload `toml:"workload"`
}

// DefaultWorkloads returns the workloads run when no configuration is given.
func DefaultWorkloads() []Workload {
	return []Workload{
		{
			Name:            "strings-512",
			KeyKind:         KeyKindString,
			Keys:            512,
			Misses:          512,
			InitialCapacity: robinhood.DefaultCapacity,
			LoadFactor:      robinhood.DefaultLoadFactor,
		},
		{
			Name:            "ints-small-capacity",
			KeyKind:         KeyKindInt,
			Keys:            10,
			Misses:          10,
			InitialCapacity: 4,
			LoadFactor:      robinhood.DefaultLoadFactor,
		},
		{
			Name:            "bytes-overwrite",
			KeyKind:         KeyKindBytes,
			Keys:            100000,
			Overwrites:      25000,
			Misses:          10000,
			InitialCapacity: 16,
			LoadFactor:      robinhood.DefaultLoadFactor,
			Seed:            1,
		},
	}
}

// Default returns a configuration with default log settings and workloads.
func Default() *Config {
	cfg := &Config{Workloads: DefaultWorkloads()}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills the zero fields.
func (cfg *Config) SetDefaults() {
	cfg.Log.SetDefaults()
	if cfg.Parallelism == 0 {
		cfg.Parallelism = defaultParallelism
	}
	for i := range cfg.Workloads {
		w := &cfg.Workloads[i]
		if w.KeyKind == "" {
			w.KeyKind = KeyKindString
		}
		if w.InitialCapacity == 0 {
			w.InitialCapacity = robinhood.DefaultCapacity
		}
		if w.LoadFactor == 0 {
			w.LoadFactor = robinhood.DefaultLoadFactor
		}
	}
}

// Validate reports the first invalid setting. SetDefaults must run first.
func (cfg *Config) Validate() error {
	if cfg.Parallelism < 1 {
		return moerr.NewBadConfigNoCtx("parallelism %d must be positive", cfg.Parallelism)
	}
	if len(cfg.Workloads) == 0 {
		return moerr.NewBadConfigNoCtx("no workload configured")
	}
	names := make(map[string]struct{}, len(cfg.Workloads))
	for i := range cfg.Workloads {
		w := &cfg.Workloads[i]
		if w.Name == "" {
			return moerr.NewBadConfigNoCtx("workload %d has no name", i)
		}
		if _, ok := names[w.Name]; ok {
			return moerr.NewBadConfigNoCtx("duplicate workload %q", w.Name)
		}
		names[w.Name] = struct{}{}
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workload) Validate() error {
	switch w.KeyKind {
	case KeyKindString, KeyKindBytes, KeyKindInt:
	default:
		return moerr.NewBadConfigNoCtx("workload %q has unknown key kind %q", w.Name, w.KeyKind)
	}
	if w.Keys < 1 || uint64(w.Keys) > maxWorkloadKeys {
		return moerr.NewBadConfigNoCtx("workload %q keys %d out of range", w.Name, w.Keys)
	}
	if w.Overwrites < 0 || w.Overwrites > w.Keys {
		return moerr.NewBadConfigNoCtx("workload %q overwrites %d exceed keys %d", w.Name, w.Overwrites, w.Keys)
	}
	if w.Misses < 0 {
		return moerr.NewBadConfigNoCtx("workload %q misses %d is negative", w.Name, w.Misses)
	}
	if w.InitialCapacity < 0 || uint64(w.InitialCapacity) > robinhood.MaxCapacity {
		return moerr.NewBadConfigNoCtx("workload %q initial capacity %d out of range", w.Name, w.InitialCapacity)
	}
	if w.LoadFactor < 1 || w.LoadFactor > 100 {
		return moerr.NewBadConfigNoCtx("workload %q load factor %d must be in [1, 100]", w.Name, w.LoadFactor)
	}
	return nil
}

// Decode parses a configuration, applies defaults and validates it.
func Decode(data string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, moerr.NewBadConfigNoCtx("%v", err)
	}
	return finish(cfg, md)
}

// LoadFile is Decode for a file.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, moerr.NewBadConfigNoCtx("%s: %v", path, err)
	}
	return finish(cfg, md)
}

func finish(cfg *Config, md toml.MetaData) (*Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, moerr.NewBadConfigNoCtx("unknown keys %s", strings.Join(keys, ", "))
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
