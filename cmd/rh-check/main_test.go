// Copyright 2022 Matrix Origin
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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/robinhood/pkg/config"
)

func TestParseConfigDefault(t *testing.T) {
	cfg, err := parseConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWorkloads(), cfg.Workloads)
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rh.toml")
	data := `
parallelism = 1

[[workload]]
name = "tiny"
key-kind = "int"
keys = 16
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	cfg, err := parseConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Workloads, 1)
	assert.Equal(t, 0, check(context.Background(), cfg))
}

func TestParseConfigMissingFile(t *testing.T) {
	_, err := parseConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestCheckFailed(t *testing.T) {
	cfg := config.Default()
	cfg.Workloads = append(cfg.Workloads, config.Workload{Name: "bad", KeyKind: "float", Keys: 1})
	assert.Equal(t, 1, check(context.Background(), cfg))
}

func TestCheckCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 1, check(ctx, config.Default()))
}
