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
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/matrixorigin/robinhood/pkg/config"
	"github.com/matrixorigin/robinhood/pkg/logutil"
	"github.com/matrixorigin/robinhood/pkg/workload"
)

var (
	configFile = flag.String("cfg", "", "toml configuration with the workloads to check, built-in workloads if empty")
)

func main() {
	flag.Parse()

	cfg, err := parseConfig(*configFile)
	if err != nil {
		logutil.Fatal("failed to parse config", zap.String("cfg", *configFile), zap.Error(err))
	}
	logutil.SetupMOLogger(&cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	os.Exit(check(ctx, cfg))
}

func parseConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// check runs the workloads and returns the process exit code.
func check(ctx context.Context, cfg *config.Config) int {
	reports, err := workload.Run(ctx, cfg)
	if err != nil {
		logutil.Error("check interrupted", zap.Error(err))
		return 1
	}
	failed := 0
	for i := range reports {
		if reports[i].Failed() {
			failed++
		}
	}
	if failed > 0 {
		logutil.Errorf("%d of %d workloads failed", failed, len(reports))
		return 1
	}
	logutil.Infof("all %d workloads passed", len(reports))
	return 0
}
