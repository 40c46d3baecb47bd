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

package workload

import (
	"context"
	"encoding/binary"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/axiomhq/hyperloglog"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/robinhood/pkg/common/moerr"
	"github.com/matrixorigin/robinhood/pkg/config"
	"github.com/matrixorigin/robinhood/pkg/container/robinhood"
	"github.com/matrixorigin/robinhood/pkg/logutil"
)

// Report is the outcome of one workload.
type Report struct {
	Name              string
	KeyKind           string
	Keys              int
	Len               int
	Capacity          int
	Grows             int
	MaxProbeDistance  int
	MeanProbeDistance float64
	DistinctEstimate  uint64
	Duration          time.Duration
	Err               error
}

func (r *Report) Failed() bool {
	return r.Err != nil
}

func (r *Report) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("workload", r.Name),
		zap.String("key-kind", r.KeyKind),
		zap.Int("keys", r.Keys),
		zap.Int("len", r.Len),
		zap.Int("capacity", r.Capacity),
		zap.Int("grows", r.Grows),
		zap.Int("max-probe-distance", r.MaxProbeDistance),
		zap.Float64("mean-probe-distance", r.MeanProbeDistance),
		zap.Uint64("distinct-estimate", r.DistinctEstimate),
		zap.Duration("duration", r.Duration),
	}
	if r.Err != nil {
		fields = append(fields, zap.Error(r.Err))
	}
	return fields
}

// Run executes every configured workload on a pool of cfg.Parallelism
// goroutines. Each map is owned by the goroutine running its workload.
// Workloads not started before ctx is done report the context error.
func Run(ctx context.Context, cfg *config.Config) ([]Report, error) {
	pool, err := ants.NewPool(cfg.Parallelism)
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	defer pool.Release()

	reports := make([]Report, len(cfg.Workloads))
	var wg sync.WaitGroup
	for i := range cfg.Workloads {
		w := cfg.Workloads[i]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				reports[i] = Report{Name: w.Name, KeyKind: w.KeyKind, Keys: w.Keys, Err: err}
				return
			}
			reports[i] = RunWorkload(ctx, w)
		})
		if err != nil {
			wg.Done()
			reports[i] = Report{Name: w.Name, KeyKind: w.KeyKind, Keys: w.Keys, Err: moerr.ConvertGoError(ctx, err)}
		}
	}
	wg.Wait()

	for i := range reports {
		switch {
		case reports[i].Err != nil && reports[i].Err == ctx.Err():
			logutil.Warn("workload skipped", reports[i].Fields()...)
		case reports[i].Failed():
			logutil.Error("workload failed", reports[i].Fields()...)
		default:
			logutil.Info("workload passed", reports[i].Fields()...)
		}
	}
	return reports, ctx.Err()
}

// RunWorkload builds one map for w and checks it.
func RunWorkload(ctx context.Context, w config.Workload) Report {
	switch w.KeyKind {
	case config.KeyKindString:
		return run(ctx, w, func(id uint64) robinhood.StringKey {
			return robinhood.StringKey("key-" + strconv.FormatUint(id, 10))
		})
	case config.KeyKindBytes:
		return run(ctx, w, func(id uint64) robinhood.BytesKey {
			var buf [16]byte
			copy(buf[:], "bk-")
			binary.BigEndian.PutUint64(buf[8:], id)
			return robinhood.NewBytesKey(buf[:])
		})
	case config.KeyKindInt:
		return run(ctx, w, func(id uint64) robinhood.Int64Key {
			return robinhood.Int64Key(id)
		})
	default:
		return Report{
			Name:    w.Name,
			KeyKind: w.KeyKind,
			Keys:    w.Keys,
			Err:     moerr.NewInvalidInput(ctx, "unknown key kind %s", w.KeyKind),
		}
	}
}

// value encodes the key id and whether the key was overwritten.
func value(id uint64, overwritten bool) uint64 {
	v := id << 1
	if overwritten {
		v |= 1
	}
	return v
}

func run[K robinhood.Key](ctx context.Context, w config.Workload, makeKey func(id uint64) K) (rep Report) {
	rep = Report{Name: w.Name, KeyKind: w.KeyKind, Keys: w.Keys}
	start := time.Now()
	defer func() {
		rep.Duration = time.Since(start)
		if r := recover(); r != nil {
			rep.Err = moerr.ConvertPanicError(ctx, r)
		}
	}()

	order := rand.New(rand.NewSource(w.Seed)).Perm(w.Keys)
	overwritten := roaring.New()
	sketch := hyperloglog.New()
	m := robinhood.WithCapacityAndLoadFactor[K, uint64](w.InitialCapacity, w.LoadFactor)

	for _, id := range order {
		key := makeKey(uint64(id))
		sketch.Insert(key.Bytes())
		if m.Insert(key, value(uint64(id), false)) {
			rep.Err = moerr.NewInternalError(ctx, "fresh key %d reported as replaced", id)
			return
		}
	}
	for _, id := range order[:w.Overwrites] {
		key := makeKey(uint64(id))
		sketch.Insert(key.Bytes())
		if !m.Insert(key, value(uint64(id), true)) {
			rep.Err = moerr.NewInternalError(ctx, "overwrite of key %d inserted a new entry", id)
			return
		}
		overwritten.Add(uint32(id))
	}

	n := uint64(w.Keys)
	if uint64(m.Len()) != n {
		rep.Err = moerr.NewInternalError(ctx, "len %d after inserting %d keys", m.Len(), n)
		return
	}
	for id := uint64(0); id < n; id++ {
		want := value(id, overwritten.Contains(uint32(id)))
		got, ok := m.Get(makeKey(id))
		if !ok || got != want {
			rep.Err = moerr.NewInternalError(ctx, "key %d: got %d, %v, want %d", id, got, ok, want)
			return
		}
	}
	for id := n; id < n+uint64(w.Misses); id++ {
		if _, ok := m.Get(makeKey(id)); ok {
			rep.Err = moerr.NewInternalError(ctx, "key %d was never inserted but found", id)
			return
		}
	}

	seen := roaring.New()
	for k, v := range m.All() {
		id := v >> 1
		if k != makeKey(id) {
			rep.Err = moerr.NewInternalError(ctx, "value %d stored under the wrong key", v)
			return
		}
		if !seen.CheckedAdd(uint32(id)) {
			rep.Err = moerr.NewInternalError(ctx, "key %d yielded twice", id)
			return
		}
	}
	if seen.GetCardinality() != n {
		rep.Err = moerr.NewInternalError(ctx, "iteration yielded %d of %d keys", seen.GetCardinality(), n)
		return
	}

	if err := m.Validate(); err != nil {
		rep.Err = err
		return
	}

	st := m.Stats()
	rep.Len = st.Len
	rep.Capacity = st.Capacity
	rep.Grows = st.Grows
	rep.MaxProbeDistance = st.MaxProbeDistance
	rep.MeanProbeDistance = st.MeanProbeDistance
	rep.DistinctEstimate = sketch.Estimate()
	return rep
}
