// Copyright 2021 - 2022 Matrix Origin
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

package moerr

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code uint16
		msg  string
	}{
		{
			name: "internal",
			err:  NewInternalErrorNoCtx("slot %d is corrupted", 3),
			code: ErrInternal,
			msg:  "internal error: slot 3 is corrupted",
		},
		{
			name: "invalid arg",
			err:  NewInvalidArgNoCtx("capacity", uint64(1)<<63),
			code: ErrInvalidArg,
			msg:  "invalid argument capacity, bad value 9223372036854775808",
		},
		{
			name: "out of range",
			err:  NewOutOfRangeNoCtx("capacity", "%d exceeds max capacity %d", 8, 4),
			code: ErrOutOfRange,
			msg:  "data out of range: capacity, 8 exceeds max capacity 4",
		},
		{
			name: "bad config",
			err:  NewBadConfigNoCtx("workload %q has no keys", "w1"),
			code: ErrBadConfig,
			msg:  "invalid configuration: workload \"w1\" has no keys",
		},
		{
			name: "invalid state",
			err:  NewInvalidStateNoCtx("closed"),
			code: ErrInvalidState,
			msg:  "invalid state closed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, tt.err.ErrorCode())
			require.Equal(t, tt.msg, tt.err.Error())
			require.True(t, IsMoErrCode(tt.err, tt.code))
			require.False(t, tt.err.Succeeded())
		})
	}
}

func TestUnknownCodePanics(t *testing.T) {
	require.Panics(t, func() { _ = newError(context.Background(), 12345) })
}

func TestIsMoErrCode(t *testing.T) {
	require.True(t, IsMoErrCode(nil, Ok))
	require.False(t, IsMoErrCode(nil, ErrInternal))
	require.False(t, IsMoErrCode(errors.New("plain"), ErrInternal))
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, ConvertGoError(ctx, nil))

	me := NewInvalidArgNoCtx("factor", 0)
	require.Same(t, me, ConvertGoError(ctx, me))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.EOF), ErrInvalidInput))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, errors.New("x")), ErrInternal))

	require.Same(t, me, ConvertPanicError(ctx, me))
	pe := ConvertPanicError(ctx, "boom")
	require.True(t, IsMoErrCode(pe, ErrInternal))
	require.Contains(t, pe.Error(), "panic boom")

	require.Same(t, me, DowncastError(me))
	require.True(t, IsMoErrCode(DowncastError(errors.New("y")), ErrInternal))
}
