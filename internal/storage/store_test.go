// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package storage

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time            { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *MemorySurface, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	surface := NewMemorySurface()
	return New(surface, WithClock(clock.Now)), surface, clock
}

func TestStore_SetGetWithinTTL(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Set("k", "v", Seconds(1)))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStore_ExpiredEntryIsEvicted(t *testing.T) {
	s, surface, clock := newTestStore(t)

	require.NoError(t, s.Set("k", "v", Seconds(1)))
	clock.Advance(1001 * time.Millisecond)

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)

	_, present, _ := surface.GetItem("k")
	assert.False(t, present, "backing key must be removed on expired read")
}

func TestStore_ExpiryBoundary(t *testing.T) {
	s, _, clock := newTestStore(t)

	require.NoError(t, s.Set("k", 1, Seconds(1)))
	clock.Advance(time.Second)

	// expire == now is still live; only expire < now evicts.
	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_NoExpiry(t *testing.T) {
	s, surface, clock := newTestStore(t)

	require.NoError(t, s.Set("k", "v", NoExpiry()))
	clock.Advance(100 * 365 * 24 * time.Hour)

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	text, _, _ := surface.GetItem("k")
	assert.Equal(t, gjson.Null, gjson.Get(text, "expire").Type)
}

func TestStore_DefaultTTL(t *testing.T) {
	s, surface, clock := newTestStore(t)

	require.NoError(t, s.Set("k", "v", DefaultTTL()))
	text, _, _ := surface.GetItem("k")
	want := clock.now.UnixMilli() + DefaultTTLSeconds*1000
	assert.Equal(t, want, gjson.Get(text, "expire").Int())

	clock.Advance(7*24*time.Hour + time.Millisecond)
	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_WithDefaultTTL(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(0)}
	surface := NewMemorySurface()
	s := New(surface, WithClock(clock.Now), WithDefaultTTL(time.Minute))

	require.NoError(t, s.Set("k", "v", ParseTTL("bogus")))
	text, _, _ := surface.GetItem("k")
	assert.Equal(t, int64(60_000), gjson.Get(text, "expire").Int())
}

func TestStore_EnvelopeFormat(t *testing.T) {
	s, surface, clock := newTestStore(t)

	require.NoError(t, s.Set("k", map[string]any{"a": []int{1, 2}}, Seconds(2)))
	text, ok, err := surface.GetItem("k")
	require.NoError(t, err)
	require.True(t, ok)

	assert.JSONEq(t, `{"a":[1,2]}`, gjson.Get(text, "value").Raw)
	assert.Equal(t, clock.now.UnixMilli()+2000, gjson.Get(text, "expire").Int())
}

func TestStore_ValueShapes(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Set("obj", map[string]any{"n": 1, "l": []any{"x"}}, NoExpiry()))
	v, ok, err := s.Get("obj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"n": 1.0, "l": []any{"x"}}, v)

	require.NoError(t, s.Set("nil", nil, NoExpiry()))
	v, ok, err = s.Get("nil")
	require.NoError(t, err)
	assert.True(t, ok, "a stored null is present")
	assert.Nil(t, v)
}

func TestStore_GetInto(t *testing.T) {
	s, _, _ := newTestStore(t)

	type profile struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	require.NoError(t, s.Set("p", profile{Name: "zhang", Age: 30}, NoExpiry()))

	var got profile
	ok, err := s.GetInto("p", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, profile{Name: "zhang", Age: 30}, got)

	ok, err = s.GetInto("missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_MissingKey(t *testing.T) {
	s, _, _ := newTestStore(t)

	v, ok, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestStore_MalformedEntryIsAbsent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "not json", text: "{value:"},
		{name: "json scalar", text: "42"},
		{name: "string expire", text: `{"value":1,"expire":"soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, surface, _ := newTestStore(t)
			require.NoError(t, surface.SetItem("k", tt.text))

			v, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, v)

			_, present, _ := surface.GetItem("k")
			assert.False(t, present, "corrupt entry should be evicted")
		})
	}
}

func TestStore_OverwriteRemoveClear(t *testing.T) {
	s, surface, _ := newTestStore(t)

	require.NoError(t, s.Set("a", 1, NoExpiry()))
	require.NoError(t, s.Set("a", 2, NoExpiry()))
	v, _, _ := s.Get("a")
	assert.Equal(t, 2.0, v)

	require.NoError(t, s.Remove("a"))
	require.NoError(t, s.Remove("a"), "remove is idempotent")
	_, ok, _ := s.Get("a")
	assert.False(t, ok)

	require.NoError(t, s.Set("b", 1, NoExpiry()))
	require.NoError(t, surface.SetItem("foreign", "not ours"))
	require.NoError(t, s.Clear())
	assert.Equal(t, 0, surface.Len(), "clear is surface wide")
}

func TestStore_Expiry(t *testing.T) {
	s, _, clock := newTestStore(t)

	require.NoError(t, s.Set("t", 1, Seconds(10)))
	exp, ok, err := s.Expiry("t")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, clock.now.Add(10*time.Second).UnixMilli(), exp.UnixMilli())

	require.NoError(t, s.Set("n", 1, NoExpiry()))
	exp, ok, err = s.Expiry("n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exp.IsZero())
}

func TestStore_HugeTTLSaturates(t *testing.T) {
	for _, secs := range []float64{1e16, 1e17, 1e300} {
		s, surface, clock := newTestStore(t)

		require.NoError(t, s.Set("k", "v", Seconds(secs)))
		text, _, _ := surface.GetItem("k")
		assert.Equal(t, int64(math.MaxInt64), gjson.Get(text, "expire").Int(), "ttl %g", secs)

		clock.Advance(100 * 365 * 24 * time.Hour)
		v, ok, err := s.Get("k")
		require.NoError(t, err)
		assert.True(t, ok, "ttl %g", secs)
		assert.Equal(t, "v", v)
	}

	s, surface, _ := newTestStore(t)
	require.NoError(t, s.Set("k", "v", Seconds(-1e300)))
	text, _, _ := surface.GetItem("k")
	assert.Equal(t, int64(math.MinInt64), gjson.Get(text, "expire").Int())
	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ExpiryFollowsGetRules(t *testing.T) {
	s, surface, clock := newTestStore(t)

	require.NoError(t, s.Set("old", 1, Seconds(1)))
	clock.Advance(2 * time.Second)
	exp, ok, err := s.Expiry("old")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, exp.IsZero())
	_, present, _ := surface.GetItem("old")
	assert.False(t, present, "expired entry should be evicted")

	require.NoError(t, surface.SetItem("bad", `{"value":1,"expire":"soon"}`))
	_, ok, err = s.Expiry("bad")
	require.NoError(t, err)
	assert.False(t, ok)
	_, present, _ = surface.GetItem("bad")
	assert.False(t, present, "corrupt entry should be evicted")

	_, ok, err = s.Expiry("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  TTL
	}{
		{name: "nil", value: nil, want: NoExpiry()},
		{name: "int", value: 60, want: Seconds(60)},
		{name: "float", value: 1.5, want: Seconds(1.5)},
		{name: "zero is a real ttl", value: 0, want: Seconds(0)},
		{name: "numeric string", value: "30", want: Seconds(30)},
		{name: "null string", value: "null", want: NoExpiry()},
		{name: "never", value: "Never", want: NoExpiry()},
		{name: "empty string", value: "", want: DefaultTTL()},
		{name: "garbage string", value: "soon", want: DefaultTTL()},
		{name: "bool", value: true, want: DefaultTTL()},
		{name: "map", value: map[string]any{}, want: DefaultTTL()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTTL(tt.value))
		})
	}
}

func TestTTLString(t *testing.T) {
	assert.Equal(t, "default", DefaultTTL().String())
	assert.Equal(t, "never", NoExpiry().String())
	assert.Equal(t, "90s", Seconds(90).String())
}
