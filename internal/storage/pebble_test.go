// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleSurface(t *testing.T) {
	p, err := OpenPebbleSurface(t.TempDir())
	require.NoError(t, err)
	defer p.Close()

	_, ok, err := p.GetItem("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.SetItem("k", "v1"))
	require.NoError(t, p.SetItem("k", "v2"))
	text, ok, err := p.GetItem("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", text)

	require.NoError(t, p.RemoveItem("k"))
	require.NoError(t, p.RemoveItem("k"))
	_, ok, err = p.GetItem("k")
	require.NoError(t, err)
	assert.False(t, ok)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, p.SetItem(k, k))
	}
	require.NoError(t, p.Clear())
	for _, k := range []string{"a", "b", "c"} {
		_, ok, err := p.GetItem(k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
}

func TestPebbleSurface_Reopen(t *testing.T) {
	dir := t.TempDir()

	p, err := OpenPebbleSurface(dir)
	require.NoError(t, err)
	s := New(p)
	require.NoError(t, s.Set("durable", "yes", NoExpiry()))
	require.NoError(t, p.Close())

	p, err = OpenPebbleSurface(dir)
	require.NoError(t, err)
	defer p.Close()

	v, ok, err := New(p).Get("durable")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}
