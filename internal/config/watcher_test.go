package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soylem.yaml")
	require.NoError(t, Default().Save(path))

	reloaded := make(chan *PipelineConfig, 1)
	watcher, err := NewWatcher(path, func(cfg *PipelineConfig) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop()

	cfg := Default()
	cfg.MaxOutputLength = 750
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-reloaded:
		assert.Equal(t, 750, got.MaxOutputLength)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not picked up")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soylem.yaml")
	require.NoError(t, Default().Save(path))

	reloaded := make(chan struct{}, 1)
	watcher, err := NewWatcher(path, func(*PipelineConfig) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file must not trigger a reload")
	case <-time.After(1200 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soylem.yaml")
	require.NoError(t, Default().Save(path))

	watcher, err := NewWatcher(path, func(*PipelineConfig) {})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))

	watcher.Stop()
	watcher.Stop()
}
