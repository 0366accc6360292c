package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_WritesAndUsesDefaults(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	req.NoError(err)
	req.Equal(path, resolved)

	req.Equal(":5000", cfg.Addr)
	req.Equal(2, cfg.RoomCapacity)
	req.True(cfg.SingleRoom)
	req.Equal(5*time.Second, cfg.ShutdownTimeout)

	// The default file should now exist on disk.
	_, err = os.Stat(path)
	req.NoError(err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	req.NoError(os.WriteFile(path, []byte("addr: \":7777\"\nroom_capacity: 4\nsingle_room: false\n"), 0o600))

	cfg, _, err := Load(nil, path)
	req.NoError(err)
	req.Equal(":7777", cfg.Addr)
	req.Equal(4, cfg.RoomCapacity)
	req.False(cfg.SingleRoom)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	req.NoError(os.WriteFile(path, []byte("addr: \":7777\"\n"), 0o600))

	t.Setenv("PAIRWIRE_ADDR", ":8888")
	t.Setenv("PAIRWIRE_ROOM_CAPACITY", "3")

	cfg, _, err := Load(nil, path)
	req.NoError(err)
	req.Equal(":8888", cfg.Addr)
	req.Equal(3, cfg.RoomCapacity)
}

func TestLoad_PlainPortEnv(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	t.Setenv("PORT", "9000")

	cfg, _, err := Load(nil, path)
	req.NoError(err)
	req.Equal(":9000", cfg.Addr)
}
