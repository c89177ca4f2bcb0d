package rangeread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeFailing struct{ *Sync }

func (probeFailing) Name() string { return "probe-failing" }
func (probeFailing) Probe() error { return ErrClosed }

func TestLookup(t *testing.T) {
	b, err := Lookup("sync")
	require.NoError(t, err)
	assert.Equal(t, "sync", b.Name())

	_, err = Lookup("io_uring")
	require.ErrorIs(t, err, ErrUnknownBackend)
	assert.ErrorContains(t, err, `"io_uring"`)
}

func TestRegister_Duplicate(t *testing.T) {
	assert.Panics(t, func() { Register(NewSync()) })
}

func TestAvailable_SkipsFailedProbe(t *testing.T) {
	registry.mu.Lock()
	saved := registry.backends
	registry.backends = append([]Backend(nil), saved...)
	registry.mu.Unlock()
	t.Cleanup(func() {
		registry.mu.Lock()
		registry.backends = saved
		registry.mu.Unlock()
	})

	Register(probeFailing{NewSync()})

	names := func(bs []Backend) []string {
		out := make([]string, len(bs))
		for i, b := range bs {
			out[i] = b.Name()
		}
		return out
	}
	assert.Contains(t, names(Backends()), "probe-failing")
	assert.NotContains(t, names(Available()), "probe-failing")

	b, err := Lookup("probe-failing")
	require.NoError(t, err)
	assert.Equal(t, "probe-failing", b.Name())
}
