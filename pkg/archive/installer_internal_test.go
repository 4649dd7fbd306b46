package archive

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/modkeeper/modkeeper/internal/worker"
	"github.com/modkeeper/modkeeper/pkg/types"
)

func TestInstaller_AwaitEmitsProgressPerTick(t *testing.T) {
	var ticks, yields atomic.Int32
	in := &Installer{
		PollInterval: 5 * time.Millisecond,
		Progress: func(id types.PackageIdentifier, done, total int64) {
			assert.Equal(t, types.PackageIdentifier("foo"), id)
			assert.Zero(t, done)
			assert.Zero(t, total)
			ticks.Add(1)
		},
		Yield: func() { yields.Add(1) },
	}

	release := make(chan struct{})
	future := worker.Async(nil, func() error {
		<-release
		return nil
	})
	go func() {
		time.Sleep(60 * time.Millisecond)
		close(release)
	}()

	in.await("foo", future)

	assert.True(t, future.Ready())
	assert.Greater(t, ticks.Load(), int32(0))
	assert.Equal(t, ticks.Load(), yields.Load())
}
