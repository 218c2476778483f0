package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	counter *atomic.Int64
	wg      *sync.WaitGroup
}

func (j *countingJob) Execute(context.Context) error {
	j.counter.Add(1)
	j.wg.Done()
	return nil
}

func TestWorkerPool(t *testing.T) {
	t.Run("executes every submitted job", func(t *testing.T) {
		pool := NewWorkerPool(context.Background())
		defer pool.Close()

		var counter atomic.Int64
		var wg sync.WaitGroup

		const jobs = 40
		wg.Add(jobs)
		for i := 0; i < jobs; i++ {
			require.NoError(t, pool.Submit(&countingJob{counter: &counter, wg: &wg}))
		}
		wg.Wait()

		assert.Equal(t, int64(jobs), counter.Load())
	})

	t.Run("at least one worker", func(t *testing.T) {
		pool := NewWorkerPool(context.Background())
		defer pool.Close()
		assert.GreaterOrEqual(t, pool.Size(), 1)
	})
}
