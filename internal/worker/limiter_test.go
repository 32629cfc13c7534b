package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func Test_Limiter_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewLimiter(5)

	returnCh := make(chan struct{})

	count := 3
	for i := 0; i < count; i++ {
		err := limiter.Dispatch(func() {
			returnCh <- struct{}{}
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < count; i++ {
		<-returnCh
	}

	limiter.StopWait()
}

func Test_Limiter_Run_limits(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewLimiter(3)

	returnCh := make(chan struct{})

	count := 3
	for i := 0; i < count; i++ {
		err := limiter.Dispatch(func() {
			<-returnCh
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	// add another func exceeding concurrency limit of 3
	err := limiter.Dispatch(func() {
		t.Error("expected limiter to limit concurrency")
	})
	if err == nil {
		t.Fatal("expected limiter to limit concurrency, by returning an error")
	}

	assert.ErrorIs(t, err, ErrLimiterConcurrency)

	// unblock routines
	for i := 0; i < count; i++ {
		returnCh <- struct{}{}
	}

	limiter.StopWait()
}

func Test_Limiter_DispatchWait(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewLimiter(2)

	results := make([]int, 10)

	for i := range results {
		i := i

		err := limiter.DispatchWait(context.Background(), func() {
			time.Sleep(5 * time.Millisecond)
			results[i] = i * 2
		})
		if err != nil {
			t.Fatal(err)
		}

		assert.LessOrEqual(t, limiter.ActiveCount(), 2)
	}

	limiter.StopWait()

	for i, got := range results {
		assert.Equal(t, i*2, got)
	}
}

func Test_Limiter_DispatchWait_canceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewLimiter(1)
	releaseCh := make(chan struct{})

	err := limiter.DispatchWait(context.Background(), func() { <-releaseCh })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = limiter.DispatchWait(ctx, func() {
		t.Error("expected routine to not run")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(releaseCh)
	limiter.StopWait()
}

func Test_Limiter_Active(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewLimiter(5)

	// release causes the job to return
	releaseCh := make(chan struct{})

	count := 3
	for i := 0; i < count; i++ {
		err := limiter.Dispatch(func() {
			<-releaseCh
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	// test active jobs are as expected
	assert.Equal(t, count, limiter.ActiveCount())

	for i := 0; i < count; i++ {
		// cause job to return
		releaseCh <- struct{}{}
	}

	limiter.StopWait()

	assert.Equal(t, 0, limiter.ActiveCount())
}

func Test_Limiter_StopWait(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewLimiter(5)

	returnCh := make(chan struct{})

	count := 3
	for i := 0; i < count; i++ {
		err := limiter.Dispatch(func() {
			time.Sleep(100 * time.Millisecond)
			returnCh <- struct{}{}
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	go limiter.StopWait()

	// give a few ms for StopWait to run
	time.Sleep(10 * time.Millisecond)

	// assert drain was set
	assert.True(t, limiter.draining())

	err := limiter.Dispatch(func() {
		t.Error("expected limiter to not accept methods in after StopWait()")
	})
	if err == nil {
		t.Fatal("expected limiter to not accept methods in after StopWait()")
	}

	assert.ErrorIs(t, err, ErrLimiterDrain)

	for i := 0; i < count; i++ {
		<-returnCh
	}
}
