package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFiresImmediateRun(t *testing.T) {
	ran := make(chan struct{}, 1)

	h, err := Start(4, func() { ran <- struct{}{} })
	require.NoError(t, err)
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("startup run did not fire before the first interval tick")
	}
	assert.True(t, h.Alive())
}

func TestStartRejectsBadInterval(t *testing.T) {
	_, err := Start(0, func() {})
	assert.Error(t, err)

	_, err = Start(-3, func() {})
	assert.Error(t, err)
}

func TestPanicMarksHandleDead(t *testing.T) {
	done := make(chan struct{})

	h, err := Start(1, func() {
		defer close(done)
		panic("boom")
	})
	require.NoError(t, err)
	defer h.Stop()

	<-done
	// The recover runs after the task body; give it a beat.
	assert.Eventually(t, func() bool { return !h.Alive() }, time.Second, 10*time.Millisecond)
}

func TestStopMarksHandleDead(t *testing.T) {
	h, err := Start(1, func() {})
	require.NoError(t, err)
	assert.True(t, h.Alive())

	h.Stop()
	assert.False(t, h.Alive())
}
