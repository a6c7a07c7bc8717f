package platform

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("SyncBreath")
	assert.Equal(t, first, portFromName("SyncBreath"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}

func TestSecondInstanceActivatesFirst(t *testing.T) {
	appName := fmt.Sprintf("SyncBreathTest-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(appName)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}

	_, err = AcquireSingleInstance(appName)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	ctx, cancel := context.WithCancel(context.Background())
	activated := make(chan struct{}, 1)
	served := make(chan struct{})
	go func() {
		defer close(served)
		guard.Serve(ctx, func() { activated <- struct{}{} })
	}()

	require.NoError(t, ActivateRunning(appName))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}

	cancel()
	<-served
	assert.NoError(t, guard.Release())
}
