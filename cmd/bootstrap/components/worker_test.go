//go:build unit

package components_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smart-parking/cmd/bootstrap/components"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/config"
	commandsmock "smart-parking/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func TestStartWorkers_StopWaitsForRunningTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	cmds := commandsmock.NewMockBookingCommands(ctrl)

	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool
	cmds.EXPECT().ExpireStalePending(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return 0, ctx.Err()
	}).MinTimes(1)

	cfg := config.Config{Parking: config.ParkingConfig{ExpiryInterval: 5 * time.Millisecond}}
	lc := fxtest.NewLifecycle(t)
	components.StartWorkers(lc, cfg, cmds, nil, nil, clock.NewMockClock(time.Now()), slog.New(slog.NewTextHandler(io.Discard, nil)))

	lc.RequireStart()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry tick did not start")
	}
	lc.RequireStop()

	assert.True(t, finished.Load())
}
