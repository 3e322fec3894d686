//go:build unit

package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/worker"
	commandsmock "smart-parking/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExpiry_Tick(t *testing.T) {
	t.Run("delegates to the booking commands", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cmds := commandsmock.NewMockBookingCommands(ctrl)
		cmds.EXPECT().ExpireStalePending(gomock.Any()).Return(3, nil)

		worker.NewExpiry(cmds, time.Minute, discardLogger()).Tick(context.Background())
	})

	t.Run("swallows errors so the loop keeps running", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cmds := commandsmock.NewMockBookingCommands(ctrl)
		cmds.EXPECT().ExpireStalePending(gomock.Any()).Return(0, errs.New("db down"))

		assert.NotPanics(t, func() {
			worker.NewExpiry(cmds, time.Minute, discardLogger()).Tick(context.Background())
		})
	})
}

func TestExpiry_Start(t *testing.T) {
	ctrl := gomock.NewController(t)
	cmds := commandsmock.NewMockBookingCommands(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	cmds.EXPECT().ExpireStalePending(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		ticks++
		if ticks == 2 {
			cancel()
		}
		return 0, nil
	}).MinTimes(2)

	done := make(chan struct{})
	go func() {
		worker.NewExpiry(cmds, 5*time.Millisecond, discardLogger()).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry worker did not stop after cancellation")
	}
}
