package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/service"
	"github.com/Mollylil16/developpement-farm-sub012/internal/mocks"
)

func TestAttemptRecorder_WritesAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockAttemptStore(ctrl)
	store.EXPECT().
		RecordLoginAttempt(gomock.Any(), "farmer@example.com", "203.0.113.7", true).
		Return(nil)

	r := service.NewAttemptRecorder(store, zap.NewNop())

	r.Record(service.LoginAttempt{
		Identifier: "farmer@example.com",
		IPAddress:  "203.0.113.7",
		Successful: true,
		At:         time.Now(),
	})

	// Close drains the queue, so the expectation is satisfied by the time
	// the controller checks it.
	r.Close()

	assert.Equal(t, uint64(0), r.Dropped())
}

func TestAttemptRecorder_RecordAfterCloseDrops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockAttemptStore(ctrl)

	r := service.NewAttemptRecorder(store, zap.NewNop())
	r.Close()

	// A late Record must neither panic nor block; the event is just counted.
	r.Record(service.LoginAttempt{Identifier: "farmer@example.com", At: time.Now()})

	assert.Equal(t, uint64(1), r.Dropped())

	// Close is idempotent.
	r.Close()
}

func TestAttemptRecorder_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	store := mocks.NewMockAttemptStore(ctrl)
	store.EXPECT().
		RecordLoginAttempt(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, bool) error {
			<-release
			return nil
		}).AnyTimes()

	r := service.NewAttemptRecorder(store, zap.NewNop())

	// The worker blocks on the first write, so the buffer fills and the
	// overflow is discarded without ever blocking the caller.
	for i := 0; i < 400; i++ {
		r.Record(service.LoginAttempt{Identifier: "farmer@example.com", At: time.Now()})
	}

	assert.Greater(t, r.Dropped(), uint64(0))

	close(release)
	r.Close()
}
