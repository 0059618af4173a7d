package notification

import (
	"context"
	"errors"
	"testing"

	appinventory "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/inventory"
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) DeliverJobStatus(ctx context.Context, p JobStatusNotificationPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockSink) DeliverStockAlert(ctx context.Context, p StockAlertPayload) error {
	return m.Called(ctx, p).Error(0)
}

func notice() appproduction.NotificationPayload {
	return appproduction.NotificationPayload{
		Type:      "job_ready",
		Title:     "Commande prête",
		Message:   "La commande OF-2026-001 est prête",
		JobID:     uuid.New(),
		JobNumber: "OF-2026-001",
		ClientID:  uuid.New(),
		Status:    "ready",
	}
}

func TestAsynqDispatcher_Notify(t *testing.T) {
	enq := new(mockEnqueuer)
	d := NewAsynqDispatcher(enq, "notifications", 3, zap.NewNop())
	tenantID, userID := uuid.New(), uuid.New()
	n := notice()

	var captured *asynq.Task
	enq.On("EnqueueContext", mock.Anything, mock.AnythingOfType("*asynq.Task"), mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*asynq.Task) }).
		Return(&asynq.TaskInfo{ID: "t-1"}, nil)

	require.NoError(t, d.Notify(context.Background(), tenantID, n, userID))
	require.NotNil(t, captured)
	assert.Equal(t, TaskJobStatusNotification, captured.Type())

	payload, err := ParseJobStatusNotificationPayload(captured)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), payload.TenantID)
	assert.Equal(t, []string{userID.String()}, payload.TargetUserIDs)
	assert.Equal(t, n, payload.Notice)
	enq.AssertExpectations(t)
}

func TestAsynqDispatcher_NotifyQueueDown(t *testing.T) {
	enq := new(mockEnqueuer)
	d := NewAsynqDispatcher(enq, "", 0, zap.NewNop())
	enq.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis: connection refused"))

	err := d.Notify(context.Background(), uuid.New(), notice())
	assert.ErrorContains(t, err, TaskJobStatusNotification)
}

func TestAsynqDispatcher_SendAlert(t *testing.T) {
	enq := new(mockEnqueuer)
	d := NewAsynqDispatcher(enq, "notifications", 0, zap.NewNop())
	alert := appinventory.StockAlert{TenantID: uuid.NewString(), Reference: "RAL9005", AlertType: appinventory.AlertTypeLowStock}

	enq.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		p, err := ParseStockAlertPayload(task)
		return err == nil && task.Type() == TaskStockAlert && p.Alert == alert
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "t-2"}, nil)

	require.NoError(t, d.SendAlert(context.Background(), alert))
	enq.AssertExpectations(t)
}

func TestWorker_Handlers(t *testing.T) {
	sink := new(mockSink)
	w := &Worker{sink: sink, logger: zap.NewNop()}
	ctx := context.Background()

	t.Run("job status task is forwarded", func(t *testing.T) {
		payload := JobStatusNotificationPayload{TenantID: uuid.NewString(), Notice: notice()}
		task, err := NewJobStatusNotificationTask(payload)
		require.NoError(t, err)
		sink.On("DeliverJobStatus", ctx, payload).Return(nil).Once()

		assert.NoError(t, w.handleJobStatus(ctx, task))
	})

	t.Run("sink errors are retried", func(t *testing.T) {
		alert := appinventory.StockAlert{Reference: "RAL7016", AlertType: appinventory.AlertTypeOutOfStock}
		task, err := NewStockAlertTask(alert)
		require.NoError(t, err)
		sink.On("DeliverStockAlert", ctx, StockAlertPayload{Alert: alert}).Return(errors.New("inbox down")).Once()

		err = w.handleStockAlert(ctx, task)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		err := w.handleJobStatus(ctx, asynq.NewTask(TaskJobStatusNotification, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	sink.AssertExpectations(t)
}

func TestLogDispatcher(t *testing.T) {
	d := NewLogDispatcher(zap.NewNop())
	assert.NoError(t, d.Notify(context.Background(), uuid.New(), notice()))
	assert.NoError(t, d.SendAlert(context.Background(), appinventory.StockAlert{}))
}
