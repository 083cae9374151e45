package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/procurement"
)

type fakeQueue struct {
	tasks []*asynq.Task
	ids   map[string]bool
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	var id string
	for _, opt := range opts {
		if opt.Type() == asynq.TaskIDOpt {
			id = opt.Value().(string)
		}
	}
	if q.ids == nil {
		q.ids = make(map[string]bool)
	}
	if q.ids[id] {
		return nil, asynq.ErrTaskIDConflict
	}
	q.ids[id] = true
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: id, Type: task.Type()}, nil
}

func (q *fakeQueue) Close() error { return nil }

type recordingNotifier struct {
	got []procurement.DeliveryReminder
	err error
}

func (n *recordingNotifier) NotifyDelivery(_ context.Context, r procurement.DeliveryReminder) error {
	n.got = append(n.got, r)
	return n.err
}

var reminder = procurement.DeliveryReminder{OrderID: 42, ProductID: 7, SupplierID: 3, Quantity: 12, ExpectedDate: "2026-03-20"}

func TestScheduleDeliveryReminderIsIdempotent(t *testing.T) {
	queue := &fakeQueue{}
	client := newClient(queue, jobmetrics.NewMetrics(prometheus.NewRegistry()), nil)
	at := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

	require.NoError(t, client.ScheduleDeliveryReminder(context.Background(), reminder, at))
	require.NoError(t, client.ScheduleDeliveryReminder(context.Background(), reminder, at))
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, TaskDeliveryReminder, queue.tasks[0].Type())

	var payload procurement.DeliveryReminder
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, reminder, payload)
}

func TestScheduleDeliveryReminderPropagatesQueueErrors(t *testing.T) {
	client := newClient(&fakeQueue{err: errors.New("redis down")}, nil, nil)
	err := client.ScheduleDeliveryReminder(context.Background(), reminder, time.Now())
	assert.EqualError(t, err, "redis down")
}

func TestDeliveryReminderJob(t *testing.T) {
	notifier := &recordingNotifier{}
	job := NewDeliveryReminderJob(notifier, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewDeliveryReminderTask(reminder)
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []procurement.DeliveryReminder{reminder}, notifier.got)

	notifier.err = errors.New("smtp down")
	assert.Error(t, job.Handle(context.Background(), task))
}

func TestDeliveryReminderJobSkipsMalformedPayload(t *testing.T) {
	job := NewDeliveryReminderJob(&recordingNotifier{}, nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskDeliveryReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	err = job.Handle(context.Background(), asynq.NewTask(TaskDeliveryReminder, []byte(`{"order_id":0}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLogNotifierNeverFails(t *testing.T) {
	assert.NoError(t, LogNotifier{}.NotifyDelivery(context.Background(), reminder))
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil).MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","status":"ok","pending":0,"scheduled":0,"active":0,"retry":0,"archived":0,"paused":false}`, rec.Body.String())
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func TestHealthReportsQueueState(t *testing.T) {
	cases := []struct {
		name   string
		stub   stubInspector
		code   int
		status string
	}{
		{"busy", stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 2, Scheduled: 5}}, http.StatusOK, "ok"},
		{"archived", stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Archived: 1}}, http.StatusOK, "degraded"},
		{"fresh", stubInspector{err: asynq.ErrQueueNotFound}, http.StatusOK, "ok"},
		{"down", stubInspector{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(nil, nil)
			h.inspector = tc.stub
			rec := httptest.NewRecorder()
			h.health(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
			require.Equal(t, tc.code, rec.Code)
			if tc.status == "" {
				return
			}
			var got queueHealth
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.status, got.Status)
			if tc.stub.info != nil {
				assert.Equal(t, tc.stub.info.Pending, got.Pending)
				assert.Equal(t, tc.stub.info.Scheduled, got.Scheduled)
			}
		})
	}
}

func TestNewWorkerRejectsIncompleteHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{})
	assert.Error(t, err)
	_, err = NewWorker(WorkerConfig{Handlers: []TaskHandler{{Type: TaskDeliveryReminder}}})
	assert.Error(t, err)
}
