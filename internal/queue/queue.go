package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/yakirz/sales-gateway/pkg/redis"
)

// Job is one unit of work read from the stream. Jobs that return an error
// from the handler stay pending and are reclaimed after the visibility
// timeout; jobs that exhaust their retries land on the dead letter stream.
type Job struct {
	ID        string
	Data      []byte
	Metadata  map[string]string
	Timestamp time.Time
	Attempts  int
}

// Handler processes one job. A nil return acks the job, an error leaves it
// pending for redelivery.
type Handler func(ctx context.Context, job *Job) error

type Config struct {
	Name              string
	ConsumerGroup     string
	ConsumerName      string
	MaxRetries        int
	VisibilityTimeout time.Duration
	PollInterval      time.Duration
	BatchSize         int64
	MaxLen            int64
	EnableDLQ         bool
}

// Queue is a consumer-group backed job queue over a Redis stream.
type Queue struct {
	adapter redis.RedisAdapter
	config  Config
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(adapter redis.RedisAdapter, config Config) (*Queue, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("queue name is required")
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "default-group"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.VisibilityTimeout == 0 {
		config.VisibilityTimeout = 30 * time.Second
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		adapter: adapter,
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
	}

	// group may already exist after a restart
	_ = q.adapter.XGroupCreateMkStream(config.Name, config.ConsumerGroup, "0")

	return q, nil
}

// Publish appends a raw payload to the stream.
func (q *Queue) Publish(ctx context.Context, data []byte, metadata map[string]string) (string, error) {
	values := map[string]interface{}{
		"data":      string(data),
		"timestamp": time.Now().Unix(),
	}
	for k, v := range metadata {
		values["meta_"+k] = v
	}

	id, err := q.adapter.XAdd(q.config.Name, values)
	if err != nil {
		return "", fmt.Errorf("failed to publish job: %w", err)
	}

	if q.config.MaxLen > 0 {
		_ = q.adapter.XTrimApprox(q.config.Name, q.config.MaxLen)
	}

	return id, nil
}

// PublishJSON marshals v and publishes it.
func (q *Queue) PublishJSON(ctx context.Context, v interface{}, metadata map[string]string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}
	return q.Publish(ctx, data, metadata)
}

// Consume starts the poll loop. Call Stop to drain it.
func (q *Queue) Consume(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("job handler is required")
	}

	q.handler = handler
	q.wg.Add(1)
	go q.consumeLoop()

	return nil
}

func (q *Queue) consumeLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.readNew()
			q.reclaimStuck()
		}
	}
}

func (q *Queue) readNew() {
	messages, err := q.adapter.XReadGroup(
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.Name,
		">",
		q.config.BatchSize,
	)
	if err != nil {
		return
	}

	for _, m := range messages {
		q.handle(q.toJob(m))
	}
}

// reclaimStuck takes over jobs another consumer read but never acked.
func (q *Queue) reclaimStuck() {
	pending, err := q.adapter.XPendingExt(q.config.Name, q.config.ConsumerGroup, "-", "+", 100)
	if err != nil || len(pending) == 0 {
		return
	}

	var ids []string
	attempts := make(map[string]int, len(pending))
	for _, p := range pending {
		if p.Idle >= q.config.VisibilityTimeout {
			ids = append(ids, p.ID)
			attempts[p.ID] = int(p.RetryCount)
		}
	}
	if len(ids) == 0 {
		return
	}

	messages, err := q.adapter.XClaim(
		q.config.Name,
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.VisibilityTimeout,
		ids...,
	)
	if err != nil {
		return
	}

	for _, m := range messages {
		job := q.toJob(m)
		job.Attempts = attempts[job.ID]
		q.handle(job)
	}
}

func (q *Queue) handle(job *Job) {
	if job.Attempts >= q.config.MaxRetries {
		q.moveToDeadLetter(job)
		_ = q.ack(job.ID)
		return
	}

	ctx, cancel := context.WithTimeout(q.ctx, q.config.VisibilityTimeout)
	defer cancel()

	if err := q.handler(ctx, job); err != nil {
		// leave pending, reclaimStuck retries it
		return
	}
	_ = q.ack(job.ID)
}

func (q *Queue) ack(jobID string) error {
	return q.adapter.XAck(q.config.Name, q.config.ConsumerGroup, jobID)
}

func (q *Queue) moveToDeadLetter(job *Job) {
	if !q.config.EnableDLQ {
		return
	}

	values := map[string]interface{}{
		"data":           string(job.Data),
		"original_id":    job.ID,
		"attempts":       job.Attempts,
		"failed_at":      time.Now().Unix(),
		"original_queue": q.config.Name,
	}
	for k, v := range job.Metadata {
		values["meta_"+k] = v
	}

	_, _ = q.adapter.XAdd(q.config.Name+":dlq", values)
}

func (q *Queue) toJob(m redis.StreamMessage) *Job {
	job := &Job{
		ID:       m.ID,
		Metadata: make(map[string]string),
	}

	for k, v := range m.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch {
		case k == "data":
			job.Data = []byte(s)
		case k == "timestamp":
			if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
				job.Timestamp = time.Unix(unix, 0)
			}
		case len(k) > 5 && k[:5] == "meta_":
			job.Metadata[k[5:]] = s
		}
	}

	if job.Timestamp.IsZero() {
		job.Timestamp = time.Now()
	}

	return job
}

// Len reports how many entries the stream currently holds.
func (q *Queue) Len() (int64, error) {
	return q.adapter.XLen(q.config.Name)
}

// Stop cancels the poll loop and waits for in-flight jobs.
func (q *Queue) Stop(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for queue to stop")
	}
}
