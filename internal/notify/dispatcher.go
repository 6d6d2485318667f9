// internal/notify/dispatcher.go
//
// Asynchronous notification dispatch.
//
// Context
// -------
// Handlers call EnqueueQuestion / EnqueueAnswer after the repository write
// succeeds.  Enqueue never blocks: the job goes into a bounded channel or
// is rejected with ErrQueueFull.  One worker goroutine drains the channel
// and sleeps `spacing` after each job so bursts never hammer SMTP or the
// social API.
//
// Workflow
// --------
//  1. d := notify.NewDispatcher(opts)      // starts the worker.
//  2. d.EnqueueQuestion(q) / d.EnqueueAnswer(q)
//  3. d.Close(ctx)                          // stop intake, drain until ctx ends.
//
// Failure policy
// --------------
//   - Full queue       → ErrQueueFull, ERROR log, result="dropped".
//   - Job error        → ERROR log, result="error".  Never retried here.
//   - Close deadline   → remaining jobs discarded, count logged,
//     result="discarded".
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/reing/internal/metrics"
	"github.com/yanizio/reing/internal/qa"
)

var (
	// ErrQueueFull is returned by Enqueue when the buffer is at capacity.
	ErrQueueFull = errors.New("notify: queue full")

	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("notify: dispatcher closed")
)

// Kind names the event a job announces.
type Kind string

const (
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
)

// Job is one queued notification.
type Job struct {
	ID       string
	Kind     Kind
	Question qa.Question
	Enqueued time.Time
}

// QuestionNotifier announces a newly submitted question.
type QuestionNotifier interface {
	NotifyQuestion(ctx context.Context, q qa.Question) error
}

// AnswerNotifier announces a newly published answer.
type AnswerNotifier interface {
	NotifyAnswer(ctx context.Context, q qa.Question) error
}

// Options configures a Dispatcher.  Nil notifiers turn their kind into a
// no-op.
type Options struct {
	QueueSize  int
	Spacing    time.Duration
	JobTimeout time.Duration
	Questions  QuestionNotifier
	Answers    AnswerNotifier
	Log        *zap.SugaredLogger
}

// Dispatcher owns the queue and its single worker.
type Dispatcher struct {
	opts Options
	log  *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
	jobs   chan Job

	ctx       context.Context
	cancel    context.CancelFunc
	aborted   atomic.Bool
	discarded atomic.Int64
	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the worker and returns the dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 512
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 30 * time.Second
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		opts:   opts,
		log:    opts.Log.With("component", "notify"),
		jobs:   make(chan Job, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go d.work()
	return d
}

// EnqueueQuestion queues the admin email for q.
func (d *Dispatcher) EnqueueQuestion(q qa.Question) error {
	return d.enqueue(KindQuestion, q)
}

// EnqueueAnswer queues the social post for q.
func (d *Dispatcher) EnqueueAnswer(q qa.Question) error {
	return d.enqueue(KindAnswer, q)
}

// Pending reports how many jobs are waiting.
func (d *Dispatcher) Pending() int { return len(d.jobs) }

func (d *Dispatcher) enqueue(kind Kind, q qa.Question) error {
	job := Job{ID: uuid.NewString(), Kind: kind, Question: q.Clone(), Enqueued: time.Now()}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.jobs <- job:
		metrics.NotifyQueueDepth.Set(float64(len(d.jobs)))
		d.log.Debugw("job queued", "job", job.ID, "kind", kind, "question", q.ID)
		return nil
	default:
		metrics.NotifyJobs.WithLabelValues(string(kind), "dropped").Inc()
		d.log.Errorw("notification queue full", "kind", kind, "question", q.ID, "capacity", cap(d.jobs))
		return ErrQueueFull
	}
}

// Close stops intake and waits for the worker to drain the queue.  When
// ctx ends first, the job in flight is cancelled, the rest are discarded,
// and ctx.Err() is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.jobs)
		d.mu.Unlock()
	})

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
	}

	d.aborted.Store(true)
	d.cancel()
	<-d.done
	n := d.discarded.Load()
	d.log.Warnw("notification queue closed before drain", "discarded", n)
	return ctx.Err()
}

/*──────────────────────────── worker ─────────────────────────────*/

func (d *Dispatcher) work() {
	defer close(d.done)

	for job := range d.jobs {
		metrics.NotifyQueueDepth.Set(float64(len(d.jobs)))
		if d.aborted.Load() {
			d.discarded.Add(1)
			metrics.NotifyJobs.WithLabelValues(string(job.Kind), "discarded").Inc()
			continue
		}

		d.run(job)

		if d.opts.Spacing > 0 {
			t := time.NewTimer(d.opts.Spacing)
			select {
			case <-t.C:
			case <-d.ctx.Done():
				t.Stop()
			}
		}
	}
}

func (d *Dispatcher) run(job Job) {
	ctx, cancel := context.WithTimeout(d.ctx, d.opts.JobTimeout)
	defer cancel()

	start := time.Now()
	err := d.handle(ctx, job)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Errorw("notification failed",
			"job", job.ID, "kind", job.Kind, "question", job.Question.ID, "err", err)
	} else {
		d.log.Infow("notification sent",
			"job", job.ID, "kind", job.Kind, "question", job.Question.ID,
			"queued_ms", start.Sub(job.Enqueued).Milliseconds(),
			"duration_ms", time.Since(start).Milliseconds())
	}
	metrics.NotifyJobs.WithLabelValues(string(job.Kind), result).Inc()
}

func (d *Dispatcher) handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notify: panic: %v", r)
		}
	}()

	switch job.Kind {
	case KindQuestion:
		if d.opts.Questions == nil {
			return nil
		}
		return d.opts.Questions.NotifyQuestion(ctx, job.Question)
	case KindAnswer:
		if d.opts.Answers == nil {
			return nil
		}
		return d.opts.Answers.NotifyAnswer(ctx, job.Question)
	default:
		return fmt.Errorf("notify: unknown kind %q", job.Kind)
	}
}
