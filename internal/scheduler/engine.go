package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"inkquest/internal/model"
)

var ErrEngineStopped = errors.New("scheduler: engine stopped")

// Event is emitted when a reminder falls due.
type Event struct {
	ReminderID string
	QuestID    string
	Label      string
	TriggerAt  time.Time
}

type queueItem struct {
	reminder model.Reminder
	at       time.Time
}

type triggerQueue []queueItem

func (q triggerQueue) Len() int { return len(q) }

func (q triggerQueue) Less(i, j int) bool {
	return q[i].at.Before(q[j].at)
}

func (q triggerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *triggerQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *triggerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine fires reminder events at their configured time of day. Reminders are
// recurring: after an item fires, its next trigger is computed from its
// TimeOfDay/Weekdays and it is queued again. Delivery is non-blocking; events
// a slow consumer cannot take are dropped and counted.
type Engine struct {
	mu      sync.Mutex
	queue   triggerQueue
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	now     func() time.Time
	logger  *zap.Logger
}

func NewEngine(bufferSize int, logger *zap.Logger) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		queue:  make(triggerQueue, 0),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
		logger: logger,
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Sync replaces the queue with the enabled reminders from the stored
// collection. Called after any reminder edit.
func (e *Engine) Sync(reminders []model.Reminder) error {
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	e.queue = e.queue[:0]
	heap.Init(&e.queue)
	for _, rem := range reminders {
		if !rem.Enabled {
			continue
		}
		at, err := rem.NextTrigger(now)
		if err != nil {
			e.logger.Warn("skipping unschedulable reminder",
				zap.String("reminder_id", rem.ID),
				zap.Error(err),
			)
			continue
		}
		heap.Push(&e.queue, queueItem{reminder: rem, at: at})
	}
	e.signalWakeup()
	return nil
}

// Schedule queues a single reminder at its next trigger time.
func (e *Engine) Schedule(rem model.Reminder) error {
	if err := rem.Validate(); err != nil {
		return err
	}
	at, err := rem.NextTrigger(e.now())
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	heap.Push(&e.queue, queueItem{reminder: rem, at: at})
	e.signalWakeup()
	return nil
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(e.now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].at, true
}

// popDue removes every item due at or before now and immediately requeues
// each at its next occurrence.
func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		if e.queue[0].at.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, Event{
			ReminderID: item.reminder.ID,
			QuestID:    item.reminder.QuestID,
			Label:      item.reminder.Label,
			TriggerAt:  item.at,
		})
		if next, err := item.reminder.NextTrigger(item.at); err == nil {
			heap.Push(&e.queue, queueItem{reminder: item.reminder, at: next})
		}
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
