// Scheduler implementations for rxcore
// 调度器实现：确定性的虚拟时间调度器和单goroutine事件循环调度器
package rxcore

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// ============================================================================
// 调度任务队列
// ============================================================================

// scheduledTask 调度的任务，index为-1表示已出队或已取消
type scheduledTask struct {
	due    time.Time
	seq    uint64
	action func()
	index  int
}

// taskQueue 按到期时间排序的最小堆，到期时间相同按调度顺序
type taskQueue []*scheduledTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	task := x.(*scheduledTask)
	task.index = len(*q)
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*q = old[:n-1]
	return task
}

// remove 从堆中移除任务，任务已出队时返回false；调用方持有锁
func (q *taskQueue) remove(task *scheduledTask) bool {
	if task.index < 0 || task.index >= len(*q) || (*q)[task.index] != task {
		return false
	}
	heap.Remove(q, task.index)
	return true
}

// ============================================================================
// 虚拟时间调度器 - Virtual Time Scheduler
// ============================================================================

// VirtualTimeScheduler 虚拟时间调度器，只有手动推进时间时才执行任务
type VirtualTimeScheduler struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	seq   uint64
	queue taskQueue
}

// NewVirtualTimeScheduler 创建虚拟时间调度器，时钟从零点开始
func NewVirtualTimeScheduler() *VirtualTimeScheduler {
	start := time.Unix(0, 0).UTC()
	return &VirtualTimeScheduler{
		start: start,
		now:   start,
	}
}

// Now 返回虚拟时钟的当前时间
func (s *VirtualTimeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Elapsed 返回从起点开始经过的虚拟时间
func (s *VirtualTimeScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now.Sub(s.start)
}

// Schedule 在当前虚拟时间调度任务，下一次推进时执行
func (s *VirtualTimeScheduler) Schedule(action func()) Disposable {
	return s.ScheduleWithDelay(action, 0)
}

// ScheduleWithDelay 在当前虚拟时间之后delay调度任务
func (s *VirtualTimeScheduler) ScheduleWithDelay(action func(), delay time.Duration) Disposable {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	s.seq++
	task := &scheduledTask{
		due:    s.now.Add(delay),
		seq:    s.seq,
		action: action,
	}
	heap.Push(&s.queue, task)
	s.mu.Unlock()

	statTaskScheduled()
	return NewBaseDisposable(func() {
		s.mu.Lock()
		removed := s.queue.remove(task)
		s.mu.Unlock()
		if removed {
			statTaskCanceled()
		}
	})
}

// AdvanceBy 推进虚拟时间，依次执行所有到期的任务
func (s *VirtualTimeScheduler) AdvanceBy(duration time.Duration) {
	s.mu.Lock()
	target := s.now.Add(duration)
	s.mu.Unlock()

	s.advanceTo(target)
}

// AdvanceTo 推进到距离起点elapsed的虚拟时间，时钟不会倒退
func (s *VirtualTimeScheduler) AdvanceTo(elapsed time.Duration) {
	s.advanceTo(s.start.Add(elapsed))
}

// Flush 执行所有任务，包括执行过程中新调度的任务
func (s *VirtualTimeScheduler) Flush() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		task := heap.Pop(&s.queue).(*scheduledTask)
		if task.due.After(s.now) {
			s.now = task.due
		}
		s.mu.Unlock()

		task.action()
	}
}

// PendingCount 返回尚未执行的任务数量
func (s *VirtualTimeScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *VirtualTimeScheduler) advanceTo(target time.Time) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].due.After(target) {
			if target.After(s.now) {
				s.now = target
			}
			s.mu.Unlock()
			return
		}
		task := heap.Pop(&s.queue).(*scheduledTask)
		if task.due.After(s.now) {
			s.now = task.due
		}
		s.mu.Unlock()

		task.action()
	}
}

// ============================================================================
// 事件循环调度器 - Event Loop Scheduler
// ============================================================================

// EventLoopScheduler 在单个goroutine上按到期时间顺序执行所有任务
type EventLoopScheduler struct {
	mu       sync.Mutex
	queue    taskQueue
	seq      uint64
	wake     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	disposed int32
}

// NewEventLoopScheduler 创建事件循环调度器并启动循环goroutine
func NewEventLoopScheduler() *EventLoopScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &EventLoopScheduler{
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

// Now 返回实际时间
func (s *EventLoopScheduler) Now() time.Time {
	return time.Now()
}

// Schedule 尽快在循环goroutine上执行任务
func (s *EventLoopScheduler) Schedule(action func()) Disposable {
	return s.ScheduleWithDelay(action, 0)
}

// ScheduleWithDelay 延迟delay后在循环goroutine上执行任务
func (s *EventLoopScheduler) ScheduleWithDelay(action func(), delay time.Duration) Disposable {
	if s.IsDisposed() {
		disposed := NewBaseDisposable(nil)
		disposed.Dispose()
		return disposed
	}
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	s.seq++
	task := &scheduledTask{
		due:    time.Now().Add(delay),
		seq:    s.seq,
		action: action,
	}
	heap.Push(&s.queue, task)
	s.mu.Unlock()

	statTaskScheduled()
	s.signal()

	return NewBaseDisposable(func() {
		s.mu.Lock()
		removed := s.queue.remove(task)
		s.mu.Unlock()
		if removed {
			statTaskCanceled()
			s.signal()
		}
	})
}

// Dispose 停止事件循环，未执行的任务被丢弃
func (s *EventLoopScheduler) Dispose() {
	if atomic.CompareAndSwapInt32(&s.disposed, 0, 1) {
		s.cancel()
	}
}

// IsDisposed 检查是否已停止
func (s *EventLoopScheduler) IsDisposed() bool {
	return atomic.LoadInt32(&s.disposed) == 1
}

// Done 循环goroutine退出后关闭
func (s *EventLoopScheduler) Done() <-chan struct{} {
	return s.done
}

func (s *EventLoopScheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// loop 出队发生在锁内，出队之后的Dispose不再影响该任务
func (s *EventLoopScheduler) loop() {
	defer close(s.done)

	for {
		if s.ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.ctx.Done():
				return
			}
		}

		wait := time.Until(s.queue[0].due)
		if wait <= 0 {
			task := heap.Pop(&s.queue).(*scheduledTask)
			s.mu.Unlock()
			task.action()
			continue
		}
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		case <-s.ctx.Done():
			timer.Stop()
			return
		}
	}
}
