// Time operators for rxcore
// 时间操作符：Delay
package rxcore

import (
	"sync"
	"time"
)

// Delay 延迟操作符：每个通知（值、错误、完成）从收到时起独立延迟duration后发出。
// 下游关闭时取消所有尚未执行的调度任务
func Delay(duration time.Duration, scheduler Scheduler) Operator {
	return func(source Observable) Observable {
		return NewObservable(func(downstream *Subscriber) {
			state := &delayState{
				destination: downstream,
				scheduler:   scheduler,
				duration:    duration,
				pending:     make(map[*delayTask]struct{}),
			}
			downstream.AddFunc(state.cancelAll)
			source.Subscribe(downstream.child(state))
		})
	}
}

// delayTask 一个等待发出的通知
type delayTask struct {
	item   Item
	handle Disposable
}

// delayState 实时调度器在自己的goroutine上触发任务，因此pending需要加锁
type delayState struct {
	mu          sync.Mutex
	destination *Subscriber
	scheduler   Scheduler
	duration    time.Duration
	pending     map[*delayTask]struct{}
	canceled    bool
}

func (d *delayState) OnNext(value interface{}) { d.schedule(CreateItem(value)) }
func (d *delayState) OnError(err error)        { d.schedule(CreateErrorItem(err)) }
func (d *delayState) OnComplete()              { d.schedule(CreateCompleteItem()) }

func (d *delayState) schedule(item Item) {
	task := &delayTask{item: item}

	d.mu.Lock()
	if d.canceled {
		d.mu.Unlock()
		return
	}
	d.pending[task] = struct{}{}
	d.mu.Unlock()

	handle := d.scheduler.ScheduleWithDelay(func() {
		d.fire(task)
	}, d.duration)

	d.mu.Lock()
	task.handle = handle
	canceled := d.canceled
	d.mu.Unlock()

	if canceled {
		handle.Dispose()
	}
}

func (d *delayState) fire(task *delayTask) {
	d.mu.Lock()
	if _, ok := d.pending[task]; !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, task)
	d.mu.Unlock()

	task.item.Accept(d.destination)
}

// cancelAll 取消所有等待中的任务
func (d *delayState) cancelAll() {
	d.mu.Lock()
	d.canceled = true
	handles := make([]Disposable, 0, len(d.pending))
	for task := range d.pending {
		if task.handle != nil {
			handles = append(handles, task.handle)
		}
	}
	d.pending = nil
	d.mu.Unlock()

	for _, handle := range handles {
		handle.Dispose()
	}
}
