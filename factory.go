// Factory functions for rxcore
// 工厂函数，同步推送或者借助调度器推送
package rxcore

import (
	"sync"
	"time"
)

// ============================================================================
// 基础工厂函数
// ============================================================================

// Just 从给定的值创建Observable，同步发射后完成
func Just(values ...interface{}) Observable {
	return FromSlice(values)
}

// FromSlice 从切片创建Observable
func FromSlice(slice []interface{}) Observable {
	return NewObservable(func(subscriber *Subscriber) {
		for _, value := range slice {
			if subscriber.IsStopped() {
				return
			}
			subscriber.OnNext(value)
		}
		subscriber.OnComplete()
	})
}

// Range 创建发射指定范围整数的Observable
func Range(start, count int) Observable {
	return NewObservable(func(subscriber *Subscriber) {
		for i := 0; i < count; i++ {
			if subscriber.IsStopped() {
				return
			}
			subscriber.OnNext(start + i)
		}
		subscriber.OnComplete()
	})
}

// Empty 创建一个空的Observable，立即完成
func Empty() Observable {
	return NewObservable(func(subscriber *Subscriber) {
		subscriber.OnComplete()
	})
}

// Never 创建一个永不发射任何通知的Observable
func Never() Observable {
	return NewObservable(func(subscriber *Subscriber) {})
}

// Throw 创建一个立即发射错误的Observable
func Throw(err error) Observable {
	return NewObservable(func(subscriber *Subscriber) {
		subscriber.OnError(err)
	})
}

// ============================================================================
// 时间相关
// ============================================================================

// Timer 在延迟之后发射0并完成
func Timer(delay time.Duration, scheduler Scheduler) Observable {
	return NewObservable(func(subscriber *Subscriber) {
		task := scheduler.ScheduleWithDelay(func() {
			subscriber.OnNext(0)
			subscriber.OnComplete()
		}, delay)
		subscriber.AddFunc(task.Dispose)
	})
}

// Interval 每隔period发射一个递增的整数，从0开始，永不完成
func Interval(period time.Duration, scheduler Scheduler) Observable {
	return NewObservable(func(subscriber *Subscriber) {
		var (
			mu    sync.Mutex
			count int
			task  Disposable
			tick  func()
		)
		tick = func() {
			mu.Lock()
			value := count
			count++
			if !subscriber.IsStopped() {
				task = scheduler.ScheduleWithDelay(tick, period)
			}
			mu.Unlock()
			subscriber.OnNext(value)
		}

		mu.Lock()
		task = scheduler.ScheduleWithDelay(tick, period)
		mu.Unlock()
		subscriber.AddFunc(func() {
			mu.Lock()
			defer mu.Unlock()
			task.Dispose()
		})
	})
}
