// Engine statistics for rxcore
// 引擎统计信息，记录订阅生命周期计数
package rxcore

import "sync/atomic"

// ============================================================================
// 引擎统计
// ============================================================================

// EngineStats 引擎统计信息
type EngineStats struct {
	SubscriptionsCreated int64 // 订阅创建次数
	SubscriptionsClosed  int64 // 订阅关闭次数
	TeardownsRun         int64 // 执行过的清理动作数量
	ActiveSubscriptions  int64 // 当前未关闭的订阅数
	MaxActive            int64 // 同时存活的最大订阅数
	TerminalReplays      int64 // 主题终止后的订阅次数（只收到终止通知）
	ScheduledTasks       int64 // 调度任务数
	CanceledTasks        int64 // 被取消的调度任务数
}

var globalStats = &EngineStats{}

// GetStats 获取统计信息快照
func GetStats() EngineStats {
	return EngineStats{
		SubscriptionsCreated: atomic.LoadInt64(&globalStats.SubscriptionsCreated),
		SubscriptionsClosed:  atomic.LoadInt64(&globalStats.SubscriptionsClosed),
		TeardownsRun:         atomic.LoadInt64(&globalStats.TeardownsRun),
		ActiveSubscriptions:  atomic.LoadInt64(&globalStats.ActiveSubscriptions),
		MaxActive:            atomic.LoadInt64(&globalStats.MaxActive),
		TerminalReplays:      atomic.LoadInt64(&globalStats.TerminalReplays),
		ScheduledTasks:       atomic.LoadInt64(&globalStats.ScheduledTasks),
		CanceledTasks:        atomic.LoadInt64(&globalStats.CanceledTasks),
	}
}

// ResetStats 重置统计信息
func ResetStats() {
	atomic.StoreInt64(&globalStats.SubscriptionsCreated, 0)
	atomic.StoreInt64(&globalStats.SubscriptionsClosed, 0)
	atomic.StoreInt64(&globalStats.TeardownsRun, 0)
	atomic.StoreInt64(&globalStats.ActiveSubscriptions, 0)
	atomic.StoreInt64(&globalStats.MaxActive, 0)
	atomic.StoreInt64(&globalStats.TerminalReplays, 0)
	atomic.StoreInt64(&globalStats.ScheduledTasks, 0)
	atomic.StoreInt64(&globalStats.CanceledTasks, 0)
}

func statSubscriptionCreated() {
	atomic.AddInt64(&globalStats.SubscriptionsCreated, 1)

	current := atomic.AddInt64(&globalStats.ActiveSubscriptions, 1)
	for {
		max := atomic.LoadInt64(&globalStats.MaxActive)
		if current <= max || atomic.CompareAndSwapInt64(&globalStats.MaxActive, max, current) {
			break
		}
	}
}

func statSubscriptionClosed() {
	atomic.AddInt64(&globalStats.SubscriptionsClosed, 1)
	atomic.AddInt64(&globalStats.ActiveSubscriptions, -1)
}

func statTeardownRun() {
	atomic.AddInt64(&globalStats.TeardownsRun, 1)
}

func statTerminalReplay() {
	atomic.AddInt64(&globalStats.TerminalReplays, 1)
}

func statTaskScheduled() {
	atomic.AddInt64(&globalStats.ScheduledTasks, 1)
}

func statTaskCanceled() {
	atomic.AddInt64(&globalStats.CanceledTasks, 1)
}
