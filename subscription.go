// Subscription implementation for rxcore
// 组合式订阅：持有有序的清理单元，只关闭一次
package rxcore

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// 清理动作
// ============================================================================

// actionTeardown 只执行一次的清理动作
type actionTeardown struct {
	done   int32
	action func()
}

// NewTeardown 创建只执行一次的清理动作
func NewTeardown(action func()) Teardown {
	return &actionTeardown{action: action}
}

// Unsubscribe 执行清理动作，重复调用无效
func (t *actionTeardown) Unsubscribe() {
	if atomic.CompareAndSwapInt32(&t.done, 0, 1) {
		statTeardownRun()
		if t.action != nil {
			t.action()
		}
	}
}

// ============================================================================
// Subscription 组合订阅
// ============================================================================

// Subscription 组合订阅，按加入顺序保存子清理单元
type Subscription struct {
	mu        sync.Mutex
	closed    bool
	teardowns []Teardown
}

// NewSubscription 创建打开状态的订阅
func NewSubscription() *Subscription {
	statSubscriptionCreated()
	return &Subscription{}
}

// Add 添加清理单元，订阅已关闭时立即执行
func (s *Subscription) Add(teardown Teardown) {
	if teardown == nil {
		return
	}
	if other, ok := teardown.(*Subscription); ok && other == s {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		teardown.Unsubscribe()
		return
	}
	s.teardowns = append(s.teardowns, teardown)
	s.mu.Unlock()
}

// AddFunc 添加清理函数
func (s *Subscription) AddFunc(action func()) {
	s.Add(NewTeardown(action))
}

// Remove 移除清理单元但不执行它
func (s *Subscription) Remove(teardown Teardown) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.teardowns {
		if t == teardown {
			s.teardowns = append(s.teardowns[:i:i], s.teardowns[i+1:]...)
			return
		}
	}
}

// Unsubscribe 关闭订阅，按加入顺序执行所有清理单元
// 重入调用（包括清理动作内部的调用）都是空操作
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	statSubscriptionClosed()
	for _, teardown := range teardowns {
		teardown.Unsubscribe()
	}
}

// IsClosed 检查订阅是否已关闭
func (s *Subscription) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len 返回当前持有的清理单元数量
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.teardowns)
}
