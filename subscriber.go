// Subscriber implementation for rxcore
// 订阅者：包装观察者并保证最多一次终止通知
package rxcore

import "sync/atomic"

// Subscriber 订阅者，持有自己的订阅并执行终止约定：
// 终止时先调用观察者回调，最后关闭订阅；外部取消只关闭订阅
type Subscriber struct {
	*Subscription
	destination Observer
	terminated  int32
}

// NewSubscriber 创建订阅者，nil观察者视为全部空操作
func NewSubscriber(destination Observer) *Subscriber {
	if destination == nil {
		destination = Callbacks{}
	}
	return &Subscriber{
		Subscription: NewSubscription(),
		destination:  destination,
	}
}

// toSubscriber 复用已有的订阅者，否则包装观察者
func toSubscriber(observer Observer) *Subscriber {
	if subscriber, ok := observer.(*Subscriber); ok && subscriber != nil {
		return subscriber
	}
	return NewSubscriber(observer)
}

// OnNext 转发数据，停止后忽略
func (s *Subscriber) OnNext(value interface{}) {
	if s.IsStopped() {
		return
	}
	s.destination.OnNext(value)
}

// OnError 转发错误后关闭订阅
func (s *Subscriber) OnError(err error) {
	if !s.terminate() {
		return
	}
	s.destination.OnError(err)
	s.Unsubscribe()
}

// OnComplete 转发完成信号后关闭订阅
func (s *Subscriber) OnComplete() {
	if !s.terminate() {
		return
	}
	s.destination.OnComplete()
	s.Unsubscribe()
}

// IsTerminated 是否已收到终止通知
func (s *Subscriber) IsTerminated() bool {
	return atomic.LoadInt32(&s.terminated) == 1
}

// IsStopped 已终止或订阅已关闭
func (s *Subscriber) IsStopped() bool {
	return s.IsTerminated() || s.IsClosed()
}

func (s *Subscriber) terminate() bool {
	if s.IsClosed() {
		return false
	}
	return atomic.CompareAndSwapInt32(&s.terminated, 0, 1)
}

// child 创建一个转发到observer的子订阅者，作为s的清理单元；
// 子订阅者关闭时会从s中移除自己
func (s *Subscriber) child(observer Observer) *Subscriber {
	child := NewSubscriber(observer)
	s.Add(child)
	child.AddFunc(func() {
		s.Remove(child)
	})
	return child
}
