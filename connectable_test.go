// Connectable tests for rxcore
// 验证连接、断开、重置策略和引用计数
package rxcore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectable(t *testing.T) {
	t.Run("连接前不订阅源", func(t *testing.T) {
		subscribed := 0
		source := NewObservable(func(subscriber *Subscriber) {
			subscribed++
			subscriber.OnNext(1)
			subscriber.OnComplete()
		})
		connectable := Publish(source)
		observer := &recorder{}
		connectable.Subscribe(observer)
		require.Equal(t, 0, subscribed)
		require.False(t, connectable.IsConnected())

		connectable.Connect()
		require.Equal(t, 1, subscribed)
		require.Equal(t, []Item{CreateItem(1), CreateCompleteItem()}, observer.items)
	})

	t.Run("重复连接返回同一个连接", func(t *testing.T) {
		source := NewPublishSubject()
		connectable := Publish(source)
		first := connectable.Connect()
		second := connectable.Connect()
		require.Same(t, first, second)
		require.Equal(t, 1, source.ObserverCount())
		require.True(t, connectable.IsConnected())
	})

	t.Run("下游取消不影响连接", func(t *testing.T) {
		source := NewPublishSubject()
		connectable := Publish(source)
		subscription := connectable.Subscribe(nil)
		connectable.Connect()

		subscription.Unsubscribe()
		require.True(t, connectable.IsConnected())
		require.Equal(t, 1, source.ObserverCount())
	})

	t.Run("断开后重置连接器", func(t *testing.T) {
		source := NewPublishSubject()
		connectable := Publish(source)
		early := &recorder{}
		connectable.Subscribe(early)
		connectable.Connect()
		source.OnNext(1)

		require.True(t, connectable.Disconnect())
		require.False(t, connectable.Disconnect())
		require.False(t, connectable.IsConnected())
		require.False(t, source.HasObservers())

		late := &recorder{}
		connectable.Subscribe(late)
		connectable.Connect()
		source.OnNext(2)
		require.Equal(t, []interface{}{1}, early.values())
		require.Equal(t, []interface{}{2}, late.values())
	})

	t.Run("不重置时保留连接器", func(t *testing.T) {
		source := NewPublishSubject()
		connectable := NewConnectable(source)
		observer := &recorder{}
		connectable.Subscribe(observer)
		connectable.Connect().Unsubscribe()
		connectable.Connect()
		source.OnNext(1)
		require.Equal(t, []interface{}{1}, observer.values())
	})

	t.Run("完成后按策略重置", func(t *testing.T) {
		kept := NewConnectable(Just(1))
		kept.Subscribe(nil)
		kept.Connect()
		keptLate := &recorder{}
		kept.Subscribe(keptLate)
		require.Equal(t, []Item{CreateCompleteItem()}, keptLate.items)

		reset := NewConnectable(Just(1), WithResetOnComplete(true))
		reset.Subscribe(nil)
		reset.Connect()
		resetLate := &recorder{}
		reset.Subscribe(resetLate)
		require.Empty(t, resetLate.items)
		reset.Connect()
		require.Equal(t, []Item{CreateItem(1), CreateCompleteItem()}, resetLate.items)
	})

	t.Run("源完成后断开重置同样生效", func(t *testing.T) {
		connectable := Publish(Just(1))
		first := &recorder{}
		connectable.Subscribe(first)
		connectable.Connect()
		require.Equal(t, []Item{CreateItem(1), CreateCompleteItem()}, first.items)
		require.False(t, connectable.IsConnected())

		late := &recorder{}
		connectable.Subscribe(late)
		require.Empty(t, late.items)

		connectable.Connect()
		require.Equal(t, []Item{CreateItem(1), CreateCompleteItem()}, late.items)
	})

	t.Run("错误后按策略重置", func(t *testing.T) {
		boom := errors.New("boom")
		connectable := NewConnectable(Throw(boom), WithResetOnError(true))
		first := &recorder{}
		connectable.Subscribe(first)
		connectable.Connect()
		require.Equal(t, []Item{CreateErrorItem(boom)}, first.items)

		second := &recorder{}
		connectable.Subscribe(second)
		require.Empty(t, second.items)
	})

	t.Run("Replay重放给晚到的订阅者", func(t *testing.T) {
		connectable := Replay(Just(1, 2, 3), 2)
		connectable.Connect()

		late := &recorder{}
		connectable.Subscribe(late)
		require.Equal(t, []Item{CreateItem(2), CreateItem(3), CreateCompleteItem()}, late.items)
	})

	t.Run("Reset丢弃连接器", func(t *testing.T) {
		connectable := Replay(Just(1), 0)
		connectable.Connect()
		connectable.Reset()

		late := &recorder{}
		connectable.Subscribe(late)
		require.Empty(t, late.items)
	})

	t.Run("自定义连接器", func(t *testing.T) {
		source := NewPublishSubject()
		connectable := NewConnectable(source, WithConnector(func() Subject {
			return NewBehaviorSubject("seed")
		}))
		observer := &recorder{}
		connectable.Subscribe(observer)
		connectable.Connect()
		source.OnNext("next")
		require.Equal(t, []interface{}{"seed", "next"}, observer.values())
	})
}

func TestRefCount(t *testing.T) {
	t.Run("第一个订阅者连接，最后一个断开", func(t *testing.T) {
		source := NewPublishSubject()
		shared := Publish(source).RefCount()

		first := shared.Subscribe(nil)
		require.True(t, source.HasObservers())
		second := shared.Subscribe(nil)
		require.Equal(t, 1, source.ObserverCount())

		first.Unsubscribe()
		require.True(t, source.HasObservers())
		second.Unsubscribe()
		require.False(t, source.HasObservers())
	})

	t.Run("WithRefCount只负责断开", func(t *testing.T) {
		source := NewPublishSubject()
		connectable := NewConnectable(source, WithRefCount(true))
		subscription := connectable.Subscribe(nil)
		require.False(t, connectable.IsConnected())

		connectable.Connect()
		subscription.Unsubscribe()
		require.False(t, connectable.IsConnected())
	})

	t.Run("AutoConnect达到数量后连接", func(t *testing.T) {
		source := NewPublishSubject()
		auto := Publish(source).AutoConnect(2)

		first := &recorder{}
		auto.Subscribe(first)
		require.False(t, source.HasObservers())
		second := &recorder{}
		auto.Subscribe(second)
		require.True(t, source.HasObservers())

		source.OnNext(1)
		require.Equal(t, []interface{}{1}, first.values())
		require.Equal(t, []interface{}{1}, second.values())
	})
}

func TestShare(t *testing.T) {
	t.Run("多播并在最后一个订阅者离开时取消源", func(t *testing.T) {
		scheduler := NewVirtualTimeScheduler()
		finalized := 0
		shared := Interval(10*time.Millisecond, scheduler).Pipe(
			Finalize(func() { finalized++ }),
			Share(),
		)

		first := &recorder{}
		firstSubscription := shared.Subscribe(first)
		scheduler.AdvanceBy(10 * time.Millisecond)
		second := &recorder{}
		secondSubscription := shared.Subscribe(second)
		scheduler.AdvanceBy(10 * time.Millisecond)

		firstSubscription.Unsubscribe()
		secondSubscription.Unsubscribe()
		require.Equal(t, []interface{}{0, 1}, first.values())
		require.Equal(t, []interface{}{1}, second.values())
		require.Equal(t, 1, finalized)
		require.Equal(t, 0, scheduler.PendingCount())
	})

	t.Run("完成后重新订阅源", func(t *testing.T) {
		subscribed := 0
		source := NewObservable(func(subscriber *Subscriber) {
			subscribed++
			subscriber.OnNext(subscribed)
			subscriber.OnComplete()
		})
		shared := source.Pipe(Share())

		first := &recorder{}
		shared.Subscribe(first)
		second := &recorder{}
		shared.Subscribe(second)
		require.Equal(t, []Item{CreateItem(1), CreateCompleteItem()}, first.items)
		require.Equal(t, []Item{CreateItem(2), CreateCompleteItem()}, second.items)
	})
}
