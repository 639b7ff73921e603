// Subscription and Subscriber tests for rxcore
// 验证拆卸顺序、幂等性和终止约定
package rxcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Subscription 测试
// ============================================================================

func TestSubscription(t *testing.T) {
	t.Run("按加入顺序执行清理", func(t *testing.T) {
		var order []int
		subscription := NewSubscription()
		subscription.AddFunc(func() { order = append(order, 1) })
		subscription.AddFunc(func() { order = append(order, 2) })
		subscription.AddFunc(func() { order = append(order, 3) })

		subscription.Unsubscribe()
		require.Equal(t, []int{1, 2, 3}, order)
		require.True(t, subscription.IsClosed())
	})

	t.Run("重复取消只执行一次", func(t *testing.T) {
		count := 0
		subscription := NewSubscription()
		subscription.AddFunc(func() { count++ })

		subscription.Unsubscribe()
		subscription.Unsubscribe()
		require.Equal(t, 1, count)
	})

	t.Run("关闭后添加立即执行", func(t *testing.T) {
		subscription := NewSubscription()
		subscription.Unsubscribe()

		ran := false
		subscription.AddFunc(func() { ran = true })
		require.True(t, ran)
		require.Equal(t, 0, subscription.Len())
	})

	t.Run("移除后不执行", func(t *testing.T) {
		ran := false
		teardown := NewTeardown(func() { ran = true })
		subscription := NewSubscription()
		subscription.Add(teardown)
		subscription.Remove(teardown)

		subscription.Unsubscribe()
		require.False(t, ran)
	})

	t.Run("清理动作内重入", func(t *testing.T) {
		count := 0
		subscription := NewSubscription()
		subscription.AddFunc(func() {
			count++
			subscription.Unsubscribe()
		})

		subscription.Unsubscribe()
		require.Equal(t, 1, count)
	})

	t.Run("嵌套订阅", func(t *testing.T) {
		var order []string
		parent := NewSubscription()
		child := NewSubscription()
		child.AddFunc(func() { order = append(order, "child") })
		parent.Add(child)
		parent.AddFunc(func() { order = append(order, "parent") })
		parent.Add(parent)
		parent.Add(nil)

		parent.Unsubscribe()
		require.Equal(t, []string{"child", "parent"}, order)
		require.True(t, child.IsClosed())
	})
}

// ============================================================================
// Subscriber 测试
// ============================================================================

func TestSubscriber(t *testing.T) {
	t.Run("完成回调先于清理", func(t *testing.T) {
		var order []string
		subscriber := NewSubscriber(Callbacks{
			Complete: func() { order = append(order, "complete") },
		})
		subscriber.AddFunc(func() { order = append(order, "teardown") })

		subscriber.OnComplete()
		require.Equal(t, []string{"complete", "teardown"}, order)
		require.True(t, subscriber.IsTerminated())
		require.True(t, subscriber.IsClosed())
	})

	t.Run("错误回调先于清理", func(t *testing.T) {
		var order []string
		boom := errors.New("boom")
		subscriber := NewSubscriber(Callbacks{
			Error: func(err error) {
				require.Equal(t, boom, err)
				order = append(order, "error")
			},
		})
		subscriber.AddFunc(func() { order = append(order, "teardown") })

		subscriber.OnError(boom)
		require.Equal(t, []string{"error", "teardown"}, order)
	})

	t.Run("外部取消不触发回调", func(t *testing.T) {
		var order []string
		subscriber := NewSubscriber(Callbacks{
			Next:     func(value interface{}) { order = append(order, "next") },
			Complete: func() { order = append(order, "complete") },
			Error:    func(err error) { order = append(order, "error") },
		})
		subscriber.AddFunc(func() { order = append(order, "teardown") })

		subscriber.Unsubscribe()
		subscriber.OnNext(1)
		subscriber.OnComplete()
		subscriber.OnError(errors.New("late"))
		require.Equal(t, []string{"teardown"}, order)
		require.True(t, subscriber.IsStopped())
		require.False(t, subscriber.IsTerminated())
	})

	t.Run("第一个终止通知生效", func(t *testing.T) {
		var items []Item
		subscriber := NewSubscriber(ObserverFunc(func(item Item) {
			items = append(items, item)
		}))

		subscriber.OnNext(1)
		subscriber.OnComplete()
		subscriber.OnError(errors.New("ignored"))
		subscriber.OnNext(2)
		subscriber.OnComplete()

		require.Equal(t, []Item{CreateItem(1), CreateCompleteItem()}, items)
	})

	t.Run("nil观察者", func(t *testing.T) {
		subscriber := NewSubscriber(nil)
		subscriber.OnNext(1)
		subscriber.OnComplete()
		require.True(t, subscriber.IsClosed())
	})

	t.Run("子订阅者关闭后从父级移除", func(t *testing.T) {
		parent := NewSubscriber(nil)
		child := parent.child(nil)
		require.Equal(t, 1, parent.Len())

		child.OnComplete()
		require.Equal(t, 0, parent.Len())
		require.False(t, parent.IsClosed())
	})
}

// ============================================================================
// Observable 测试
// ============================================================================

func TestObservable(t *testing.T) {
	t.Run("冷Observable每次订阅重新执行", func(t *testing.T) {
		runs := 0
		source := NewObservable(func(subscriber *Subscriber) {
			runs++
			subscriber.OnNext(runs)
			subscriber.OnComplete()
		})

		var values []interface{}
		SubscribeWithCallbacks(source, func(value interface{}) { values = append(values, value) }, nil, nil)
		SubscribeWithCallbacks(source, func(value interface{}) { values = append(values, value) }, nil, nil)
		require.Equal(t, []interface{}{1, 2}, values)
	})

	t.Run("同步完成后返回已关闭的订阅", func(t *testing.T) {
		subscription := Just(1, 2).Subscribe(nil)
		require.True(t, subscription.IsClosed())
	})

	t.Run("生产函数注册的清理在取消时执行", func(t *testing.T) {
		cleaned := false
		source := NewObservable(func(subscriber *Subscriber) {
			subscriber.AddFunc(func() { cleaned = true })
		})

		subscription := source.Subscribe(nil)
		require.False(t, cleaned)
		subscription.Unsubscribe()
		require.True(t, cleaned)
	})

	t.Run("Pipe订阅前没有副作用", func(t *testing.T) {
		subscribed := false
		source := Create(func(subscriber *Subscriber) {
			subscribed = true
			subscriber.OnComplete()
		})

		piped := source.Pipe(Map(func(value interface{}) (interface{}, error) { return value, nil }))
		require.False(t, subscribed)
		piped.Subscribe(nil)
		require.True(t, subscribed)
	})
}
