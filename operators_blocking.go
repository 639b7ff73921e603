// Blocking helpers for rxcore
// 阻塞辅助函数：等待由调度器驱动的流结束
package rxcore

import (
	"context"
	"sync"
)

// ============================================================================
// 阻塞辅助函数
// ============================================================================

// BlockingForEach 对每个值执行action，直到流终止或ctx取消；
// ctx取消时会取消订阅并返回ctx.Err()
func BlockingForEach(ctx context.Context, source Observable, action OnNext) error {
	done := make(chan error, 1)

	subscription := source.Subscribe(Callbacks{
		Next: action,
		Error: func(err error) {
			done <- err
		},
		Complete: func() {
			done <- nil
		},
	})
	defer subscription.Unsubscribe()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BlockingToSlice 收集所有值到切片，出错时返回已收集的值和错误
func BlockingToSlice(ctx context.Context, source Observable) ([]interface{}, error) {
	var (
		mu     sync.Mutex
		result []interface{}
	)
	err := BlockingForEach(ctx, source, func(value interface{}) {
		mu.Lock()
		result = append(result, value)
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()
	return result, err
}

// BlockingWait 等待流终止，忽略所有值
func BlockingWait(ctx context.Context, source Observable) error {
	return BlockingForEach(ctx, source, nil)
}
