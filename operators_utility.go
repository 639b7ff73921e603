// Utility operators for rxcore
// 基础转换操作符：Map, Filter, Take
package rxcore

// Map 转换操作符，转换函数返回错误时向下游发送错误
func Map(transformer Transformer) Operator {
	return func(source Observable) Observable {
		return lift(source, func(downstream *Subscriber) Observer {
			return Callbacks{
				Next: func(value interface{}) {
					result, err := transformer(value)
					if err != nil {
						downstream.OnError(err)
						return
					}
					downstream.OnNext(result)
				},
				Error:    downstream.OnError,
				Complete: downstream.OnComplete,
			}
		})
	}
}

// Filter 过滤操作符
func Filter(predicate Predicate) Operator {
	return func(source Observable) Observable {
		return lift(source, func(downstream *Subscriber) Observer {
			return Callbacks{
				Next: func(value interface{}) {
					if predicate(value) {
						downstream.OnNext(value)
					}
				},
				Error:    downstream.OnError,
				Complete: downstream.OnComplete,
			}
		})
	}
}

// Take 取前count个值后完成，并取消上游订阅
func Take(count int) Operator {
	return func(source Observable) Observable {
		return NewObservable(func(downstream *Subscriber) {
			if count <= 0 {
				downstream.OnComplete()
				return
			}

			taken := 0
			upstream := downstream.child(Callbacks{
				Next: func(value interface{}) {
					taken++
					downstream.OnNext(value)
					if taken >= count {
						downstream.OnComplete()
					}
				},
				Error:    downstream.OnError,
				Complete: downstream.OnComplete,
			})
			source.Subscribe(upstream)
		})
	}
}
