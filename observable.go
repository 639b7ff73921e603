// Observable implementation for rxcore
// 冷Observable的核心实现：每次订阅都重新执行生产函数
package rxcore

// ============================================================================
// Observable 核心接口
// ============================================================================

// Producer 生产函数，向订阅者推送通知，通过subscriber.Add注册清理动作
type Producer func(subscriber *Subscriber)

// Operator 操作符，从一个Observable派生另一个Observable
type Operator func(source Observable) Observable

// Observable 可观察序列
type Observable interface {
	// Subscribe 订阅观察者，返回可取消的订阅
	Subscribe(observer Observer) *Subscription
	// Pipe 从左到右组合操作符
	Pipe(operators ...Operator) Observable
}

// ============================================================================
// Observable 核心实现
// ============================================================================

// observableImpl Observable的核心实现
type observableImpl struct {
	producer Producer
}

// NewObservable 创建新的Observable
func NewObservable(producer Producer) Observable {
	return &observableImpl{producer: producer}
}

// Create 创建新的Observable，NewObservable的别名
func Create(producer Producer) Observable {
	return NewObservable(producer)
}

// Subscribe 订阅观察者
func (o *observableImpl) Subscribe(observer Observer) *Subscription {
	subscriber := toSubscriber(observer)
	if !subscriber.IsStopped() && o.producer != nil {
		o.producer(subscriber)
	}
	return subscriber.Subscription
}

// Pipe 组合操作符
func (o *observableImpl) Pipe(operators ...Operator) Observable {
	return Pipe(o, operators...)
}

// Pipe 把操作符依次应用到source上，订阅前没有任何副作用
func Pipe(source Observable, operators ...Operator) Observable {
	result := source
	for _, operator := range operators {
		if operator != nil {
			result = operator(result)
		}
	}
	return result
}

// Compose 把多个操作符组合为一个
func Compose(operators ...Operator) Operator {
	return func(source Observable) Observable {
		return Pipe(source, operators...)
	}
}

// SubscribeWithCallbacks 使用回调函数订阅
func SubscribeWithCallbacks(source Observable, onNext OnNext, onError OnError, onComplete OnComplete) *Subscription {
	return source.Subscribe(Callbacks{Next: onNext, Error: onError, Complete: onComplete})
}

// lift 创建转发到下游的中间订阅者，并用它订阅上游
func lift(source Observable, build func(downstream *Subscriber) Observer) Observable {
	return NewObservable(func(downstream *Subscriber) {
		upstream := downstream.child(build(downstream))
		source.Subscribe(upstream)
	})
}
