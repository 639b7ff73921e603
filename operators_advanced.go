// Higher order operators for rxcore
// 高阶操作符：SwitchMap
package rxcore

// ============================================================================
// SwitchMap
// ============================================================================

// SwitchMap 切换映射：每个外部值映射为一个内部Observable，
// 新的内部订阅开始前先取消仍然活跃的旧内部订阅
func SwitchMap(project func(value interface{}) Observable) Operator {
	return func(source Observable) Observable {
		return NewObservable(func(downstream *Subscriber) {
			state := &switchMapState{
				destination: downstream,
				project:     project,
			}
			outer := downstream.child(state)
			source.Subscribe(outer)
		})
	}
}

// switchMapState 外部订阅者的状态机，同一时刻最多一个活跃的内部订阅者
type switchMapState struct {
	destination    *Subscriber
	project        func(value interface{}) Observable
	inner          *Subscriber
	outerCompleted bool
}

// OnNext 取消旧的内部订阅，订阅新的内部Observable
func (s *switchMapState) OnNext(value interface{}) {
	if previous := s.inner; previous != nil {
		s.inner = nil
		previous.Unsubscribe()
	}

	innerObservable := s.project(value)
	inner := &switchMapInner{state: s}
	inner.subscriber = s.destination.child(inner)
	s.inner = inner.subscriber
	innerObservable.Subscribe(inner.subscriber)
}

// OnError 外部错误立即传递给下游
func (s *switchMapState) OnError(err error) {
	s.destination.OnError(err)
}

// OnComplete 没有活跃内部订阅时立即完成，否则等待内部完成
func (s *switchMapState) OnComplete() {
	s.outerCompleted = true
	if s.inner == nil {
		s.destination.OnComplete()
	}
}

// switchMapInner 内部订阅者的观察者
type switchMapInner struct {
	state      *switchMapState
	subscriber *Subscriber
}

func (i *switchMapInner) OnNext(value interface{}) {
	i.state.destination.OnNext(value)
}

func (i *switchMapInner) OnError(err error) {
	i.state.destination.OnError(err)
}

func (i *switchMapInner) OnComplete() {
	if i.state.inner == i.subscriber {
		i.state.inner = nil
	}
	if i.state.outerCompleted && i.state.inner == nil {
		i.state.destination.OnComplete()
	}
}
