// Combination operators for rxcore
// 组合操作符实现：Zip, CombineLatest
package rxcore

// ============================================================================
// Zip
// ============================================================================

// Zip 按顺序配对每个源的值，发射 []interface{}
func Zip(sources ...Observable) Observable {
	return ZipWith(nil, sources...)
}

// ZipWith 按顺序配对每个源的值并用zipper组合；zipper为nil时发射 []interface{}。
// 某个源完成且队列为空时，Zip立即完成；某个源没有终止就被关闭且队列为空时，
// 下游被取消订阅而不是完成
func ZipWith(zipper func(values ...interface{}) interface{}, sources ...Observable) Observable {
	return NewObservable(func(downstream *Subscriber) {
		if len(sources) == 0 {
			downstream.OnComplete()
			return
		}

		state := &zipState{
			destination: downstream,
			zipper:      zipper,
			queues:      make([][]interface{}, len(sources)),
			completed:   make([]bool, len(sources)),
			closed:      make([]bool, len(sources)),
		}
		for index, source := range sources {
			if downstream.IsStopped() {
				return
			}
			upstream := downstream.child(&zipSource{state: state, index: index})
			onClosed(upstream, func() { state.close(index) })
			source.Subscribe(upstream)
		}
	})
}

// zipState 每个源一个先进先出队列
type zipState struct {
	destination *Subscriber
	zipper      func(values ...interface{}) interface{}
	queues      [][]interface{}
	completed   []bool
	closed      []bool
}

func (z *zipState) push(index int, value interface{}) {
	z.queues[index] = append(z.queues[index], value)

	for z.ready() {
		values := make([]interface{}, len(z.queues))
		for i := range z.queues {
			values[i] = z.queues[i][0]
			z.queues[i] = z.queues[i][1:]
		}
		z.emit(values)
	}
	z.completeIfExhausted()
	z.unsubscribeIfExhausted()
}

func (z *zipState) complete(index int) {
	z.completed[index] = true
	z.completeIfExhausted()
}

func (z *zipState) close(index int) {
	z.closed[index] = true
	z.unsubscribeIfExhausted()
}

func (z *zipState) ready() bool {
	if z.destination.IsStopped() {
		return false
	}
	for _, queue := range z.queues {
		if len(queue) == 0 {
			return false
		}
	}
	return true
}

// completeIfExhausted 已完成且没有剩余值的源意味着不可能再配对
func (z *zipState) completeIfExhausted() {
	for i, done := range z.completed {
		if done && len(z.queues[i]) == 0 {
			z.destination.OnComplete()
			return
		}
	}
}

// unsubscribeIfExhausted 被关闭的源队列已空，或者所有源都已结束时，取消下游
func (z *zipState) unsubscribeIfExhausted() {
	if z.destination.IsStopped() {
		return
	}
	finished := 0
	for i, closed := range z.closed {
		if closed && len(z.queues[i]) == 0 {
			z.destination.Unsubscribe()
			return
		}
		if closed || z.completed[i] {
			finished++
		}
	}
	if finished == len(z.closed) {
		z.destination.Unsubscribe()
	}
}

func (z *zipState) emit(values []interface{}) {
	if z.zipper != nil {
		z.destination.OnNext(z.zipper(values...))
		return
	}
	z.destination.OnNext(values)
}

// zipSource 单个源的观察者
type zipSource struct {
	state *zipState
	index int
}

func (s *zipSource) OnNext(value interface{}) { s.state.push(s.index, value) }
func (s *zipSource) OnError(err error)        { s.state.destination.OnError(err) }
func (s *zipSource) OnComplete()              { s.state.complete(s.index) }

// ============================================================================
// CombineLatest
// ============================================================================

// CombineLatest 所有源都至少发射过一次后，任一源的新值都会发射最新值组合
func CombineLatest(sources ...Observable) Observable {
	return CombineLatestWith(nil, sources...)
}

// CombineLatestWith 与CombineLatest相同，用combiner组合最新值；combiner为nil时发射 []interface{}
func CombineLatestWith(combiner func(values ...interface{}) interface{}, sources ...Observable) Observable {
	return NewObservable(func(downstream *Subscriber) {
		if len(sources) == 0 {
			downstream.OnComplete()
			return
		}

		state := &combineLatestState{
			destination: downstream,
			combiner:    combiner,
			latest:      make([]interface{}, len(sources)),
			hasValue:    make([]bool, len(sources)),
		}
		for index, source := range sources {
			if downstream.IsStopped() {
				return
			}
			upstream := downstream.child(&combineLatestSource{state: state, index: index})
			onClosed(upstream, func() { state.close(index) })
			source.Subscribe(upstream)
		}
	})
}

// combineLatestState 每个源的最新值
type combineLatestState struct {
	destination *Subscriber
	combiner    func(values ...interface{}) interface{}
	latest      []interface{}
	hasValue    []bool
	valueCount  int
	doneCount   int
}

func (c *combineLatestState) update(index int, value interface{}) {
	c.latest[index] = value
	if !c.hasValue[index] {
		c.hasValue[index] = true
		c.valueCount++
	}
	if c.valueCount < len(c.latest) {
		return
	}

	values := make([]interface{}, len(c.latest))
	copy(values, c.latest)
	if c.combiner != nil {
		c.destination.OnNext(c.combiner(values...))
		return
	}
	c.destination.OnNext(values)
}

// complete 从未发射过的源完成时不可能再组合，立即完成
func (c *combineLatestState) complete(index int) {
	c.doneCount++
	if !c.hasValue[index] || c.doneCount == len(c.latest) {
		c.destination.OnComplete()
	}
}

// close 源没有终止就被关闭：从未发射过或者所有源都已结束时取消下游，不发送完成
func (c *combineLatestState) close(index int) {
	if c.destination.IsStopped() {
		return
	}
	c.doneCount++
	if !c.hasValue[index] || c.doneCount == len(c.latest) {
		c.destination.Unsubscribe()
	}
}

// combineLatestSource 单个源的观察者
type combineLatestSource struct {
	state *combineLatestState
	index int
}

func (s *combineLatestSource) OnNext(value interface{}) { s.state.update(s.index, value) }
func (s *combineLatestSource) OnError(err error)        { s.state.destination.OnError(err) }
func (s *combineLatestSource) OnComplete()              { s.state.complete(s.index) }

// onClosed 订阅者没有收到终止通知就被关闭时调用action
func onClosed(subscriber *Subscriber, action func()) {
	subscriber.AddFunc(func() {
		if !subscriber.IsTerminated() {
			action()
		}
	})
}
