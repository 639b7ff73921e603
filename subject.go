// Subject implementations for rxcore
// 实现Subject系统，包括PublishSubject、ReplaySubject、AsyncSubject、BehaviorSubject
package rxcore

import "sync"

// Subject 既是Observable又是Observer
type Subject interface {
	Observable
	Observer

	// Unsubscribe 关闭所有订阅者但不发送终止通知
	Unsubscribe()
	// IsClosed 主题是否已终止或已关闭
	IsClosed() bool
	// ObserverCount 当前注册的订阅者数量
	ObserverCount() int
}

// ============================================================================
// PublishSubject - 发布主题
// ============================================================================

// PublishSubject 发布主题，只向当前订阅者发送新的值
type PublishSubject struct {
	mu        sync.Mutex
	observers []*Subscriber
	terminal  *Item
	closed    bool
}

// NewPublishSubject 创建新的发布主题
func NewPublishSubject() *PublishSubject {
	return &PublishSubject{}
}

// Subscribe 订阅观察者；已终止的主题直接投递保存的终止通知
func (ps *PublishSubject) Subscribe(observer Observer) *Subscription {
	subscriber := toSubscriber(observer)
	ps.register(subscriber)
	return subscriber.Subscription
}

// Pipe 组合操作符
func (ps *PublishSubject) Pipe(operators ...Operator) Observable {
	return Pipe(ps, operators...)
}

// register 注册订阅者，订阅关闭时自动从注册表移除
func (ps *PublishSubject) register(subscriber *Subscriber) {
	if subscriber.IsStopped() {
		return
	}

	ps.mu.Lock()
	if ps.closed {
		ps.mu.Unlock()
		subscriber.Unsubscribe()
		return
	}
	if ps.terminal != nil {
		terminal := *ps.terminal
		ps.mu.Unlock()
		statTerminalReplay()
		terminal.Accept(subscriber)
		return
	}
	ps.observers = append(ps.observers, subscriber)
	ps.mu.Unlock()

	subscriber.AddFunc(func() {
		ps.removeObserver(subscriber)
	})
}

// OnNext 向订阅者快照发送下一个值
func (ps *PublishSubject) OnNext(value interface{}) {
	for _, subscriber := range ps.snapshot() {
		subscriber.OnNext(value)
	}
}

// OnError 保存错误并通知所有订阅者，之后的调用无效
func (ps *PublishSubject) OnError(err error) {
	ps.terminate(CreateErrorItem(err))
}

// OnComplete 保存完成信号并通知所有订阅者，之后的调用无效
func (ps *PublishSubject) OnComplete() {
	ps.terminate(CreateCompleteItem())
}

// Unsubscribe 关闭主题：所有订阅者被取消订阅，且不会收到终止通知
func (ps *PublishSubject) Unsubscribe() {
	ps.mu.Lock()
	if ps.closed {
		ps.mu.Unlock()
		return
	}
	ps.closed = true
	observers := ps.observers
	ps.observers = nil
	ps.mu.Unlock()

	for _, subscriber := range observers {
		subscriber.Unsubscribe()
	}
}

// IsClosed 主题是否已终止或已关闭
func (ps *PublishSubject) IsClosed() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.closed || ps.terminal != nil
}

// HasObservers 检查是否有观察者
func (ps *PublishSubject) HasObservers() bool {
	return ps.ObserverCount() > 0
}

// ObserverCount 获取观察者数量
func (ps *PublishSubject) ObserverCount() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.observers)
}

// terminate 只接受第一个终止通知，转发给快照后清空注册表
func (ps *PublishSubject) terminate(item Item) {
	ps.mu.Lock()
	if ps.closed || ps.terminal != nil {
		ps.mu.Unlock()
		return
	}
	ps.terminal = &item
	observers := ps.observers
	ps.observers = nil
	ps.mu.Unlock()

	for _, subscriber := range observers {
		item.Accept(subscriber)
	}
}

// terminalItem 返回保存的终止通知
func (ps *PublishSubject) terminalItem() (Item, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.terminal == nil {
		return Item{}, false
	}
	return *ps.terminal, true
}

// snapshot 发射前复制注册表，发射期间加入的订阅者收不到当前值
func (ps *PublishSubject) snapshot() []*Subscriber {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed || ps.terminal != nil {
		return nil
	}
	observers := make([]*Subscriber, len(ps.observers))
	copy(observers, ps.observers)
	return observers
}

// removeObserver 移除观察者
func (ps *PublishSubject) removeObserver(subscriber *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, observer := range ps.observers {
		if observer == subscriber {
			ps.observers = append(ps.observers[:i:i], ps.observers[i+1:]...)
			return
		}
	}
}

// ============================================================================
// ReplaySubject - 重放主题
// ============================================================================

// ReplaySubject 重放主题，新订阅者先收到缓冲的历史值
type ReplaySubject struct {
	*PublishSubject
	bufferMu   sync.Mutex
	bufferSize int
	buffer     []interface{}
	total      int
}

// NewReplaySubject 创建重放主题，bufferSize <= 0 表示不限容量
func NewReplaySubject(bufferSize int) *ReplaySubject {
	return &ReplaySubject{
		PublishSubject: NewPublishSubject(),
		bufferSize:     bufferSize,
	}
}

// Subscribe 先重放缓冲区，再注册或投递终止通知。
// 重放期间加入缓冲区的值在注册之前继续重放
func (rs *ReplaySubject) Subscribe(observer Observer) *Subscription {
	subscriber := toSubscriber(observer)

	next := 0
	for !subscriber.IsStopped() {
		replay, total := rs.replayFrom(next)
		if len(replay) == 0 {
			break
		}
		for _, value := range replay {
			subscriber.OnNext(value)
		}
		next = total
	}
	rs.register(subscriber)
	return subscriber.Subscription
}

// replayFrom 复制序号next之后仍在缓冲区中的值，并返回已缓存的总数
func (rs *ReplaySubject) replayFrom(next int) ([]interface{}, int) {
	rs.bufferMu.Lock()
	defer rs.bufferMu.Unlock()

	first := rs.total - len(rs.buffer)
	if next < first {
		next = first
	}
	replay := make([]interface{}, rs.total-next)
	copy(replay, rs.buffer[next-first:])
	return replay, rs.total
}

// Pipe 组合操作符
func (rs *ReplaySubject) Pipe(operators ...Operator) Observable {
	return Pipe(rs, operators...)
}

// OnNext 缓存值并发送给当前订阅者
func (rs *ReplaySubject) OnNext(value interface{}) {
	if rs.IsClosed() {
		return
	}

	rs.bufferMu.Lock()
	rs.buffer = append(rs.buffer, value)
	rs.total++
	if rs.bufferSize > 0 && len(rs.buffer) > rs.bufferSize {
		rs.buffer = rs.buffer[len(rs.buffer)-rs.bufferSize:]
	}
	rs.bufferMu.Unlock()

	rs.PublishSubject.OnNext(value)
}

// ============================================================================
// AsyncSubject - 完成时发射最后一个值
// ============================================================================

// AsyncSubject 只在完成时向所有订阅者发射最后一个值
type AsyncSubject struct {
	*PublishSubject
	valueMu  sync.Mutex
	hasValue bool
	last     interface{}
}

// NewAsyncSubject 创建AsyncSubject
func NewAsyncSubject() *AsyncSubject {
	return &AsyncSubject{PublishSubject: NewPublishSubject()}
}

// Subscribe 完成前只注册；完成后投递最后的值和完成信号
func (as *AsyncSubject) Subscribe(observer Observer) *Subscription {
	subscriber := toSubscriber(observer)

	if terminal, ok := as.terminalItem(); ok && terminal.IsComplete() {
		if value, hasValue := as.lastValue(); hasValue {
			subscriber.OnNext(value)
		}
	}
	as.register(subscriber)
	return subscriber.Subscription
}

// Pipe 组合操作符
func (as *AsyncSubject) Pipe(operators ...Operator) Observable {
	return Pipe(as, operators...)
}

// OnNext 只记录最新值
func (as *AsyncSubject) OnNext(value interface{}) {
	if as.IsClosed() {
		return
	}

	as.valueMu.Lock()
	as.last = value
	as.hasValue = true
	as.valueMu.Unlock()
}

// OnComplete 向快照发送最后的值，然后完成
func (as *AsyncSubject) OnComplete() {
	if as.IsClosed() {
		return
	}
	if value, ok := as.lastValue(); ok {
		as.PublishSubject.OnNext(value)
	}
	as.PublishSubject.OnComplete()
}

func (as *AsyncSubject) lastValue() (interface{}, bool) {
	as.valueMu.Lock()
	defer as.valueMu.Unlock()
	return as.last, as.hasValue
}

// ============================================================================
// BehaviorSubject - 行为主题
// ============================================================================

// BehaviorSubject 行为主题，保存当前值，新订阅者会立即收到当前值
type BehaviorSubject struct {
	*PublishSubject
	valueMu      sync.Mutex
	currentValue interface{}
}

// NewBehaviorSubject 创建新的行为主题
func NewBehaviorSubject(initialValue interface{}) *BehaviorSubject {
	return &BehaviorSubject{
		PublishSubject: NewPublishSubject(),
		currentValue:   initialValue,
	}
}

// Subscribe 未终止时先发送当前值再注册
func (bs *BehaviorSubject) Subscribe(observer Observer) *Subscription {
	subscriber := toSubscriber(observer)

	if !bs.IsClosed() {
		subscriber.OnNext(bs.Value())
	}
	bs.register(subscriber)
	return subscriber.Subscription
}

// Pipe 组合操作符
func (bs *BehaviorSubject) Pipe(operators ...Operator) Observable {
	return Pipe(bs, operators...)
}

// OnNext 更新当前值并发送
func (bs *BehaviorSubject) OnNext(value interface{}) {
	if bs.IsClosed() {
		return
	}

	bs.valueMu.Lock()
	bs.currentValue = value
	bs.valueMu.Unlock()

	bs.PublishSubject.OnNext(value)
}

// Value 返回当前值
func (bs *BehaviorSubject) Value() interface{} {
	bs.valueMu.Lock()
	defer bs.valueMu.Unlock()
	return bs.currentValue
}
