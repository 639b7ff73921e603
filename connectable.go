// ConnectableObservable implementation for rxcore
// 可连接的Observable：通过共享的连接器主题多播，显式连接后才订阅源
package rxcore

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// 配置选项
// ============================================================================

// ConnectableConfig 可连接Observable的配置
type ConnectableConfig struct {
	// Connector 连接器工厂，每次需要新连接器时调用
	Connector func() Subject
	// ResetOnDisconnect 连接关闭后丢弃连接器，包括源终止引起的关闭
	ResetOnDisconnect bool
	// ResetOnComplete 源完成后丢弃连接器
	ResetOnComplete bool
	// ResetOnError 源出错后丢弃连接器
	ResetOnError bool
	// RefCount 统计订阅者数量，归零时断开连接
	RefCount bool
}

// ConnectableOption 配置选项接口
type ConnectableOption interface {
	Apply(config *ConnectableConfig)
}

type connectableOptionFunc func(config *ConnectableConfig)

// Apply 应用选项
func (f connectableOptionFunc) Apply(config *ConnectableConfig) {
	f(config)
}

// WithConnector 指定连接器工厂
func WithConnector(factory func() Subject) ConnectableOption {
	return connectableOptionFunc(func(config *ConnectableConfig) {
		config.Connector = factory
	})
}

// WithResetOnDisconnect 连接关闭时重置连接器
func WithResetOnDisconnect(reset bool) ConnectableOption {
	return connectableOptionFunc(func(config *ConnectableConfig) {
		config.ResetOnDisconnect = reset
	})
}

// WithResetOnComplete 源完成时重置连接器
func WithResetOnComplete(reset bool) ConnectableOption {
	return connectableOptionFunc(func(config *ConnectableConfig) {
		config.ResetOnComplete = reset
	})
}

// WithResetOnError 源出错时重置连接器
func WithResetOnError(reset bool) ConnectableOption {
	return connectableOptionFunc(func(config *ConnectableConfig) {
		config.ResetOnError = reset
	})
}

// WithRefCount 订阅者数量归零时自动断开连接
func WithRefCount(enabled bool) ConnectableOption {
	return connectableOptionFunc(func(config *ConnectableConfig) {
		config.RefCount = enabled
	})
}

// DefaultConnectableConfig 默认配置：PublishSubject连接器，不重置
func DefaultConnectableConfig() *ConnectableConfig {
	return &ConnectableConfig{
		Connector: func() Subject { return NewPublishSubject() },
	}
}

// ============================================================================
// ConnectableObservable 实现
// ============================================================================

// ConnectableObservable 可连接的Observable
type ConnectableObservable struct {
	source     Observable
	config     *ConnectableConfig
	mu         sync.Mutex
	connector  Subject
	connection *connection
	refCount   int
}

// NewConnectable 创建新的ConnectableObservable
func NewConnectable(source Observable, options ...ConnectableOption) *ConnectableObservable {
	config := DefaultConnectableConfig()
	for _, opt := range options {
		opt.Apply(config)
	}
	if config.Connector == nil {
		config.Connector = DefaultConnectableConfig().Connector
	}

	return &ConnectableObservable{
		source: source,
		config: config,
	}
}

// Publish 使用PublishSubject连接器，断开后重置
func Publish(source Observable) *ConnectableObservable {
	return NewConnectable(source, WithResetOnDisconnect(true))
}

// Replay 使用ReplaySubject连接器，断开后保留历史
func Replay(source Observable, bufferSize int) *ConnectableObservable {
	return NewConnectable(source, WithConnector(func() Subject {
		return NewReplaySubject(bufferSize)
	}))
}

// Subscribe 订阅当前的连接器；除非开启了RefCount，下游取消订阅不会断开连接
func (co *ConnectableObservable) Subscribe(observer Observer) *Subscription {
	co.mu.Lock()
	connector := co.connectorLocked()
	counted := co.config.RefCount
	co.mu.Unlock()

	subscription := connector.Subscribe(observer)
	if counted && !subscription.IsClosed() {
		co.mu.Lock()
		co.refCount++
		co.mu.Unlock()
		subscription.AddFunc(co.release)
	}
	return subscription
}

// Pipe 组合操作符
func (co *ConnectableObservable) Pipe(operators ...Operator) Observable {
	return Pipe(co, operators...)
}

// Connect 开始把源的通知转发给连接器；已连接时返回现有连接
func (co *ConnectableObservable) Connect() *Subscription {
	co.mu.Lock()
	if co.connection != nil && !co.connection.subscriber.IsClosed() {
		existing := co.connection.subscriber.Subscription
		co.mu.Unlock()
		return existing
	}

	conn := &connection{connector: co.connectorLocked()}
	conn.subscriber = NewSubscriber(conn)
	co.connection = conn
	co.mu.Unlock()

	conn.subscriber.AddFunc(func() {
		co.disconnected(conn)
	})
	co.source.Subscribe(conn.subscriber)
	return conn.subscriber.Subscription
}

// Disconnect 断开当前连接，没有活跃连接时返回false
func (co *ConnectableObservable) Disconnect() bool {
	co.mu.Lock()
	conn := co.connection
	co.mu.Unlock()

	if conn == nil || conn.subscriber.IsClosed() {
		return false
	}
	conn.subscriber.Unsubscribe()
	return true
}

// IsConnected 检查是否已连接
func (co *ConnectableObservable) IsConnected() bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.connection != nil && !co.connection.subscriber.IsClosed()
}

// Reset 断开连接并丢弃连接器，下次订阅或连接会创建新的连接器
func (co *ConnectableObservable) Reset() {
	co.Disconnect()

	co.mu.Lock()
	co.connector = nil
	co.mu.Unlock()
}

// RefCount 开启引用计数并返回自动连接的Observable：
// 没有活跃连接时订阅会触发连接，最后一个订阅者离开时断开
func (co *ConnectableObservable) RefCount() Observable {
	co.mu.Lock()
	co.config.RefCount = true
	co.mu.Unlock()

	return NewObservable(func(subscriber *Subscriber) {
		co.Subscribe(subscriber)
		if !subscriber.IsClosed() && !co.IsConnected() {
			co.Connect()
		}
	})
}

// AutoConnect 当订阅者数量达到subscriberCount时自动连接一次
func (co *ConnectableObservable) AutoConnect(subscriberCount int) Observable {
	if subscriberCount < 1 {
		subscriberCount = 1
	}
	var count int32

	return NewObservable(func(subscriber *Subscriber) {
		co.Subscribe(subscriber)
		if atomic.AddInt32(&count, 1) == int32(subscriberCount) {
			co.Connect()
		}
	})
}

// connectorLocked 返回缓存的连接器，没有则创建；调用方持有mu
func (co *ConnectableObservable) connectorLocked() Subject {
	if co.connector == nil {
		co.connector = co.config.Connector()
	}
	return co.connector
}

// release 引用计数归零时断开连接
func (co *ConnectableObservable) release() {
	co.mu.Lock()
	co.refCount--
	last := co.refCount == 0
	co.mu.Unlock()

	if last {
		co.Disconnect()
	}
}

// disconnected 连接关闭时清理缓存；ResetOnDisconnect对任何原因的关闭都生效，
// 完成和错误另外按各自的选项重置
func (co *ConnectableObservable) disconnected(conn *connection) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.connection == conn {
		co.connection = nil
	}

	reset := co.config.ResetOnDisconnect ||
		(conn.terminal.IsComplete() && co.config.ResetOnComplete) ||
		(conn.terminal.IsError() && co.config.ResetOnError)
	if reset && co.connector == conn.connector {
		co.connector = nil
	}
}

// ============================================================================
// 连接
// ============================================================================

// connection 把源的通知转发给连接器，并记录源的终止通知；
// 外部断开时terminal保持零值
type connection struct {
	connector  Subject
	subscriber *Subscriber
	terminal   Item
}

func (c *connection) OnNext(value interface{}) {
	c.connector.OnNext(value)
}

func (c *connection) OnError(err error) {
	c.finish(CreateErrorItem(err))
}

func (c *connection) OnComplete() {
	c.finish(CreateCompleteItem())
}

func (c *connection) finish(item Item) {
	c.terminal = item
	item.Accept(c.connector)
}

// ============================================================================
// Share
// ============================================================================

// Share 多播源并在订阅者归零时断开，所有重置选项都开启
func Share() Operator {
	return func(source Observable) Observable {
		return NewConnectable(source,
			WithResetOnDisconnect(true),
			WithResetOnComplete(true),
			WithResetOnError(true),
			WithRefCount(true),
		).RefCount()
	}
}
