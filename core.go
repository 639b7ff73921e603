// Package rxcore provides the subscription and multicast engine for reactive streams
// 响应式流的订阅与多播执行引擎，专注于正确的拆卸顺序和终止语义
package rxcore

import (
	"sync/atomic"
	"time"
)

// ============================================================================
// 核心类型定义
// ============================================================================

// ItemKind 通知类型
type ItemKind int

const (
	// NextItem 数据通知
	NextItem ItemKind = iota
	// ErrorItem 错误通知
	ErrorItem
	// CompleteItem 完成通知
	CompleteItem
)

// String 返回通知类型名称
func (k ItemKind) String() string {
	switch k {
	case NextItem:
		return "next"
	case ErrorItem:
		return "error"
	case CompleteItem:
		return "complete"
	default:
		return "unknown"
	}
}

// Item 表示流中的一个通知，包含值、错误或完成信号
type Item struct {
	Kind  ItemKind
	Value interface{}
	Error error
}

// IsError 检查项目是否包含错误
func (item Item) IsError() bool {
	return item.Kind == ErrorItem
}

// IsComplete 检查项目是否为完成信号
func (item Item) IsComplete() bool {
	return item.Kind == CompleteItem
}

// Accept 将通知投递给观察者
func (item Item) Accept(observer Observer) {
	switch item.Kind {
	case NextItem:
		observer.OnNext(item.Value)
	case ErrorItem:
		observer.OnError(item.Error)
	case CompleteItem:
		observer.OnComplete()
	}
}

// CreateItem 创建包含值的项目
func CreateItem(value interface{}) Item {
	return Item{Kind: NextItem, Value: value}
}

// CreateErrorItem 创建包含错误的项目
func CreateErrorItem(err error) Item {
	return Item{Kind: ErrorItem, Error: err}
}

// CreateCompleteItem 创建完成信号
func CreateCompleteItem() Item {
	return Item{Kind: CompleteItem}
}

// ============================================================================
// 函数类型定义
// ============================================================================

// OnNext 处理下一个值的函数
type OnNext func(value interface{})

// OnError 处理错误的函数
type OnError func(err error)

// OnComplete 处理完成的函数
type OnComplete func()

// Predicate 谓词函数，用于过滤
type Predicate func(value interface{}) bool

// Transformer 转换函数，用于映射
type Transformer func(value interface{}) (interface{}, error)

// ============================================================================
// 观察者
// ============================================================================

// Observer 观察者接口
type Observer interface {
	OnNext(value interface{})
	OnError(err error)
	OnComplete()
}

// Callbacks 回调集合，未设置的回调视为空操作
type Callbacks struct {
	Next     OnNext
	Error    OnError
	Complete OnComplete
}

// OnNext 实现Observer
func (c Callbacks) OnNext(value interface{}) {
	if c.Next != nil {
		c.Next(value)
	}
}

// OnError 实现Observer
func (c Callbacks) OnError(err error) {
	if c.Error != nil {
		c.Error(err)
	}
}

// OnComplete 实现Observer
func (c Callbacks) OnComplete() {
	if c.Complete != nil {
		c.Complete()
	}
}

// ObserverFunc 以单个函数接收所有通知的观察者
type ObserverFunc func(item Item)

// OnNext 实现Observer
func (f ObserverFunc) OnNext(value interface{}) { f(CreateItem(value)) }

// OnError 实现Observer
func (f ObserverFunc) OnError(err error) { f(CreateErrorItem(err)) }

// OnComplete 实现Observer
func (f ObserverFunc) OnComplete() { f(CreateCompleteItem()) }

// ============================================================================
// 生命周期管理
// ============================================================================

// Teardown 可拆卸单元：清理动作或嵌套订阅，最多执行一次
type Teardown interface {
	Unsubscribe()
}

// Disposable 可释放资源的接口，调度器用它作为取消句柄
type Disposable interface {
	// Dispose 释放资源
	Dispose()
	// IsDisposed 检查是否已释放
	IsDisposed() bool
}

// baseDisposable 基础可释放资源实现
type baseDisposable struct {
	disposed int32
	action   func()
}

// NewBaseDisposable 创建基础可释放资源
func NewBaseDisposable(action func()) Disposable {
	return &baseDisposable{
		action: action,
	}
}

// Dispose 释放资源
func (d *baseDisposable) Dispose() {
	if atomic.CompareAndSwapInt32(&d.disposed, 0, 1) {
		if d.action != nil {
			d.action()
		}
	}
}

// IsDisposed 检查是否已释放
func (d *baseDisposable) IsDisposed() bool {
	return atomic.LoadInt32(&d.disposed) == 1
}

// Unsubscribe 使Disposable可以作为Teardown加入订阅
func (d *baseDisposable) Unsubscribe() {
	d.Dispose()
}

// ============================================================================
// 调度器接口
// ============================================================================

// Scheduler 调度器接口，控制任务执行时机
type Scheduler interface {
	// Now 返回调度器的当前时间
	Now() time.Time
	// Schedule 尽快调度一个任务
	Schedule(action func()) Disposable
	// ScheduleWithDelay 延迟调度一个任务，Dispose之后任务不会再被执行
	ScheduleWithDelay(action func(), delay time.Duration) Disposable
}
