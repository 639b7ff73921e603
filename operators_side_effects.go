// Side effect operators for rxcore
// 副作用操作符：Finalize, Tap, Log
package rxcore

import "github.com/sirupsen/logrus"

// Finalize 订阅关闭时执行action，无论原因是完成、错误还是外部取消。
// action在上游清理之前执行；上游自行关闭时会从下游移除
func Finalize(action func()) Operator {
	return func(source Observable) Observable {
		return NewObservable(func(downstream *Subscriber) {
			upstream := downstream.child(downstream)
			upstream.AddFunc(action)
			source.Subscribe(upstream)
		})
	}
}

// Tap 在转发之前把每个通知交给observer
func Tap(observer Observer) Operator {
	if observer == nil {
		observer = Callbacks{}
	}
	return func(source Observable) Observable {
		return lift(source, func(downstream *Subscriber) Observer {
			return Callbacks{
				Next: func(value interface{}) {
					observer.OnNext(value)
					downstream.OnNext(value)
				},
				Error: func(err error) {
					observer.OnError(err)
					downstream.OnError(err)
				},
				Complete: func() {
					observer.OnComplete()
					downstream.OnComplete()
				},
			}
		})
	}
}

// DoOnNext 每个值的副作用
func DoOnNext(action OnNext) Operator {
	return Tap(Callbacks{Next: action})
}

// Log 日志操作符，记录所有通知以及取消订阅
func Log(logger logrus.FieldLogger, name string) Operator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithField("stream", name)

	return func(source Observable) Observable {
		return NewObservable(func(downstream *Subscriber) {
			upstream := downstream.child(Callbacks{
				Next: func(value interface{}) {
					entry.WithField("value", value).Info("next")
					downstream.OnNext(value)
				},
				Error: func(err error) {
					entry.WithError(err).Info("error")
					downstream.OnError(err)
				},
				Complete: func() {
					entry.Info("complete")
					downstream.OnComplete()
				},
			})
			upstream.AddFunc(func() {
				entry.Debug("unsubscribe")
			})
			source.Subscribe(upstream)
		})
	}
}
