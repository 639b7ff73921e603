package probe

import (
	"errors"
	"fmt"
	"time"

	"github.com/xinjiayu/rxcore"
)

func init() {
	for _, probe := range builtin {
		Register(probe)
	}
}

var builtin = []Probe{
	{
		Name:        "finalize-complete",
		Description: "complete reaches the observer before finalize runs",
		Expected:    []string{"sub: next 1", "sub: complete", "finalize"},
		Run: func(recorder *Recorder) {
			rxcore.Just(1).
				Pipe(rxcore.Finalize(recorder.Action("finalize"))).
				Subscribe(recorder.Observer("sub"))
		},
	},
	{
		Name:        "finalize-unsubscribe",
		Description: "external unsubscribe runs finalize without a complete callback",
		Expected:    []string{"sub: next 1", "finalize"},
		Run: func(recorder *Recorder) {
			source := rxcore.NewPublishSubject()
			subscription := source.
				Pipe(rxcore.Finalize(recorder.Action("finalize"))).
				Subscribe(recorder.Observer("sub"))
			source.OnNext(1)
			subscription.Unsubscribe()
			source.OnComplete()
		},
	},
	{
		Name:        "finalize-chain",
		Description: "chained finalizers unwind downstream first",
		Expected:    []string{"sub: next 1", "sub: complete", "finalize B", "finalize A"},
		Run: func(recorder *Recorder) {
			rxcore.Just(1).
				Pipe(
					rxcore.Finalize(recorder.Action("finalize A")),
					rxcore.Finalize(recorder.Action("finalize B")),
				).
				Subscribe(recorder.Observer("sub"))
		},
	},
	{
		Name:        "switchmap",
		Description: "a new outer value cancels the active inner, outer complete waits for the inner",
		Expected: []string{
			"sub: next a",
			"inner 0 finalize",
			"sub: next b",
			"sub: complete",
			"inner 1 finalize",
		},
		Run: func(recorder *Recorder) {
			outer := rxcore.NewPublishSubject()
			inners := []*rxcore.PublishSubject{rxcore.NewPublishSubject(), rxcore.NewPublishSubject()}
			outer.
				Pipe(rxcore.SwitchMap(func(value interface{}) rxcore.Observable {
					index := value.(int)
					return inners[index].Pipe(rxcore.Finalize(recorder.Action(fmt.Sprintf("inner %d finalize", index))))
				})).
				Subscribe(recorder.Observer("sub"))

			outer.OnNext(0)
			inners[0].OnNext("a")
			outer.OnNext(1)
			inners[0].OnNext("stale")
			inners[1].OnNext("b")
			outer.OnComplete()
			inners[1].OnComplete()
		},
	},
	{
		Name:        "zip",
		Description: "zip completes once a completed source has nothing left to pair",
		Expected:    []string{"sub: next [1 10]", "sub: next [2 20]", "sub: complete"},
		Run: func(recorder *Recorder) {
			rxcore.Zip(
				rxcore.Just(1, 2, 3),
				rxcore.Just(10, 20),
			).
				Pipe(rxcore.Log(recorder.Logger(), "zip")).
				Subscribe(recorder.Observer("sub"))
		},
	},
	{
		Name:        "combinelatest",
		Description: "combineLatest emits once every source has a value",
		Expected: []string{
			"sub: next [1 x]",
			"sub: next [2 x]",
			"sub: next [2 y]",
			"sub: complete",
		},
		Run: func(recorder *Recorder) {
			left := rxcore.NewPublishSubject()
			right := rxcore.NewPublishSubject()
			rxcore.CombineLatest(left, right).Subscribe(recorder.Observer("sub"))

			left.OnNext(1)
			right.OnNext("x")
			left.OnNext(2)
			left.OnComplete()
			right.OnNext("y")
			right.OnComplete()
		},
	},
	{
		Name:        "connectable-replay",
		Description: "late subscribers of a replay connectable get the buffer then the terminal",
		Expected: []string{
			"early: next 1",
			"early: next 2",
			"early: next 3",
			"early: complete",
			"late: next 2",
			"late: next 3",
			"late: complete",
		},
		Run: func(recorder *Recorder) {
			connectable := rxcore.Replay(rxcore.Just(1, 2, 3), 2)
			connectable.Subscribe(recorder.Observer("early"))
			connectable.Connect()
			connectable.Subscribe(recorder.Observer("late"))
		},
	},
	{
		Name:        "connectable-reset",
		Description: "disconnecting a published connectable drops its connector",
		Expected:    []string{"a: next 1", "disconnect", "b: next 2"},
		Run: func(recorder *Recorder) {
			source := rxcore.NewPublishSubject()
			connectable := rxcore.Publish(source)
			connectable.Subscribe(recorder.Observer("a"))
			connection := connectable.Connect()
			source.OnNext(1)
			connection.Unsubscribe()
			recorder.Record("disconnect")

			connectable.Subscribe(recorder.Observer("b"))
			connectable.Connect()
			source.OnNext(2)
		},
	},
	{
		Name:        "connectable-complete",
		Description: "reset on disconnect also drops the connector after the source completes",
		Expected: []string{
			"a: next 1",
			"a: complete",
			"connected false",
			"late: next 1",
			"late: complete",
		},
		Run: func(recorder *Recorder) {
			connectable := rxcore.Publish(rxcore.Just(1))
			connectable.Subscribe(recorder.Observer("a"))
			connectable.Connect()
			recorder.Record("connected %t", connectable.IsConnected())
			connectable.Subscribe(recorder.Observer("late"))
			connectable.Connect()
		},
	},
	{
		Name:        "share",
		Description: "share connects on the first subscriber and disconnects after the last",
		Expected: []string{
			"a: next 0",
			"a: next 1",
			"b: next 1",
			"source finalize",
			"pending 0",
		},
		Run: func(recorder *Recorder) {
			scheduler := rxcore.NewVirtualTimeScheduler()
			shared := rxcore.Interval(10*time.Millisecond, scheduler).
				Pipe(
					rxcore.Finalize(recorder.Action("source finalize")),
					rxcore.Share(),
				)

			a := shared.Subscribe(recorder.Observer("a"))
			scheduler.AdvanceBy(10 * time.Millisecond)
			b := shared.Subscribe(recorder.Observer("b"))
			scheduler.AdvanceBy(10 * time.Millisecond)
			a.Unsubscribe()
			b.Unsubscribe()
			recorder.Record("pending %d", scheduler.PendingCount())
		},
	},
	{
		Name:        "delay",
		Description: "every notification is delayed, completion included",
		Expected:    []string{"advance 5ms", "sub: next 1", "sub: next 2", "sub: complete"},
		Run: func(recorder *Recorder) {
			scheduler := rxcore.NewVirtualTimeScheduler()
			rxcore.Just(1, 2).
				Pipe(rxcore.Delay(10*time.Millisecond, scheduler)).
				Subscribe(recorder.Observer("sub"))

			scheduler.AdvanceBy(5 * time.Millisecond)
			recorder.Record("advance 5ms")
			scheduler.AdvanceBy(5 * time.Millisecond)
		},
	},
	{
		Name:        "delay-cancel",
		Description: "unsubscribing cancels delayed notifications that have not fired",
		Expected:    []string{"pending 0"},
		Run: func(recorder *Recorder) {
			scheduler := rxcore.NewVirtualTimeScheduler()
			source := rxcore.NewPublishSubject()
			subscription := source.
				Pipe(rxcore.Delay(10*time.Millisecond, scheduler)).
				Subscribe(recorder.Observer("sub"))

			source.OnNext(1)
			scheduler.AdvanceBy(5 * time.Millisecond)
			source.OnNext(2)
			subscription.Unsubscribe()
			recorder.Record("pending %d", scheduler.PendingCount())
			scheduler.AdvanceBy(20 * time.Millisecond)
		},
	},
	{
		Name:        "subject-error",
		Description: "subscribers after an error only receive the stored error",
		Expected:    []string{"a: error boom", "b: error boom"},
		Run: func(recorder *Recorder) {
			subject := rxcore.NewPublishSubject()
			subject.Subscribe(recorder.Observer("a"))
			subject.OnError(errors.New("boom"))
			subject.OnNext(1)
			subject.Subscribe(recorder.Observer("b"))
		},
	},
	{
		Name:        "subject-snapshot",
		Description: "a subscriber added during emission misses the in-flight value",
		Expected:    []string{"a: next 1", "a: next 2", "b: next 2"},
		Run: func(recorder *Recorder) {
			subject := rxcore.NewPublishSubject()
			a := recorder.Observer("a")
			subject.Subscribe(rxcore.Callbacks{
				Next: func(value interface{}) {
					a.OnNext(value)
					if value == 1 {
						subject.Subscribe(recorder.Observer("b"))
					}
				},
			})
			subject.OnNext(1)
			subject.OnNext(2)
		},
	},
	{
		Name:        "async-subject",
		Description: "async subject emits only the last value on completion",
		Expected:    []string{"early: next 2", "early: complete", "late: next 2", "late: complete"},
		Run: func(recorder *Recorder) {
			subject := rxcore.NewAsyncSubject()
			subject.Subscribe(recorder.Observer("early"))
			subject.OnNext(1)
			subject.OnNext(2)
			subject.OnComplete()
			subject.Subscribe(recorder.Observer("late"))
		},
	},
}
