package probe

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/xinjiayu/rxcore"
)

// Recorder collects the notification log of a probe run.
type Recorder struct {
	access sync.Mutex
	events []string
	logger logrus.FieldLogger
}

func NewRecorder(logger logrus.FieldLogger) *Recorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recorder{logger: logger}
}

func (r *Recorder) Logger() logrus.FieldLogger {
	return r.logger
}

func (r *Recorder) Record(format string, args ...interface{}) {
	event := fmt.Sprintf(format, args...)
	r.access.Lock()
	r.events = append(r.events, event)
	r.access.Unlock()
	r.logger.Debug(event)
}

// Action returns a callback recording event, for finalize and teardown hooks.
func (r *Recorder) Action(event string) func() {
	return func() {
		r.Record("%s", event)
	}
}

// Observer records every notification as "<name>: <kind> [value]".
func (r *Recorder) Observer(name string) rxcore.Observer {
	return rxcore.Callbacks{
		Next: func(value interface{}) {
			r.Record("%s: next %v", name, value)
		},
		Error: func(err error) {
			r.Record("%s: error %v", name, err)
		},
		Complete: func() {
			r.Record("%s: complete", name)
		},
	}
}

func (r *Recorder) Events() []string {
	r.access.Lock()
	defer r.access.Unlock()
	events := make([]string, len(r.events))
	copy(events, r.events)
	return events
}
