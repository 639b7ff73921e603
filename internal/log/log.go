package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const TagField = "probe"

func init() {
	logrus.AddHook(new(TaggedHook))
}

// Setup configures the standard logger for command line use.
func Setup(level string, json bool) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(parsed)
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}
	return nil
}

func NewLogger(tag string) *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger()).WithField(TagField, tag)
}

// TaggedHook moves the tag into the message prefix for text output.
// JSON output keeps it as a field.
type TaggedHook struct{}

func (h *TaggedHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *TaggedHook) Fire(entry *logrus.Entry) error {
	if _, isJSON := entry.Logger.Formatter.(*logrus.JSONFormatter); isJSON {
		return nil
	}
	if tagObj, loaded := entry.Data[TagField]; loaded {
		tag, ok := tagObj.(string)
		if !ok {
			return nil
		}
		delete(entry.Data, TagField)
		entry.Message = strings.ReplaceAll(entry.Message, tag+": ", "")
		entry.Message = "[" + tag + "]: " + entry.Message
	}
	return nil
}
