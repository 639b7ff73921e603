package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	}()

	t.Run("invalid level", func(t *testing.T) {
		require.Error(t, Setup("loud", false))
	})

	t.Run("text tag prefix", func(t *testing.T) {
		var buffer bytes.Buffer
		require.NoError(t, Setup("debug", false))
		logrus.SetOutput(&buffer)
		NewLogger("zip").Info("zip: next 1")
		require.Contains(t, buffer.String(), "[zip]: next 1")
		require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	})

	t.Run("json keeps field", func(t *testing.T) {
		var buffer bytes.Buffer
		require.NoError(t, Setup("info", true))
		logrus.SetOutput(&buffer)
		NewLogger("delay").Info("ok")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
		require.Equal(t, "delay", entry[TagField])
		require.Equal(t, "ok", entry["msg"])
	})
}
