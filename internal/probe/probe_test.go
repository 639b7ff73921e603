package probe

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestBuiltinProbes(t *testing.T) {
	for _, p := range builtin {
		p := p
		t.Run(p.Name, func(t *testing.T) {
			result := p.Execute(quietLogger())
			require.Equal(t, p.Expected, result.Events)
			require.True(t, result.Passed())
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Run("unknown probe", func(t *testing.T) {
		_, err := Run("no-such-probe", quietLogger())
		require.ErrorIs(t, err, ErrUnknownProbe)
	})

	t.Run("names are sorted", func(t *testing.T) {
		names := Names()
		require.NotEmpty(t, names)
		for i := 1; i < len(names); i++ {
			require.Less(t, names[i-1], names[i])
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		if _, err := Lookup("test-mismatch"); err != nil {
			Register(Probe{
				Name:     "test-mismatch",
				Expected: []string{"never"},
				Run: func(recorder *Recorder) {
					recorder.Record("something else")
				},
			})
		}
		result, err := Run("test-mismatch", quietLogger())
		require.ErrorIs(t, err, ErrProbeMismatch)
		require.Equal(t, []string{"something else"}, result.Events)
		require.False(t, result.Passed())
	})

	t.Run("duplicate panics", func(t *testing.T) {
		require.Panics(t, func() {
			Register(Probe{Name: "zip"})
		})
	})
}

func TestRecorder(t *testing.T) {
	recorder := NewRecorder(quietLogger())
	observer := recorder.Observer("sub")
	observer.OnNext(1)
	observer.OnError(io.EOF)
	observer.OnComplete()
	recorder.Action("done")()

	require.Equal(t, []string{"sub: next 1", "sub: error EOF", "sub: complete", "done"}, recorder.Events())
}
