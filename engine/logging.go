package engine

import "github.com/sirupsen/logrus"

// stepHook stamps every log entry emitted by an Engine's logger with its
// current logical step, the Go analogue of the source's HadesFilter
// (hades/logging.py), which injects record.step from hades.t.
type stepHook struct {
	engine *Engine
}

func (h *stepHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *stepHook) Fire(entry *logrus.Entry) error {
	entry.Data["step"] = h.engine.T()
	return nil
}

// newEngineLogger builds a logger for e that is stamped with its step but
// still takes its level and output from the package-level logrus logger, so
// a CLI's --log flag (which calls logrus.SetLevel on that singleton) governs
// engine-internal logging too rather than being a no-op for it.
func newEngineLogger(e *Engine) *logrus.Logger {
	std := logrus.StandardLogger()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false})
	logger.SetLevel(std.GetLevel())
	logger.SetOutput(std.Out)
	logger.AddHook(&stepHook{engine: e})
	return logger
}
