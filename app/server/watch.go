package server

import (
	"github.com/forki/fs-swim/pkg/util/config"
	"github.com/forki/fs-swim/pkg/util/mlog"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// watchConfig follows the configuration file and re-applies the log
// level when it changes. Only the log level is picked up at runtime;
// protocol timings stay fixed for the lifetime of the server.
func watchConfig(path string) {
	ctxLogger := mlog.GetFunctionLogger(logger, "watchConfig")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		ctxLogger.Error(errors.Wrap(err, "failed to create config watcher"))
		return
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		ctxLogger.Error(errors.Wrapf(err, "failed to watch config file %s", path))
		return
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Write == 0 {
				continue
			}

			if err := config.Load(path); err != nil {
				ctxLogger.Error(err)
				continue
			}

			level := config.Get("log.level")
			if level == "" {
				continue
			}
			if err := mlog.SetLevel(level); err != nil {
				ctxLogger.Error(errors.Wrapf(err, "invalid log level %s", level))
				continue
			}
			ctxLogger.WithField("level", level).Info("applied new log level")

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			ctxLogger.Error(err)
		}
	}
}
