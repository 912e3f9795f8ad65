package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"ghsearch/internal/eventbus"
)

// setupLogging sends logrus output to a file so the TUI keeps the terminal
func setupLogging(path, level string) (*os.File, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	logrus.SetOutput(f)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return f, nil
}

// logEvents records pipeline events in the log
func logEvents(bus eventbus.EventBus) {
	bus.Subscribe(eventbus.EventQueryChanged, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.QueryChangedEvent)
		logrus.WithFields(logrus.Fields{"query": ev.Query, "blank": ev.Blank}).Debug("query changed")
	})
	bus.Subscribe(eventbus.EventSearchStarted, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchStartedEvent)
		logrus.WithFields(logrus.Fields{"query": ev.Query, "seq": ev.Seq}).Debug("search started")
	})
	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchCompletedEvent)
		logrus.WithFields(logrus.Fields{"query": ev.Query, "seq": ev.Seq, "results": ev.ResultCount}).Info("search completed")
	})
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchFailedEvent)
		logrus.WithFields(logrus.Fields{"query": ev.Query, "seq": ev.Seq}).WithError(ev.Err).Warn("search failed")
	})
	bus.Subscribe(eventbus.EventSearchDiscarded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchDiscardedEvent)
		logrus.WithFields(logrus.Fields{"query": ev.Query, "seq": ev.Seq}).Debug("stale result discarded")
	})
	bus.Subscribe(eventbus.EventRepositoryOpened, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.RepositoryOpenedEvent)
		logrus.WithFields(logrus.Fields{"repo": ev.FullName, "url": ev.URL}).Info("opened repository")
	})
	bus.Subscribe(eventbus.EventThemeChanged, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.ThemeChangedEvent)
		logrus.WithField("dark", ev.Dark).Info("theme changed")
	})
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.ConfigLoadedEvent)
		logrus.WithField("path", ev.Path).Debug("config loaded")
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.ConfigSavedEvent)
		logrus.WithField("path", ev.Path).Info("config saved")
	})
}
