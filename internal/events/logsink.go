package events

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LogSink writes every event as a structured log entry. Pending progress
// is logged at debug level, outcomes at info (not found) and warn (failure).
type LogSink struct {
	log logrus.FieldLogger
}

// NewLogSink returns a Sink backed by log.
func NewLogSink(log logrus.FieldLogger) *LogSink {
	return &LogSink{log: log}
}

func (l *LogSink) Init(e InitEvent) {
	l.log.WithField("sources", strings.Join(e.SourceIDs, ",")).Info("resolving")
}

func (l *LogSink) Start(id string) {
	l.log.WithField("attempt", id).Debug("attempt started")
}

func (l *LogSink) Update(e UpdateEvent) {
	entry := l.log.WithFields(logrus.Fields{
		"attempt":    e.ID,
		"status":     string(e.Status),
		"percentage": e.Percentage,
	})
	switch e.Status {
	case NotFound:
		entry.WithField("reason", e.Reason).Info("attempt found nothing")
	case Failure:
		entry.WithError(e.Error).Warn("attempt failed")
	default:
		entry.Debug("attempt progress")
	}
}

func (l *LogSink) DiscoverEmbeds(e DiscoverEmbedsEvent) {
	ids := make([]string, len(e.Embeds))
	for i, em := range e.Embeds {
		ids[i] = em.ID + "=" + em.EmbedScraperID
	}
	l.log.WithFields(logrus.Fields{
		"source": e.SourceID,
		"embeds": strings.Join(ids, ","),
	}).Info("embeds discovered")
}
