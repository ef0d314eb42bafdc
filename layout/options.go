package layout

import "github.com/sirupsen/logrus"

type Options struct {
	// QueueSize is the number of messages script can queue before sends
	// block.
	QueueSize int
	// Logger receives layout thread logs. Defaults to the logrus standard
	// logger.
	Logger logrus.FieldLogger
}

func DefaultOptions() Options {
	return Options{
		QueueSize: 16,
		Logger:    logrus.StandardLogger(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.QueueSize <= 0 {
		o.QueueSize = d.QueueSize
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}
