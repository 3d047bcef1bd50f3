package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It points at the logrus standard logger
// until InitLogger replaces it.
var Log = logrus.StandardLogger()

func InitLogger(debug bool) {
	Log = logrus.New()
	Log.Out = os.Stderr

	if debug {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// WithRequest returns an entry tagged with the request id and operation of a
// single transfer call.
func WithRequest(requestID, op string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"request_id": requestID,
		"op":         op,
	})
}
