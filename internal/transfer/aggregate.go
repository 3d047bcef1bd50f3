package transfer

import (
	"errors"
	"io"

	"github.com/jaywantadh/midasclient/pkg/envelope"
	"github.com/sirupsen/logrus"
)

// Aggregate folds an acknowledgement stream into one terminal envelope.
//
// The first failed frame is returned verbatim and nothing after it is read.
// If the stream ends without a failure the result is a synthesized success
// carrying code, with an empty message and data. Success messages only feed
// the log and the meter; the last one seen is kept for diagnostics.
func Aggregate(frames FrameSource, code int, log *logrus.Entry, meter *Meter) (envelope.Envelope[string], error) {
	var last string
	for {
		frame, err := frames.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.WithError(err).Error("error while receiving frame")
			return envelope.Envelope[string]{}, err
		}

		if frame.Failed() {
			log.WithFields(logrus.Fields{
				"code":    frame.Code,
				"message": frame.Message,
			}).Warn("service reported failure")
			return frame, nil
		}

		last = frame.Message
		log.Debug(frame.Message)
		if meter != nil {
			meter.Frame(frame.Message)
		}
	}

	if last != "" {
		log.WithField("last_message", last).Debug("acknowledgement stream complete")
	}
	return envelope.New(envelope.StatusSuccess, "", code, ""), nil
}
