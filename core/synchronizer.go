package core

import (
	"context"
	"fmt"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/teris-io/shortid"

	"github.com/Roysten/solar-push/models"
)

// SampleStore is the subset of the store the synchronizer needs.
type SampleStore interface {
	SelectPending(deviceID, trackerID uint8, limit int) ([]models.Sample, error)
	MarkUploaded(ids []uint64) error
}

// Synchronizer drains the pending samples of every configured tracker, one
// batch at a time, in the configured tracker order.
type Synchronizer struct {
	conf      *Config
	store     SampleStore
	uploader  Uploader
	formatter *Formatter
	metrics   *Metrics
	runID     string
}

func NewSynchronizer(conf *Config, store SampleStore, uploader Uploader, metrics *Metrics) *Synchronizer {
	return &Synchronizer{
		conf:      conf,
		store:     store,
		uploader:  uploader,
		formatter: NewFormatter(conf.Location()),
		metrics:   metrics,
	}
}

func (s *Synchronizer) debug(format string, args ...interface{}) {
	log.Debug("[%s] %s", s.runID, fmt.Sprintf(format, args...))
}

func (s *Synchronizer) info(format string, args ...interface{}) {
	log.Info("[%s] %s", s.runID, fmt.Sprintf(format, args...))
}

func (s *Synchronizer) warning(format string, args ...interface{}) {
	log.Warning("[%s] %s", s.runID, fmt.Sprintf(format, args...))
}

// Run processes every tracker until nothing is pending. The first error stops
// the run, samples that were not committed stay pending for the next one.
func (s *Synchronizer) Run(ctx context.Context) (err error) {
	if s.runID, err = shortid.Generate(); err != nil {
		return fmt.Errorf("error generating run id: %w", err)
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveRun(time.Now(), err)
	}()

	total := 0
	for _, tracker := range s.conf.Trackers {
		uploaded, err := s.drain(ctx, tracker)
		total += uploaded
		if err != nil {
			return err
		}
	}

	s.info("%d samples of %d trackers uploaded in %s", total, len(s.conf.Trackers), time.Since(started))

	return nil
}

func (s *Synchronizer) drain(ctx context.Context, tracker *Tracker) (int, error) {
	uploaded := 0
	lastID := uint64(0)

	for {
		if err := ctx.Err(); err != nil {
			return uploaded, err
		}

		samples, err := s.store.SelectPending(tracker.DeviceID, tracker.TrackerID, s.conf.Remote.BatchSize)
		if err != nil {
			return uploaded, err
		} else if len(samples) == 0 {
			if uploaded > 0 {
				s.info("tracker %s: %d samples uploaded", tracker, uploaded)
			} else {
				s.debug("tracker %s: nothing to upload", tracker)
			}
			return uploaded, nil
		}

		if samples[0].ID <= lastID {
			return uploaded, &StorageError{
				Op:  fmt.Sprintf("draining tracker %s", tracker),
				Err: fmt.Errorf("sample %d was selected again after being committed", samples[0].ID),
			}
		}

		if err = s.deliver(ctx, tracker, samples); err != nil {
			return uploaded, err
		}

		ids := models.IDs(samples)
		if err = s.store.MarkUploaded(ids); err != nil {
			return uploaded, err
		}

		s.metrics.ObserveCommit(tracker.SystemID, len(ids))
		uploaded += len(ids)
		lastID = ids[len(ids)-1]
	}
}

func (s *Synchronizer) deliver(ctx context.Context, tracker *Tracker, samples []models.Sample) error {
	payload := s.formatter.Format(samples)

	s.debug("tracker %s: sending samples %d..%d (%d)", tracker, samples[0].ID, samples[len(samples)-1].ID, len(samples))

	started := time.Now()
	status, err := s.uploader.Send(ctx, payload, tracker.SystemID, s.conf.APIKey)
	s.metrics.ObserveUpload(tracker.SystemID, status, time.Since(started))
	if err != nil {
		return err
	}

	if isSuccess(status) {
		s.info("tracker %s: %d samples sent, HTTP %d", tracker, len(samples), status)
	} else if s.conf.Remote.CommitOnError {
		s.warning("tracker %s: HTTP %d, committing %d samples anyway", tracker, status, len(samples))
	} else {
		return &StatusError{SystemID: tracker.SystemID, Status: status}
	}

	return nil
}
