package core

import (
	"fmt"
	"time"
)

const (
	DefaultEndpoint  = "https://pvoutput.org/service/r2/addbatchstatus.jsp"
	DefaultBatchSize = 30
	DefaultTimeout   = 30
	MaxBatchSize     = 100
)

// Remote describes the batch status service samples are delivered to.
type Remote struct {
	Endpoint      string `yaml:"endpoint"`
	TimeoutSecs   int    `yaml:"timeout"`
	BatchSize     int    `yaml:"batch_size"`
	CommitOnError bool   `yaml:"commit_on_error"`
}

func (r *Remote) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

func (r *Remote) Compile() error {
	if r.Endpoint == "" {
		return fmt.Errorf("remote endpoint can not be empty")
	} else if r.BatchSize < 1 || r.BatchSize > MaxBatchSize {
		return fmt.Errorf("remote batch_size must be between 1 and %d, got %d", MaxBatchSize, r.BatchSize)
	} else if r.TimeoutSecs < 0 {
		return fmt.Errorf("remote timeout can not be negative")
	}
	return nil
}
