package core

import (
	"fmt"
	"strings"
)

// Tracker maps a device_id/tracker_id pair of the store to a remote system.
type Tracker struct {
	DeviceID  uint8  `yaml:"device_id"`
	TrackerID uint8  `yaml:"tracker_id"`
	SystemID  string `yaml:"system_id"`
}

func (t *Tracker) String() string {
	return fmt.Sprintf("%d/%d (system %s)", t.DeviceID, t.TrackerID, t.SystemID)
}

func (t *Tracker) Compile() error {
	if t.SystemID = strings.TrimSpace(t.SystemID); t.SystemID == "" {
		return fmt.Errorf("tracker %d/%d has no system_id", t.DeviceID, t.TrackerID)
	}
	return checkHeaderValue("system id", t.SystemID)
}

func defaultTrackers() []*Tracker {
	return []*Tracker{
		{DeviceID: 2, TrackerID: 1, SystemID: "92309"},
		{DeviceID: 2, TrackerID: 2, SystemID: "92748"},
		{DeviceID: 3, TrackerID: 1, SystemID: "92869"},
	}
}
