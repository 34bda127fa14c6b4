package models

import (
	"time"
)

// Sample is a single reading recorded by a solar tracker.
type Sample struct {
	ID               uint64  `gorm:"primary_key;column:id" json:"id"`
	DeviceID         uint8   `gorm:"column:device_id;index:idx_solar_pending" json:"device_id"`
	TrackerID        uint8   `gorm:"column:tracker_id;index:idx_solar_pending" json:"tracker_id"`
	Timestamp        int64   `gorm:"column:timestamp;not null" json:"timestamp"`
	EnergyGeneration int64   `gorm:"column:energy_generation" json:"energy_generation"`
	PowerGeneration  int64   `gorm:"column:power_generation" json:"power_generation"`
	Temperature      float32 `gorm:"column:temperature" json:"temperature"`
	Voltage          float32 `gorm:"column:voltage" json:"voltage"`
	Uploaded         bool    `gorm:"column:uploaded;index:idx_solar_pending;not null;default:false" json:"uploaded"`
}

func (Sample) TableName() string {
	return "solar"
}

// Time returns the sample timestamp in UTC.
func (s Sample) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// IDs returns the ids of the given samples, preserving their order.
func IDs(samples []Sample) []uint64 {
	ids := make([]uint64, len(samples))
	for i, s := range samples {
		ids[i] = s.ID
	}
	return ids
}
