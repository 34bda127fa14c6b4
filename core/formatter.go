package core

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Roysten/solar-push/models"
)

const (
	// Preamble selects version 2 of the batch status format and opens the
	// data parameter.
	Preamble = "c1=2&data="
	// Unused marks a field the remote service should ignore.
	Unused = "-1"

	dateLayout = "20060102"
	timeLayout = "15:04"
)

// Formatter renders samples as records of the batch status protocol.
type Formatter struct {
	location *time.Location
}

func NewFormatter(location *time.Location) *Formatter {
	if location == nil {
		location = defaultLocation()
	}
	return &Formatter{location: location}
}

// Record renders a single sample as date,time,-1,power,-1,-1,temperature,voltage;
// using the wall clock of the formatter's location. Energy generation is
// never sent.
func (f *Formatter) Record(sample models.Sample) string {
	local := sample.Time().In(f.location)
	fields := []string{
		local.Format(dateLayout),
		local.Format(timeLayout),
		Unused,
		strconv.FormatInt(sample.PowerGeneration, 10),
		Unused,
		Unused,
		formatFloat(sample.Temperature),
		formatFloat(sample.Voltage),
	}
	return strings.Join(fields, ",") + ";"
}

// Format renders a whole batch, records in the same order as samples.
func (f *Formatter) Format(samples []models.Sample) string {
	var b strings.Builder
	b.WriteString(Preamble)
	for _, sample := range samples {
		b.WriteString(f.Record(sample))
	}
	return b.String()
}

// shortest representation that reads back as the same float32, readings
// that are not finite are sent as unused
func formatFloat(v float32) string {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unused
	}
	return strconv.FormatFloat(f, 'f', -1, 32)
}
