package workout

import (
	"math"
	"strconv"
	"strings"
	"time"

	"backend-mapty/internal/shared/geo"
)

type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

func (k Kind) Valid() bool {
	return k == KindRunning || k == KindCycling
}

// Glyph is the icon shown next to the kind on the map and in the list.
func (k Kind) Glyph() string {
	if k == KindRunning {
		return "🏃‍♂️"
	}
	return "🚴"
}

func (k Kind) title() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Running holds the running-only fields.
type Running struct {
	CadenceSpm   int     `json:"cadence_spm"`
	PaceMinPerKm float64 `json:"pace_min_per_km"`
}

// Cycling holds the cycling-only fields.
type Cycling struct {
	ElevationGainM float64 `json:"elevation_gain_m"`
	SpeedKmPerH    float64 `json:"speed_km_per_h"`
}

// Record is one logged workout. Exactly one of Running or Cycling is set,
// matching Kind. All derived fields are computed by the constructors.
type Record struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind"`
	CreatedAt   time.Time    `json:"created_at"`
	Location    geo.Location `json:"location"`
	DistanceKm  float64      `json:"distance_km"`
	DurationMin float64      `json:"duration_min"`
	Description string       `json:"description"`
	Running     *Running     `json:"running,omitempty"`
	Cycling     *Cycling     `json:"cycling,omitempty"`
}

// NewRunning builds a running record and computes its pace.
func NewRunning(loc geo.Location, distanceKm, durationMin float64, cadenceSpm int, createdAt time.Time) (Record, error) {
	if err := checkBase(distanceKm, durationMin); err != nil {
		return Record{}, err
	}
	if cadenceSpm <= 0 {
		return Record{}, ErrInvalidMetric
	}
	pace := durationMin / distanceKm
	if !validMetric(pace) {
		return Record{}, ErrInvalidMetric
	}
	rec := newBase(KindRunning, loc, distanceKm, durationMin, createdAt)
	rec.Running = &Running{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: pace,
	}
	return rec, nil
}

// NewCycling builds a cycling record and computes its speed. Elevation gain
// may be negative; it only has to be finite.
func NewCycling(loc geo.Location, distanceKm, durationMin, elevationGainM float64, createdAt time.Time) (Record, error) {
	if err := checkBase(distanceKm, durationMin); err != nil {
		return Record{}, err
	}
	if !finite(elevationGainM) {
		return Record{}, ErrInvalidMetric
	}
	speed := distanceKm / (durationMin / 60)
	if !validMetric(speed) {
		return Record{}, ErrInvalidMetric
	}
	rec := newBase(KindCycling, loc, distanceKm, durationMin, createdAt)
	rec.Cycling = &Cycling{
		ElevationGainM: elevationGainM,
		SpeedKmPerH:    speed,
	}
	return rec, nil
}

// Metric returns pace in min/km for running and speed in km/h for cycling.
func (r Record) Metric() float64 {
	switch r.Kind {
	case KindRunning:
		if r.Running != nil {
			return r.Running.PaceMinPerKm
		}
	case KindCycling:
		if r.Cycling != nil {
			return r.Cycling.SpeedKmPerH
		}
	}
	return 0
}

func (r Record) clone() Record {
	if r.Running != nil {
		running := *r.Running
		r.Running = &running
	}
	if r.Cycling != nil {
		cycling := *r.Cycling
		r.Cycling = &cycling
	}
	return r
}

func newBase(kind Kind, loc geo.Location, distanceKm, durationMin float64, createdAt time.Time) Record {
	return Record{
		Kind:        kind,
		CreatedAt:   createdAt,
		Location:    loc,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Description: describe(kind, createdAt),
	}
}

// describe renders "<Kind> <Month> <weekday>", where weekday is 0 for Sunday.
func describe(kind Kind, at time.Time) string {
	return kind.title() + " " + at.Month().String() + " " + strconv.Itoa(int(at.Weekday()))
}

func checkBase(distanceKm, durationMin float64) error {
	if !finite(distanceKm) || !finite(durationMin) || distanceKm <= 0 || durationMin <= 0 {
		return ErrInvalidMetric
	}
	return nil
}

// validMetric rejects a derived pace or speed that overflowed or underflowed.
func validMetric(v float64) bool {
	return finite(v) && v > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
