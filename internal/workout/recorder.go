package workout

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"backend-mapty/internal/shared/geo"
)

const DefaultZoom = 13

type State string

const (
	StateIdle            State = "idle"
	StateLocationPending State = "location_pending"
)

// FormFields are the raw values of the workout form, exactly as typed.
type FormFields struct {
	Type      string `json:"type" form:"type"`
	Distance  string `json:"distance" form:"distance"`
	Duration  string `json:"duration" form:"duration"`
	Cadence   string `json:"cadence" form:"cadence"`
	Elevation string `json:"elevation" form:"elevation"`
}

// GeolocationResult is the outcome of a one-shot position lookup.
type GeolocationResult struct {
	Location geo.Location
	Err      error
}

type View struct {
	Center *geo.Location `json:"center,omitempty"`
	Zoom   int           `json:"zoom"`
}

type Snapshot struct {
	State    State         `json:"state"`
	Pending  *geo.Location `json:"pending,omitempty"`
	View     View          `json:"view"`
	Workouts []Record      `json:"workouts"`
}

// Recorder drives one form session: it captures the pending map location,
// validates submissions, appends records to its Log and tells the presenters
// what to draw. It is single-threaded; callers must serialize access.
type Recorder struct {
	log     *Log
	mapView MapPresenter
	list    ListPresenter
	now     func() time.Time
	zoom    int

	state   State
	pending *geo.Location
	center  *geo.Location
}

// NewRecorder wires a recorder to its presenters. Nil presenters discard
// output, a zoom <= 0 uses DefaultZoom and a nil clock uses time.Now.
func NewRecorder(mapView MapPresenter, list ListPresenter, zoom int, now func() time.Time) *Recorder {
	if mapView == nil {
		mapView = NopPresenter{}
	}
	if list == nil {
		list = NopPresenter{}
	}
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{
		log:     NewLog(),
		mapView: mapView,
		list:    list,
		now:     now,
		zoom:    zoom,
		state:   StateIdle,
	}
}

func (r *Recorder) State() State {
	return r.state
}

func (r *Recorder) Pending() (geo.Location, bool) {
	if r.pending == nil {
		return geo.Location{}, false
	}
	return *r.pending, true
}

// OnGeolocationResult centers the map on the user's position, or reports why
// it could not. Failures are not retried.
func (r *Recorder) OnGeolocationResult(res GeolocationResult) (CenterRequest, error) {
	if res.Err != nil {
		reason := ErrGeolocationUnavailable
		if errors.Is(res.Err, ErrGeolocationDenied) {
			reason = ErrGeolocationDenied
		}
		return CenterRequest{}, &GeolocationError{Message: GeolocationMessage, Err: reason}
	}
	if err := res.Location.Validate(); err != nil {
		return CenterRequest{}, &GeolocationError{Message: GeolocationMessage, Err: ErrGeolocationUnavailable}
	}

	loc := res.Location
	r.center = &loc
	req := CenterRequest{Location: loc, Zoom: r.zoom}
	r.mapView.CenterOn(req)
	return req, nil
}

// OnMapClick records loc as the location of the next workout. A later click
// replaces an earlier one.
func (r *Recorder) OnMapClick(loc geo.Location) (geo.Location, error) {
	if err := loc.Validate(); err != nil {
		return geo.Location{}, err
	}
	r.pending = &loc
	r.state = StateLocationPending
	return loc, nil
}

// CancelPending drops the pending location, as when the form is hidden.
func (r *Recorder) CancelPending() {
	r.pending = nil
	r.state = StateIdle
}

// SubmitWorkout validates the form and, on success, appends and renders the
// new record. On failure nothing changes and a *ValidationError is returned.
func (r *Recorder) SubmitWorkout(f FormFields) (Record, error) {
	if r.pending == nil {
		return Record{}, &ValidationError{Message: MissingLocationMessage, Err: ErrMissingPendingLocation}
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(f.Type)))
	distance := parseNumber(f.Distance)
	duration := parseNumber(f.Duration)

	var (
		rec Record
		err error
	)
	switch kind {
	case KindRunning:
		cadence := parseNumber(f.Cadence)
		if !allFinite(distance, duration, cadence) || !allPositive(distance, duration, cadence) || !wholeCadence(cadence) {
			return Record{}, invalidInput()
		}
		rec, err = NewRunning(*r.pending, distance, duration, int(cadence), r.now())
	case KindCycling:
		elevation := parseNumber(f.Elevation)
		// Elevation gain is only required to be finite; descents are allowed.
		if !allFinite(distance, duration, elevation) || !allPositive(distance, duration) {
			return Record{}, invalidInput()
		}
		rec, err = NewCycling(*r.pending, distance, duration, elevation, r.now())
	default:
		return Record{}, &ValidationError{Message: InvalidInputMessage, Err: ErrUnknownKind}
	}
	if err != nil {
		return Record{}, &ValidationError{Message: InvalidInputMessage, Err: err}
	}

	rec = r.log.Append(rec)
	r.mapView.PlaceMarker(NewMarker(rec))
	r.list.AppendSummary(NewSummary(rec))

	r.pending = nil
	r.state = StateIdle
	return rec, nil
}

// OnListItemClick pans the map to the workout with the given id.
func (r *Recorder) OnListItemClick(id string) (CenterRequest, error) {
	rec, err := r.log.FindByID(id)
	if err != nil {
		return CenterRequest{}, err
	}
	loc := rec.Location
	r.center = &loc
	req := CenterRequest{
		RecordID:       rec.ID,
		Location:       loc,
		Zoom:           r.zoom,
		Animate:        true,
		PanDurationSec: 1,
	}
	r.mapView.CenterOn(req)
	return req, nil
}

func (r *Recorder) Find(id string) (Record, error) {
	return r.log.FindByID(id)
}

func (r *Recorder) Workouts() []Record {
	return slices.Collect(r.log.All())
}

func (r *Recorder) Len() int {
	return r.log.Len()
}

func (r *Recorder) Snapshot() Snapshot {
	snap := Snapshot{
		State:    r.state,
		View:     View{Zoom: r.zoom},
		Workouts: r.Workouts(),
	}
	if r.pending != nil {
		p := *r.pending
		snap.Pending = &p
	}
	if r.center != nil {
		c := *r.center
		snap.View.Center = &c
	}
	return snap
}

// FieldsFor names the kind-specific form field that should be visible.
func FieldsFor(kind Kind) (string, error) {
	switch kind {
	case KindRunning:
		return "cadence", nil
	case KindCycling:
		return "elevation", nil
	}
	return "", ErrUnknownKind
}

func invalidInput() *ValidationError {
	return &ValidationError{Message: InvalidInputMessage, Err: ErrInvalidInput}
}

// decimalLiteral matches the decimal forms Number() accepts. Digit
// separators and hex-float exponents are not among them.
var decimalLiteral = regexp.MustCompile(`^[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)$`)

// parseNumber converts a form value the way a browser's Number() does:
// surrounding space is ignored, an empty value is 0, unsigned 0x/0o/0b
// integers are read in their base and anything else that is not a decimal
// literal is NaN. Literals beyond float64 range become ±Inf.
func parseNumber(raw string) float64 {
	s := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	if s == "" {
		return 0
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseInteger(s[2:], 16)
		case 'o', 'O':
			return parseInteger(s[2:], 8)
		case 'b', 'B':
			return parseInteger(s[2:], 2)
		}
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

func parseInteger(digits string, base int) float64 {
	if digits[0] == '+' || digits[0] == '-' {
		return math.NaN()
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return v
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if !finite(v) {
			return false
		}
	}
	return true
}

func allPositive(values ...float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}

func wholeCadence(v float64) bool {
	return v == math.Trunc(v) && v <= math.MaxInt32
}
