package workout

import (
	"strconv"

	"backend-mapty/internal/shared/geo"
)

// MapPresenter draws on the map surface.
type MapPresenter interface {
	PlaceMarker(m Marker)
	CenterOn(req CenterRequest)
}

// ListPresenter draws on the sidebar list.
type ListPresenter interface {
	AppendSummary(s Summary)
}

type PopupOptions struct {
	MaxWidth         int    `json:"max_width"`
	MinWidth         int    `json:"min_width"`
	AutoClose        bool   `json:"auto_close"`
	CloseOnClick     bool   `json:"close_on_click"`
	CloseOnEscapeKey bool   `json:"close_on_escape_key"`
	ClassName        string `json:"class_name"`
}

type Marker struct {
	RecordID  string       `json:"record_id"`
	Location  geo.Location `json:"location"`
	Glyph     string       `json:"glyph"`
	PopupText string       `json:"popup_text"`
	Popup     PopupOptions `json:"popup"`
}

type CenterRequest struct {
	RecordID       string       `json:"record_id,omitempty"`
	Location       geo.Location `json:"location"`
	Zoom           int          `json:"zoom"`
	Animate        bool         `json:"animate"`
	PanDurationSec float64      `json:"pan_duration_sec,omitempty"`
}

type Detail struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// Summary is one sidebar entry. Details holds distance, duration and the
// two kind-specific lines, in display order.
type Summary struct {
	RecordID    string   `json:"record_id"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	DistanceKm  float64  `json:"distance_km"`
	DurationMin float64  `json:"duration_min"`
	Details     []Detail `json:"details"`
}

// KindSpecificLines returns the pace/cadence or speed/elevation details.
func (s Summary) KindSpecificLines() []Detail {
	if len(s.Details) <= 2 {
		return nil
	}
	return s.Details[2:]
}

func NewMarker(rec Record) Marker {
	return Marker{
		RecordID:  rec.ID,
		Location:  rec.Location,
		Glyph:     rec.Kind.Glyph(),
		PopupText: rec.Kind.Glyph() + " " + rec.Description,
		Popup: PopupOptions{
			MaxWidth:  250,
			MinWidth:  100,
			ClassName: string(rec.Kind) + "-popup",
		},
	}
}

func NewSummary(rec Record) Summary {
	s := Summary{
		RecordID:    rec.ID,
		Kind:        rec.Kind,
		Description: rec.Description,
		DistanceKm:  rec.DistanceKm,
		DurationMin: rec.DurationMin,
		Details: []Detail{
			{Icon: rec.Kind.Glyph(), Value: formatNumber(rec.DistanceKm), Unit: "km"},
			{Icon: "⏱", Value: formatNumber(rec.DurationMin), Unit: "min"},
		},
	}
	switch {
	case rec.Running != nil:
		s.Details = append(s.Details,
			Detail{Icon: "⚡️", Value: strconv.FormatFloat(rec.Running.PaceMinPerKm, 'f', 1, 64), Unit: "min/km"},
			Detail{Icon: "🦶🏼", Value: strconv.Itoa(rec.Running.CadenceSpm), Unit: "spm"},
		)
	case rec.Cycling != nil:
		s.Details = append(s.Details,
			Detail{Icon: "⚡️", Value: strconv.FormatFloat(rec.Cycling.SpeedKmPerH, 'f', 1, 64), Unit: "km/h"},
			Detail{Icon: "⛰", Value: formatNumber(rec.Cycling.ElevationGainM), Unit: "m"},
		)
	}
	return s
}

// formatNumber prints v the shortest way, so 5 renders as "5" and 5.25 as "5.25".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NopPresenter discards everything. It is used when no surface is attached.
type NopPresenter struct{}

func (NopPresenter) PlaceMarker(Marker) {}
func (NopPresenter) CenterOn(CenterRequest) {}
func (NopPresenter) AppendSummary(Summary) {}
