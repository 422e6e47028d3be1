package gtfsrt

import (
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
)

// Alert is a normalized service alert from the alerts feed.
type Alert struct {
	ID          string   `json:"id"`
	Header      string   `json:"header"`
	Description string   `json:"description,omitempty"`
	Cause       string   `json:"cause,omitempty"`
	Effect      string   `json:"effect,omitempty"`
	Start       int64    `json:"start,omitempty"` // epoch seconds, zero = unbounded
	End         int64    `json:"end,omitempty"`
	RouteIDs    []string `json:"routeIds,omitempty"`
	StopIDs     []string `json:"stopIds,omitempty"`
}

// ActiveAt reports whether the alert's first active period covers t. Zero
// bounds are open-ended.
func (a Alert) ActiveAt(t time.Time) bool {
	sec := t.Unix()
	if a.Start != 0 && sec < a.Start {
		return false
	}
	if a.End != 0 && sec > a.End {
		return false
	}
	return true
}

// TouchesRoute reports whether the alert names any of the given routes, or
// names no routes at all (system-wide).
func (a Alert) TouchesRoute(routeIDs map[string]struct{}) bool {
	if len(a.RouteIDs) == 0 {
		return true
	}
	for _, rid := range a.RouteIDs {
		if _, ok := routeIDs[rid]; ok {
			return true
		}
	}
	return false
}

// Alerts normalizes every alert entity in an alerts-feed snapshot.
func (s *Snapshot) Alerts() []Alert {
	out := []Alert{}
	for _, e := range s.Entities() {
		if e.Alert == nil {
			continue
		}
		a := e.Alert
		al := Alert{}
		if e.Id != nil {
			al.ID = *e.Id
		}
		al.Header = translatedText(a.HeaderText)
		al.Description = translatedText(a.DescriptionText)
		if a.Cause != nil {
			al.Cause = a.Cause.String()
		}
		if a.Effect != nil {
			al.Effect = a.Effect.String()
		}
		if len(a.ActivePeriod) > 0 {
			ap := a.ActivePeriod[0]
			if ap.Start != nil {
				al.Start = int64(*ap.Start)
			}
			if ap.End != nil {
				al.End = int64(*ap.End)
			}
		}
		for _, ie := range a.InformedEntity {
			if ie.RouteId != nil {
				al.RouteIDs = append(al.RouteIDs, *ie.RouteId)
			}
			if ie.StopId != nil {
				al.StopIDs = append(al.StopIDs, *ie.StopId)
			}
		}
		out = append(out, al)
	}
	return out
}

// translatedText picks the first English translation, falling back to the
// first translation of any language.
func translatedText(ts *gtfsrtpb.TranslatedString) string {
	if ts == nil || len(ts.Translation) == 0 {
		return ""
	}
	for _, tr := range ts.Translation {
		if tr.Language != nil && *tr.Language == "en" && tr.Text != nil {
			return *tr.Text
		}
	}
	if ts.Translation[0].Text != nil {
		return *ts.Translation[0].Text
	}
	return ""
}
