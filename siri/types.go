package siri

import (
	"bytes"
	"encoding/json"
)

// FlexString decodes a field the upstream emits inconsistently: a bare
// string, a number, a one-element array, or null (empty string).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '[':
		var arr []FlexString
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) > 0 {
			*f = arr[0]
		} else {
			*f = ""
		}
	case 'n': // null
		*f = ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

// StopMonitoringResponse is the top-level stop-monitoring payload.
type StopMonitoringResponse struct {
	Siri struct {
		ServiceDelivery ServiceDelivery `json:"ServiceDelivery"`
	} `json:"Siri"`
}

type ServiceDelivery struct {
	ResponseTimestamp      string                   `json:"ResponseTimestamp"`
	StopMonitoringDelivery []StopMonitoringDelivery `json:"StopMonitoringDelivery"`
}

type StopMonitoringDelivery struct {
	MonitoredStopVisit []MonitoredStopVisit `json:"MonitoredStopVisit"`
}

type MonitoredStopVisit struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

type MonitoredVehicleJourney struct {
	LineRef                 string                  `json:"LineRef"`
	DirectionRef            FlexString              `json:"DirectionRef"`
	FramedVehicleJourneyRef FramedVehicleJourneyRef `json:"FramedVehicleJourneyRef"`
	DestinationName         FlexString              `json:"DestinationName"`
	VehicleRef              string                  `json:"VehicleRef"`
	MonitoredCall           *MonitoredCall          `json:"MonitoredCall"`
}

type FramedVehicleJourneyRef struct {
	DataFrameRef           string `json:"DataFrameRef"`
	DatedVehicleJourneyRef string `json:"DatedVehicleJourneyRef"`
}

// MonitoredCall holds the per-visit timing fields. Expected times are live
// predictions; aimed times are the static schedule.
type MonitoredCall struct {
	AimedArrivalTime      string          `json:"AimedArrivalTime"`
	ExpectedArrivalTime   string          `json:"ExpectedArrivalTime"`
	AimedDepartureTime    string          `json:"AimedDepartureTime"`
	ExpectedDepartureTime string          `json:"ExpectedDepartureTime"`
	NumberOfStopsAway     *int            `json:"NumberOfStopsAway"`
	Extensions            *CallExtensions `json:"Extensions"`
}

// CallExtensions carries the nested fallback location of the stops-away
// count on feeds that predate NumberOfStopsAway.
type CallExtensions struct {
	Distances struct {
		StopsFromCall *int `json:"StopsFromCall"`
	} `json:"Distances"`
}

// Visits flattens every delivery's visit list.
func (r *StopMonitoringResponse) Visits() []MonitoredStopVisit {
	var out []MonitoredStopVisit
	for _, d := range r.Siri.ServiceDelivery.StopMonitoringDelivery {
		out = append(out, d.MonitoredStopVisit...)
	}
	return out
}
