package head

import "encoding/json"

// Scene is one entry of the scene list.
type Scene struct {
	ID           string      `json:"id"`
	Satellite    string      `json:"satellite"`
	Date         string      `json:"date"`
	Cloud        *float64    `json:"cloud"`
	OffNadir     *float64    `json:"offnadir"`
	SunElevation *float64    `json:"sunelevation"`
	SunAzimuth   *float64    `json:"sunazimuth"`
	Resolution   float64     `json:"resolution"`
	Footprint    [][]float64 `json:"footprint"` // [lat, lon] positions
	Quicklook    string      `json:"quicklook"`
	Thumb        string      `json:"thumb"`
}

func (s Scene) raw() json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}
