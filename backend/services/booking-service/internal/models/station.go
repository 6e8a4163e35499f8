package models

import "strings"

// Charger describes one category of charging hardware at a station.
type Charger struct {
	Type      string `yaml:"type" json:"type"`
	Power     string `yaml:"power" json:"power"`
	Available int    `yaml:"available" json:"available"`
}

// Station is immutable reference data. Location is [longitude, latitude].
type Station struct {
	ID       int64     `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Location []float64 `yaml:"location" json:"location"`
	Address  string    `yaml:"address" json:"address"`
	Chargers []Charger `yaml:"chargers" json:"chargers"`
}

// Charger looks up a charger by type, ignoring case. The returned Charger carries the
// station's own spelling of the type.
func (s Station) Charger(chargerType string) (Charger, bool) {
	chargerType = strings.TrimSpace(chargerType)
	for _, c := range s.Chargers {
		if strings.EqualFold(c.Type, chargerType) {
			return c, true
		}
	}
	return Charger{}, false
}

// HasCharger reports whether the station offers the given charger type.
func (s Station) HasCharger(chargerType string) bool {
	_, ok := s.Charger(chargerType)
	return ok
}
