package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"evcharge/backend/services/booking-service/internal/models"
)

//go:embed stations.yaml
var defaultStations []byte

// ErrStationNotFound is returned for unknown station ids.
var ErrStationNotFound = errors.New("catalog: station not found")

// Catalog is the read-only station list.
type Catalog struct {
	stations []models.Station
	byID     map[int64]int
}

type catalogFile struct {
	Stations []models.Station `yaml:"stations"`
}

// Default returns the built-in station list.
func Default() (*Catalog, error) {
	return Parse(defaultStations)
}

// Load reads a station file; an empty path yields the built-in list.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML station data and validates ids and coordinates.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return New(file.Stations)
}

// New builds a catalog from stations, keeping them ordered by id.
func New(stations []models.Station) (*Catalog, error) {
	c := &Catalog{
		stations: make([]models.Station, len(stations)),
		byID:     make(map[int64]int, len(stations)),
	}
	copy(c.stations, stations)
	sort.SliceStable(c.stations, func(i, j int) bool { return c.stations[i].ID < c.stations[j].ID })

	for i, st := range c.stations {
		if st.ID <= 0 {
			return nil, fmt.Errorf("catalog: station %q has invalid id %d", st.Name, st.ID)
		}
		if _, dup := c.byID[st.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate station id %d", st.ID)
		}
		if len(st.Location) != 2 {
			return nil, fmt.Errorf("catalog: station %d location must be [lng, lat]", st.ID)
		}
		c.byID[st.ID] = i
	}
	return c, nil
}

// Get returns a station by id.
func (c *Catalog) Get(id int64) (models.Station, error) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Station{}, fmt.Errorf("%w: %d", ErrStationNotFound, id)
	}
	return c.stations[idx], nil
}

// List returns all stations.
func (c *Catalog) List() []models.Station {
	out := make([]models.Station, len(c.stations))
	copy(out, c.stations)
	return out
}

// Search matches the query case-insensitively against name and address.
// A blank query returns every station.
func (c *Catalog) Search(query string) []models.Station {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.List()
	}
	var out []models.Station
	for _, st := range c.stations {
		if strings.Contains(strings.ToLower(st.Name), query) || strings.Contains(strings.ToLower(st.Address), query) {
			out = append(out, st)
		}
	}
	return out
}
