package domain

// Region is a map viewport: a center and the span shown around it, in degrees.
type Region struct {
	Latitude       float64 `yaml:"latitude"`
	Longitude      float64 `yaml:"longitude"`
	LatitudeDelta  float64 `yaml:"latitude_delta"`
	LongitudeDelta float64 `yaml:"longitude_delta"`
}

// EdgePadding is extra room around fitted markers, as a fraction of the markers' span per side.
type EdgePadding struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// DefaultRegion is the initial map viewport centered on the default pin.
var DefaultRegion = Region{
	Latitude:       DefaultPosition.Latitude,
	Longitude:      DefaultPosition.Longitude,
	LatitudeDelta:  0.1,
	LongitudeDelta: 0.1,
}

// Marker is one pin on the map.
type Marker struct {
	Key      string
	Position Position
}
