package domain

// BaseLayer is one tile layer offered in the layer control.
type BaseLayer struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	URLTemplate string `json:"url_template"`
	AccessToken string `json:"access_token,omitempty"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"max_zoom"`
}

// MapView is the initial center and zoom of the map.
type MapView struct {
	Center Position `json:"center"`
	Zoom   int      `json:"zoom"`
}

// DefaultView centers the map on the contiguous United States.
var DefaultView = MapView{
	Center: Position{Lat: 37.09, Lon: -95.71},
	Zoom:   5,
}

// Overlay names as shown in the layer control.
const (
	EarthquakesOverlay = "Earthquakes"
	PlatesOverlay      = "Tectonic Plates"
)
