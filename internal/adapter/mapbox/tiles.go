package mapbox

import "github.com/couchcryptid/quake-map-service/internal/domain"

const (
	tileURLTemplate = "https://api.tiles.mapbox.com/v4/{id}/{z}/{x}/{y}.png?access_token={accessToken}"
	tileMaxZoom     = 18
	tileAttribution = `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
		`<a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, ` +
		`Imagery © <a href="https://www.mapbox.com/">Mapbox</a>`
)

// BaseLayers returns the three selectable Mapbox tile layers, satellite first
// (it is the layer shown on load).
func BaseLayers(token string) []domain.BaseLayer {
	styles := []struct{ name, id string }{
		{"Satellite Map", "mapbox.satellite"},
		{"Street Map", "mapbox.streets"},
		{"Outdoors Map", "mapbox.outdoors"},
	}

	layers := make([]domain.BaseLayer, 0, len(styles))
	for _, s := range styles {
		layers = append(layers, domain.BaseLayer{
			Name:        s.name,
			ID:          s.id,
			URLTemplate: tileURLTemplate,
			AccessToken: token,
			Attribution: tileAttribution,
			MaxZoom:     tileMaxZoom,
		})
	}
	return layers
}
