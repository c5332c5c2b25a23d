package geomap

// Layer defaults for the state scatterplot.
const (
	LayerType       = "ScatterplotLayer"
	RadiusMeters    = 30000
	TooltipTemplate = "{state}: {emissions} lbs CO₂/month"

	InitialLatitude  = 37.5
	InitialLongitude = -96.0
	InitialZoom      = 3.5
)

// FillColor is the RGBA fill of every marker.
//
//nolint:gochecknoglobals // read-only palette
var FillColor = [4]int{255, 140, 0, 160}

// HighlightColor fills the marker of the highlighted state.
//
//nolint:gochecknoglobals // read-only palette
var HighlightColor = [4]int{34, 139, 34, 220}

// ViewState is the initial camera.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
}

// Layer describes a scatterplot layer in the shape deck.gl consumes.
type Layer struct {
	Type         string  `json:"type"`
	Data         []Point `json:"data"`
	GetPosition  string  `json:"getPosition"`
	GetFillColor [4]int  `json:"getFillColor"`
	GetRadius    int     `json:"getRadius"`
	Pickable     bool    `json:"pickable"`
}

// Deck is the full map description: one layer, a view and a tooltip.
type Deck struct {
	Layers           []Layer   `json:"layers"`
	InitialViewState ViewState `json:"initialViewState"`
	Tooltip          string    `json:"tooltip"`
}

// DefaultViewState centers on the contiguous United States.
func DefaultViewState() ViewState {
	return ViewState{Latitude: InitialLatitude, Longitude: InitialLongitude, Zoom: InitialZoom}
}

// NewDeck builds the scatterplot description for points. A highlighted point
// is placed in a second layer drawn on top with HighlightColor.
func NewDeck(points []Point) Deck {
	base := make([]Point, 0, len(points))
	var highlighted []Point
	for _, p := range points {
		if p.Highlight {
			highlighted = append(highlighted, p)
			continue
		}
		base = append(base, p)
	}

	layers := []Layer{newLayer(base, FillColor)}
	if len(highlighted) > 0 {
		layers = append(layers, newLayer(highlighted, HighlightColor))
	}

	return Deck{
		Layers:           layers,
		InitialViewState: DefaultViewState(),
		Tooltip:          TooltipTemplate,
	}
}

func newLayer(points []Point, fill [4]int) Layer {
	return Layer{
		Type:         LayerType,
		Data:         points,
		GetPosition:  "[lon, lat]",
		GetFillColor: fill,
		GetRadius:    RadiusMeters,
		Pickable:     true,
	}
}
