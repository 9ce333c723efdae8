package drawing

import (
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/oxydraw/oxydraw/internal/geom"
)

// TileProvider supplies tile images for a TileLayer.
//
// Tile returns the image for uri, or nil when it is not available. When async is true
// the provider may load the image in the background and call ready once it has it;
// ready is safe to call from any goroutine.
type TileProvider interface {
	Tile(uri string, async bool, ready func()) image.Image
}

// TileLayer draws slippy-map tiles covering the visible area. Data coordinates are
// zoom-0 tile coordinates with Y negated, see ToPoint.
type TileLayer struct {
	Base
	Source          string
	CopyrightNotice string
	Opacity         float64
	TileSize        int
	MinZoomLevel    int
	MaxZoomLevel    int
	Provider        TileProvider
}

func NewTileLayer(provider TileProvider) *TileLayer {
	return &TileLayer{
		Base:            newBase("Arial", -12),
		Source:          "http://tile.openstreetmap.org/{Z}/{X}/{Y}.png",
		CopyrightNotice: "OpenStreetMap",
		Opacity:         1,
		TileSize:        256,
		MinZoomLevel:    0,
		MaxZoomLevel:    20,
		Provider:        provider,
	}
}

func (*TileLayer) Kind() Kind { return KindTileLayer }

// TileURI expands the {X}, {Y} and {Z} placeholders of Source.
func (t *TileLayer) TileURI(x, y, zoom int) string {
	return strings.NewReplacer(
		"{X}", strconv.Itoa(x),
		"{Y}", strconv.Itoa(y),
		"{Z}", strconv.Itoa(zoom),
	).Replace(t.Source)
}

// ZoomLevel picks the tile zoom level that shows about one tile per TileSize pixels
// across a view of the given width spanning lon0 to lon1.
func (t *TileLayer) ZoomLevel(width, lon0, lon1 float64) int {
	tiles := width / float64(t.TileSize)
	n := tiles / ((lon1+180)/360 - (lon0+180)/360)
	zoom := int(math.Round(math.Log2(n)))
	return min(max(zoom, t.MinZoomLevel), t.MaxZoomLevel)
}

// LatLon is a WGS84 position in degrees.
type LatLon struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

const earthRadius = 6371000

// DistanceTo returns the great-circle distance to other in metres.
func (l LatLon) DistanceTo(other LatLon) float64 {
	const deg2rad = math.Pi / 180
	dlat := (other.Latitude - l.Latitude) * deg2rad
	dlon := (other.Longitude - l.Longitude) * deg2rad
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(l.Latitude*deg2rad)*math.Cos(other.Latitude*deg2rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	return earthRadius * c
}

// LatLonToTile projects a position to fractional tile coordinates at zoom.
func LatLonToTile(latitude, longitude float64, zoom int) (x, y float64) {
	n := float64(int(1) << zoom)
	lat := latitude / 180 * math.Pi
	x = (longitude + 180) / 360 * n
	y = (1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2 * n
	return x, y
}

// TileToLatLon is the inverse of LatLonToTile.
func TileToLatLon(x, y float64, zoom int) (latitude, longitude float64) {
	n := float64(int(1) << zoom)
	longitude = x/n*360 - 180
	lat := math.Atan(math.Sinh(math.Pi * (1 - 2*y/n)))
	return lat * 180 / math.Pi, longitude
}

// ToPoint maps a position to the data space used by TileLayer.
func ToPoint(l LatLon) geom.DataPoint {
	x, y := LatLonToTile(l.Latitude, l.Longitude, 0)
	return geom.Pt(x, -y)
}

// ToLatLon is the inverse of ToPoint.
func ToLatLon(p geom.DataPoint) LatLon {
	lat, lon := TileToLatLon(p.X, -p.Y, 0)
	return LatLon{Latitude: lat, Longitude: lon}
}
