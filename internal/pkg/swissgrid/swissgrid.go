// Package swissgrid converts Swiss LV03/LV95 grid coordinates to WGS84
// with the approximate swisstopo formulas (accuracy about one metre).
package swissgrid

const (
	lv95EastOffset  = 2000000
	lv95NorthOffset = 1000000
)

// Normalize maps LV95 coordinates to LV03; LV03 input is returned unchanged.
func Normalize(east, north float64) (float64, float64) {
	if east > lv95EastOffset {
		east -= lv95EastOffset
	}
	if north > lv95NorthOffset {
		north -= lv95NorthOffset
	}
	return east, north
}

// ToWGS84 converts LV03/LV95 east, north and height to latitude, longitude
// and ellipsoidal height.
func ToWGS84(east, north, height float64) (lat, lon, ele float64) {
	east, north = Normalize(east, north)

	y := (east - 600000) / 1000000
	x := (north - 200000) / 1000000

	lambda := 2.6779094 +
		4.728982*y +
		0.791484*y*x +
		0.1306*y*x*x -
		0.0436*y*y*y

	phi := 16.9023892 +
		3.238272*x -
		0.270978*y*y -
		0.002528*x*x -
		0.0447*y*y*x -
		0.0140*x*x*x

	ele = height + 49.55 - 12.60*y - 22.64*x
	lat = phi * 100 / 36
	lon = lambda * 100 / 36
	return lat, lon, ele
}
