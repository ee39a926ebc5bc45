package globe

type ArcStyle string

const (
	ArcCurved   ArcStyle = "curved"
	ArcStraight ArcStyle = "straight"
)

// arcHeight lifts the control points of curved arcs, in degrees of latitude.
const arcHeight = 20.0

// ArcPath samples steps+1 points from src to dst. Longitudes take the short way
// round the antimeridian.
func ArcPath(src, dst Point, style ArcStyle, steps int) []Point {
	if steps < 1 {
		steps = 1
	}

	dstLon := dst.Lon
	if d := dstLon - src.Lon; d > 180 {
		dstLon -= 360
	} else if d < -180 {
		dstLon += 360
	}

	midLat := (src.Lat + dst.Lat) / 2
	midLon := (src.Lon + dstLon) / 2
	cp1Lat := src.Lat + (midLat-src.Lat)*0.5 + arcHeight
	cp1Lon := src.Lon + (midLon-src.Lon)*0.5
	cp2Lat := midLat + (dst.Lat-midLat)*0.5 + arcHeight
	cp2Lon := midLon + (dstLon-midLon)*0.5

	points := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)

		var lat, lon float64
		if style == ArcCurved {
			lat = bezierPoint(t, src.Lat, cp1Lat, cp2Lat, dst.Lat)
			lon = bezierPoint(t, src.Lon, cp1Lon, cp2Lon, dstLon)
		} else {
			lat = src.Lat + t*(dst.Lat-src.Lat)
			lon = src.Lon + t*(dstLon-src.Lon)
		}

		if lat > 90 {
			lat = 90
		}
		points = append(points, Point{Lat: lat, Lon: NormalizeLon(lon)})
	}
	return points
}

// Cubic Bezier in one dimension
func bezierPoint(t float64, p0, p1, p2, p3 float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}
