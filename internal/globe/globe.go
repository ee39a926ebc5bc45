// Package globe renders an orthographic ASCII earth and projects coordinates onto it.
package globe

import "math"

type Point struct {
	Lat float64
	Lon float64
}

type Globe struct {
	Radius      float64
	Width       int
	Height      int
	AspectRatio float64 // character height / width

	mapWidth  int
	mapHeight int
}

// New sizes a globe to fit a width x height cell area.
func New(width, height int, aspectRatio float64) *Globe {
	// Ensure minimum dimensions to prevent panics
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if aspectRatio <= 0 {
		aspectRatio = 2.0
	}

	effectiveHeight := float64(height) * aspectRatio
	radius := math.Min(float64(width)/2.5, effectiveHeight/2.5)
	if radius < 1.0 {
		radius = 1.0
	}

	return &Globe{
		Radius:      radius,
		Width:       width,
		Height:      height,
		AspectRatio: aspectRatio,
		mapWidth:    len(earthMap[0]),
		mapHeight:   len(earthMap),
	}
}

// IsLand samples the land mask at lat/lon.
func (g *Globe) IsLand(lat, lon float64) bool {
	latNorm := (90 - lat) / 180
	lonNorm := (NormalizeLon(lon) + 180) / 360

	y := clamp(int(latNorm*float64(g.mapHeight-1)), 0, g.mapHeight-1)
	x := clamp(int(lonNorm*float64(g.mapWidth-1)), 0, g.mapWidth-1)

	return earthMap[y][x] != ' '
}

// Project maps lat/lon to a screen cell for a globe centred on centerLon.
// visible is false on the far hemisphere or off screen.
func (g *Globe) Project(lat, lon, centerLon float64) (x, y int, visible bool) {
	latRad := lat * math.Pi / 180
	dRad := (lon - centerLon) * math.Pi / 180

	px := math.Cos(latRad) * math.Sin(dRad)
	py := math.Sin(latRad)
	pz := math.Cos(latRad) * math.Cos(dRad)

	if pz < 0 {
		return 0, 0, false
	}

	x = g.Width/2 + int(math.Round(px*g.Radius))
	// Compress Y by the aspect ratio so the sphere looks round in character cells
	y = g.Height/2 - int(math.Round(py*g.Radius/g.AspectRatio))

	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0, 0, false
	}
	return x, y, true
}

// Render draws the land masses for a globe centred on centerLon.
func (g *Globe) Render(centerLon float64) [][]rune {
	screen := make([][]rune, g.Height)
	density := make([][]float64, g.Height)
	for i := range screen {
		screen[i] = make([]rune, g.Width)
		density[i] = make([]float64, g.Width)
		for j := range screen[i] {
			screen[i][j] = ' '
		}
	}

	centerX, centerY := g.Width/2, g.Height/2

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			dx := float64(x - centerX)
			dy := float64(y-centerY) * g.AspectRatio
			distance := math.Sqrt(dx*dx + dy*dy)

			if distance <= g.Radius {
				nx := dx / g.Radius
				ny := -dy / g.Radius

				if nzSquared := 1 - nx*nx - ny*ny; nzSquared >= 0 {
					nz := math.Sqrt(nzSquared)
					lat := math.Asin(ny) * 180 / math.Pi
					lon := centerLon + math.Atan2(nx, nz)*180/math.Pi

					if g.IsLand(lat, lon) {
						density[y][x] += 1.0

						// Soften coastlines
						for oy := -1; oy <= 1; oy++ {
							for ox := -1; ox <= 1; ox++ {
								nx2, ny2 := x+ox, y+oy
								if nx2 >= 0 && nx2 < g.Width && ny2 >= 0 && ny2 < g.Height {
									density[ny2][nx2] += 0.05
								}
							}
						}
					}
				}
			}

			// Circular border for the sphere
			if distance > g.Radius-0.5 && distance < g.Radius+0.5 {
				density[y][x] += 0.2
			}
		}
	}

	for y := range screen {
		for x := range screen[y] {
			screen[y][x] = densityToASCII(density[y][x])
		}
	}
	return screen
}

func densityToASCII(density float64) rune {
	switch {
	case density > 1.0:
		return '@'
	case density > 0.8:
		return '#'
	case density > 0.6:
		return '%'
	case density > 0.4:
		return 'o'
	case density > 0.3:
		return '='
	case density > 0.2:
		return '+'
	case density > 0.15:
		return '-'
	case density > 0.1:
		return '.'
	case density > 0.05:
		return '`'
	}
	return ' '
}

// NormalizeLon wraps lon into [-180, 180).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
