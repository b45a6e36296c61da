package vision

import "math"

// fastCircle holds the 16 Bresenham circle offsets (radius 3) used by
// the segment-test detector, in clockwise order.
var fastCircle = [16][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

const (
	fastThreshold  = 20
	fastContiguous = 9
)

// fastKeypoints counts segment-test corners: a pixel is a keypoint when
// at least 9 contiguous circle pixels are all brighter or all darker
// than the center by the threshold. Detector A of the feature schema.
func fastKeypoints(gray []uint8, width, height int) int {
	if width < 7 || height < 7 {
		return 0
	}
	count := 0
	for y := 3; y < height-3; y++ {
		for x := 3; x < width-3; x++ {
			center := int(gray[y*width+x])

			// Quick reject on the four compass points
			compass := 0
			for _, i := range [4]int{0, 4, 8, 12} {
				p := int(gray[(y+fastCircle[i][1])*width+x+fastCircle[i][0]])
				if p > center+fastThreshold || p < center-fastThreshold {
					compass++
				}
			}
			if compass < 3 {
				continue
			}

			if hasContiguousSegment(gray, width, x, y, center) {
				count++
			}
		}
	}
	return count
}

func hasContiguousSegment(gray []uint8, width, x, y, center int) bool {
	var brighter, darker [32]bool
	for i, off := range fastCircle {
		p := int(gray[(y+off[1])*width+x+off[0]])
		brighter[i] = p > center+fastThreshold
		darker[i] = p < center-fastThreshold
		// Duplicate for wraparound runs
		brighter[i+16] = brighter[i]
		darker[i+16] = darker[i]
	}
	return longestRun(brighter[:]) >= fastContiguous || longestRun(darker[:]) >= fastContiguous
}

func longestRun(flags []bool) int {
	best, run := 0, 0
	for _, f := range flags {
		if f {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

const (
	harrisK         = 0.04
	harrisThreshold = 1e9
	cornerThreshold = 1e6
)

// structureTensor sums squared gradients over a 3x3 window.
func structureTensor(gray []uint8, width, x, y int) (sxx, syy, sxy float64) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			gx := float64(sobelX(gray, width, x+dx, y+dy))
			gy := float64(sobelY(gray, width, x+dx, y+dy))
			sxx += gx * gx
			syy += gy * gy
			sxy += gx * gy
		}
	}
	return sxx, syy, sxy
}

// harrisKeypoints counts pixels whose Harris corner response exceeds
// the fixed threshold. Detector B of the feature schema.
func harrisKeypoints(gray []uint8, width, height int) int {
	if width < 5 || height < 5 {
		return 0
	}
	count := 0
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			sxx, syy, sxy := structureTensor(gray, width, x, y)
			det := sxx*syy - sxy*sxy
			trace := sxx + syy
			if det-harrisK*trace*trace > harrisThreshold {
				count++
			}
		}
	}
	return count
}

// shiTomasiCorners counts strong minimum-eigenvalue corners on a coarse
// grid, the analogue of good-features-to-track corner counting.
func shiTomasiCorners(gray []uint8, width, height int) int {
	if width < 5 || height < 5 {
		return 0
	}
	count := 0
	for y := 2; y < height-2; y += 4 {
		for x := 2; x < width-2; x += 4 {
			sxx, syy, sxy := structureTensor(gray, width, x, y)
			half := (sxx + syy) / 2
			d := math.Sqrt(((sxx-syy)/2)*((sxx-syy)/2) + sxy*sxy)
			if half-d > cornerThreshold {
				count++
			}
		}
	}
	return count
}
