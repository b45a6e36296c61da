package vision

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// edgeThreshold is the fixed Sobel gradient magnitude above which a
// pixel counts as an edge.
const edgeThreshold = 100.0

type edgeStats struct {
	mask       []bool
	count      int
	vertical   int
	horizontal int
	comX, comY float64
}

func (e *edgeStats) verticalRatio() float64 {
	if e.count == 0 {
		return 0
	}
	return float64(e.vertical) / float64(e.count)
}

func (e *edgeStats) horizontalRatio() float64 {
	if e.count == 0 {
		return 0
	}
	return float64(e.horizontal) / float64(e.count)
}

func sobelX(gray []uint8, width, x, y int) int {
	i := y * width
	return -int(gray[i-width+x-1]) + int(gray[i-width+x+1]) +
		-2*int(gray[i+x-1]) + 2*int(gray[i+x+1]) +
		-int(gray[i+width+x-1]) + int(gray[i+width+x+1])
}

func sobelY(gray []uint8, width, x, y int) int {
	i := y * width
	return -int(gray[i-width+x-1]) - 2*int(gray[i-width+x]) - int(gray[i-width+x+1]) +
		int(gray[i+width+x-1]) + 2*int(gray[i+width+x]) + int(gray[i+width+x+1])
}

// sobelEdges builds the fixed-threshold edge map and its aggregate
// statistics (orientation split and edge center of mass, both
// normalized). An empty mask reports the image center as its mass.
func sobelEdges(gray []uint8, width, height int) *edgeStats {
	e := &edgeStats{mask: make([]bool, width*height)}
	var sumX, sumY float64

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := sobelX(gray, width, x, y)
			gy := sobelY(gray, width, x, y)
			magnitude := math.Sqrt(float64(gx*gx + gy*gy))
			if magnitude <= edgeThreshold {
				continue
			}
			e.mask[y*width+x] = true
			e.count++
			sumX += float64(x)
			sumY += float64(y)
			// gx responds to vertical structure, gy to horizontal
			if abs(gx) >= abs(gy) {
				e.vertical++
			} else {
				e.horizontal++
			}
		}
	}

	if e.count > 0 {
		e.comX = sumX / float64(e.count) / float64(width)
		e.comY = sumY / float64(e.count) / float64(height)
	} else {
		e.comX, e.comY = 0.5, 0.5
	}
	return e
}

// contourCount counts 8-connected components of at least minContourSize
// edge pixels, approximating external contour detection.
const minContourSize = 4

func contourCount(mask []bool, width, height int) int {
	visited := make([]bool, len(mask))
	stack := make([]int, 0, 256)
	contours := 0

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		size := 0
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			x, y := idx%width, idx/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					nidx := ny*width + nx
					if mask[nidx] && !visited[nidx] {
						visited[nidx] = true
						stack = append(stack, nidx)
					}
				}
			}
		}
		if size >= minContourSize {
			contours++
		}
	}
	return contours
}

// laplacianVariance measures texture complexity with the 4-neighbor
// Laplacian kernel.
func laplacianVariance(gray []uint8, width, height int) float64 {
	if width < 3 || height < 3 {
		return 0
	}
	data := make([]float64, 0, (width-2)*(height-2))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			center := float64(gray[i])
			lap := -4*center + float64(gray[i-width]) + float64(gray[i+width]) +
				float64(gray[i-1]) + float64(gray[i+1])
			data = append(data, lap)
		}
	}
	return stat.Variance(data, nil)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
