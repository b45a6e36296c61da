package vision

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"runtime"
	"sync"

	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/logger"

	"github.com/sirupsen/logrus"
)

// Extractor turns raw encoded image bytes into the fixed feature schema.
// It never fails on valid but degenerate images; a solid-color frame
// simply yields zero keypoint and edge counts.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract decodes the image and computes all FeatureNames values.
// Undecodable bytes return an invalid-image error.
func (e *Extractor) Extract(data []byte) (FeatureVector, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewInvalidImageError("undecodable image bytes", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, apperrors.NewInvalidImageError("image has zero area", nil)
	}

	rgba := toRGBA(img)
	gray := make([]uint8, width*height)
	stats := e.scanPixels(rgba, gray, width, height)

	edges := sobelEdges(gray, width, height)
	contours := contourCount(edges.mask, width, height)
	fastKP := fastKeypoints(gray, width, height)
	harrisKP := harrisKeypoints(gray, width, height)
	corners := shiTomasiCorners(gray, width, height)

	pixels := float64(width * height)
	megapixels := pixels / 1e6

	fv := FeatureVector{
		"brightness":            stats.grayMean,
		"contrast":              stats.grayStd,
		"color_variance":        (stats.variance(0) + stats.variance(1) + stats.variance(2)) / 3,
		"fast_keypoints":        float64(fastKP),
		"harris_keypoints":      float64(harrisKP),
		"corner_count":          float64(corners),
		"contour_count":         float64(contours),
		"edge_density":          float64(edges.count) / pixels,
		"edge_pixel_count":      float64(edges.count),
		"keypoint_density":      float64(fastKP+harrisKP) / math.Max(megapixels, 1e-6),
		"symmetry_score":        symmetryScore(gray, width, height),
		"rule_of_thirds_score":  ruleOfThirdsScore(edges.mask, width, height),
		"aspect_ratio":          float64(width) / float64(height),
		"resolution_mp":         megapixels,
		"red_mean":              stats.mean(0),
		"green_mean":            stats.mean(1),
		"blue_mean":             stats.mean(2),
		"red_variance":          stats.variance(0),
		"green_variance":        stats.variance(1),
		"blue_variance":         stats.variance(2),
		"red_skewness":          stats.skewness(0),
		"green_skewness":        stats.skewness(1),
		"blue_skewness":         stats.skewness(2),
		"saturation_mean":       stats.satSum / pixels,
		"luminance_mean":        stats.lumSum / pixels,
		"dominant_tone_count":   float64(stats.dominantTones()),
		"texture_complexity":    laplacianVariance(gray, width, height),
		"dark_pixel_ratio":      stats.grayRatio(0, 63),
		"bright_pixel_ratio":    stats.grayRatio(192, 255),
		"midtone_ratio":         stats.grayRatio(64, 191),
		"vertical_edge_ratio":   edges.verticalRatio(),
		"horizontal_edge_ratio": edges.horizontalRatio(),
		"center_mass_x":         edges.comX,
		"center_mass_y":         edges.comY,
	}
	fv["aesthetic_score"] = aestheticScore(stats, fastKP, contours)

	e.sanitize(fv)
	return fv, nil
}

// sanitize replaces non-finite values with 0 so downstream arithmetic
// stays stable, and logs the extraction as quality-degraded.
func (e *Extractor) sanitize(fv FeatureVector) {
	var degraded []string
	for name, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fv[name] = 0
			degraded = append(degraded, name)
		}
	}
	if len(degraded) > 0 {
		logger.WithFields(logrus.Fields{
			"features": degraded,
		}).Warn("Quality-degraded extraction: non-finite feature values replaced with 0")
	}
}

// pixelStats accumulates one pass worth of per-channel and grayscale
// statistics. Third moments are kept so channel skewness falls out
// without a second pass.
type pixelStats struct {
	sum, sum2, sum3 [3]float64
	satSum, lumSum  float64
	grayHist        [256]int
	toneBuckets     [64]int
	pixels          float64
	grayMean        float64
	grayStd         float64
}

func (s *pixelStats) mean(c int) float64 { return s.sum[c] / s.pixels }

func (s *pixelStats) variance(c int) float64 {
	m := s.mean(c)
	return s.sum2[c]/s.pixels - m*m
}

func (s *pixelStats) skewness(c int) float64 {
	m := s.mean(c)
	v := s.variance(c)
	if v <= 0 {
		return 0
	}
	m3 := s.sum3[c]/s.pixels - 3*m*s.sum2[c]/s.pixels + 2*m*m*m
	return m3 / math.Pow(v, 1.5)
}

func (s *pixelStats) grayRatio(lo, hi int) float64 {
	count := 0
	for i := lo; i <= hi; i++ {
		count += s.grayHist[i]
	}
	return float64(count) / s.pixels
}

// dominantTones counts quantized RGB buckets covering more than 5% of
// the image.
func (s *pixelStats) dominantTones() int {
	threshold := int(s.pixels * 0.05)
	count := 0
	for _, n := range s.toneBuckets {
		if n > threshold {
			count++
		}
	}
	return count
}

// mutedTones counts dominant buckets whose channels all sit in the
// mid-range, the "muted palette" signal of the aesthetic score.
func (s *pixelStats) mutedTones() int {
	threshold := int(s.pixels * 0.05)
	count := 0
	for bucket, n := range s.toneBuckets {
		if n <= threshold {
			continue
		}
		r, g, b := bucket>>4, (bucket>>2)&3, bucket&3
		if r >= 1 && r <= 2 && g >= 1 && g <= 2 && b >= 1 && b <= 2 {
			count++
		}
	}
	return count
}

// scanPixels fills the grayscale plane and gathers channel statistics
// in horizontal strips, one strip per worker.
func (e *Extractor) scanPixels(rgba *image.RGBA, gray []uint8, width, height int) *pixelStats {
	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	results := make(chan pixelStats, numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			var s pixelStats
			for y := startY; y < endY; y++ {
				row := rgba.Pix[y*rgba.Stride:]
				for x := 0; x < width; x++ {
					r := float64(row[x*4])
					g := float64(row[x*4+1])
					b := float64(row[x*4+2])

					for c, v := range [3]float64{r, g, b} {
						s.sum[c] += v
						s.sum2[c] += v * v
						s.sum3[c] += v * v * v
					}

					luma := 0.299*r + 0.587*g + 0.114*b
					gv := uint8(luma + 0.5)
					gray[y*width+x] = gv
					s.grayHist[gv]++

					maxC := math.Max(r, math.Max(g, b))
					minC := math.Min(r, math.Min(g, b))
					if maxC > 0 {
						s.satSum += (maxC - minC) / maxC
					}
					s.lumSum += maxC / 255

					bucket := (int(r)>>6)<<4 | (int(g)>>6)<<2 | int(b)>>6
					s.toneBuckets[bucket]++
				}
			}
			results <- s
		}(startY, endY)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	total := &pixelStats{}
	for s := range results {
		for c := 0; c < 3; c++ {
			total.sum[c] += s.sum[c]
			total.sum2[c] += s.sum2[c]
			total.sum3[c] += s.sum3[c]
		}
		total.satSum += s.satSum
		total.lumSum += s.lumSum
		for i := range s.grayHist {
			total.grayHist[i] += s.grayHist[i]
		}
		for i := range s.toneBuckets {
			total.toneBuckets[i] += s.toneBuckets[i]
		}
	}
	total.pixels = float64(width * height)

	var gSum, gSum2 float64
	for i, n := range total.grayHist {
		v := float64(i)
		gSum += v * float64(n)
		gSum2 += v * v * float64(n)
	}
	total.grayMean = gSum / total.pixels
	total.grayStd = math.Sqrt(math.Max(gSum2/total.pixels-total.grayMean*total.grayMean, 0))

	return total
}

// aestheticScore is the fixed heuristic aesthetic rating: muted palette,
// keypoint richness and a moderate contour count each add points.
func aestheticScore(stats *pixelStats, keypoints, contours int) float64 {
	score := stats.mutedTones() * 5
	if keypoints > 100 {
		score += 10
	}
	if contours >= 10 && contours <= 50 {
		score += 8
	}
	if score > 100 {
		score = 100
	}
	return float64(score)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
