package vision

import "testing"

// grayFrame builds a flat grayscale plane filled with value v.
func grayFrame(width, height int, v uint8) []uint8 {
	gray := make([]uint8, width*height)
	for i := range gray {
		gray[i] = v
	}
	return gray
}

func TestSobelEdges_FlatImage(t *testing.T) {
	gray := grayFrame(40, 30, 128)

	edges := sobelEdges(gray, 40, 30)
	if edges.count != 0 {
		t.Errorf("Expected 0 edges on flat image, got %d", edges.count)
	}
	if edges.comX != 0.5 || edges.comY != 0.5 {
		t.Errorf("Empty mask must report center of mass (0.5, 0.5), got (%v, %v)", edges.comX, edges.comY)
	}
	if edges.verticalRatio() != 0 || edges.horizontalRatio() != 0 {
		t.Error("Expected zero orientation ratios with no edges")
	}
}

func TestSobelEdges_VerticalStep(t *testing.T) {
	width, height := 40, 30
	gray := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= width/2 {
				gray[y*width+x] = 255
			}
		}
	}

	edges := sobelEdges(gray, width, height)
	if edges.count == 0 {
		t.Fatal("Expected edges along the step")
	}
	// A vertical step responds on the x gradient.
	if edges.verticalRatio() != 1 {
		t.Errorf("Expected all-vertical edges, got ratio %v", edges.verticalRatio())
	}
	// Edge column sits at the step, near the horizontal center.
	if edges.comX < 0.4 || edges.comX > 0.6 {
		t.Errorf("Expected edge mass near x center, got %v", edges.comX)
	}
}

func TestContourCount_SeparateBlobs(t *testing.T) {
	width, height := 30, 20
	mask := make([]bool, width*height)

	// Two 2x2 blobs far apart, each of exactly minContourSize pixels.
	for _, origin := range []struct{ x, y int }{{2, 2}, {20, 10}} {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				mask[(origin.y+dy)*width+origin.x+dx] = true
			}
		}
	}
	// One isolated pixel below the size threshold.
	mask[15*width+5] = true

	if got := contourCount(mask, width, height); got != 2 {
		t.Errorf("Expected 2 contours, got %d", got)
	}
}

func TestContourCount_DiagonalConnectivity(t *testing.T) {
	width, height := 10, 10
	mask := make([]bool, width*height)

	// A diagonal line is one 8-connected component.
	for i := 0; i < 5; i++ {
		mask[i*width+i] = true
	}

	if got := contourCount(mask, width, height); got != 1 {
		t.Errorf("Expected 1 diagonal contour, got %d", got)
	}
}

func TestLaplacianVariance_FlatIsZero(t *testing.T) {
	gray := grayFrame(20, 20, 77)
	if v := laplacianVariance(gray, 20, 20); v != 0 {
		t.Errorf("Expected 0 variance on flat image, got %v", v)
	}
}

func TestLaplacianVariance_TexturedIsPositive(t *testing.T) {
	width, height := 20, 20
	gray := make([]uint8, width*height)
	for i := range gray {
		if i%2 == 0 {
			gray[i] = 255
		}
	}
	if v := laplacianVariance(gray, width, height); v <= 0 {
		t.Errorf("Expected positive variance on textured image, got %v", v)
	}
}

func TestSymmetryScore_MirroredImage(t *testing.T) {
	width, height := 21, 10
	gray := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := x
			if mirrored := width - 1 - x; mirrored < d {
				d = mirrored
			}
			gray[y*width+x] = uint8(d * 20)
		}
	}

	if score := symmetryScore(gray, width, height); score != 1 {
		t.Errorf("Expected symmetry 1 for mirrored image, got %v", score)
	}
}

func TestSymmetryScore_Asymmetric(t *testing.T) {
	width, height := 20, 10
	gray := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			gray[y*width+x] = 255
		}
	}

	if score := symmetryScore(gray, width, height); score != 0 {
		t.Errorf("Expected symmetry 0 for half-black half-white image, got %v", score)
	}
}

func TestRuleOfThirds_EmptyMask(t *testing.T) {
	mask := make([]bool, 300*300)
	if score := ruleOfThirdsScore(mask, 300, 300); score != 0 {
		t.Errorf("Expected 0 for empty mask, got %v", score)
	}
}

func TestRuleOfThirds_EdgeAtIntersection(t *testing.T) {
	width, height := 300, 300
	mask := make([]bool, width*height)
	// Exactly on the top-left thirds intersection.
	mask[(height/3)*width+width/3] = true

	if score := ruleOfThirdsScore(mask, width, height); score != 1 {
		t.Errorf("Expected 1 for edge at intersection, got %v", score)
	}
}

func TestRuleOfThirds_EdgeInCorner(t *testing.T) {
	width, height := 300, 300
	mask := make([]bool, width*height)
	mask[0] = true

	if score := ruleOfThirdsScore(mask, width, height); score != 0 {
		t.Errorf("Expected 0 for corner edge, got %v", score)
	}
}

func TestFastKeypoints_FlatImage(t *testing.T) {
	gray := grayFrame(50, 50, 100)
	if kp := fastKeypoints(gray, 50, 50); kp != 0 {
		t.Errorf("Expected 0 FAST keypoints on flat image, got %d", kp)
	}
}

func TestFastKeypoints_BrightSpot(t *testing.T) {
	width, height := 50, 50
	gray := make([]uint8, width*height)
	// A bright 3x3 blob on dark background is a corner-rich target.
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			gray[(25+dy)*width+25+dx] = 255
		}
	}

	if kp := fastKeypoints(gray, width, height); kp == 0 {
		t.Error("Expected FAST response around an isolated bright blob")
	}
}

func TestHarrisKeypoints_FlatImage(t *testing.T) {
	gray := grayFrame(50, 50, 100)
	if kp := harrisKeypoints(gray, 50, 50); kp != 0 {
		t.Errorf("Expected 0 Harris keypoints on flat image, got %d", kp)
	}
}

func TestShiTomasiCorners_FlatImage(t *testing.T) {
	gray := grayFrame(50, 50, 100)
	if c := shiTomasiCorners(gray, 50, 50); c != 0 {
		t.Errorf("Expected 0 corners on flat image, got %d", c)
	}
}
