package vision

// thirdsBand is the pixel tolerance around each rule-of-thirds line.
const thirdsBand = 20

// ruleOfThirdsScore is the fraction of edge pixels lying near a
// rule-of-thirds intersection. 0 when the image has no edges.
func ruleOfThirdsScore(mask []bool, width, height int) float64 {
	thirdsX := [2]int{width / 3, 2 * width / 3}
	thirdsY := [2]int{height / 3, 2 * height / 3}

	total, near := 0, 0
	for idx, on := range mask {
		if !on {
			continue
		}
		total++
		x, y := idx%width, idx/width
		if nearLine(x, thirdsX) && nearLine(y, thirdsY) {
			near++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(near) / float64(total)
}

func nearLine(v int, lines [2]int) bool {
	for _, l := range lines {
		if v >= l-thirdsBand && v <= l+thirdsBand {
			return true
		}
	}
	return false
}

// symmetryScore measures left-right symmetry as 1 minus the mean
// absolute difference between the image and its horizontal mirror.
// 1.0 is perfectly symmetric.
func symmetryScore(gray []uint8, width, height int) float64 {
	half := width / 2
	if half == 0 {
		return 1
	}
	var diff float64
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < half; x++ {
			left := int(gray[row+x])
			right := int(gray[row+width-1-x])
			diff += float64(abs(left - right))
		}
	}
	diff /= float64(half * height)
	return 1 - diff/255
}
