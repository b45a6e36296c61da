package classifier

import "sort"

// ClassMetrics are per-class precision/recall/F1 figures.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

func accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// confusionMatrix returns counts[actual][predicted].
func confusionMatrix(yTrue, yPred []int, classes int) [][]int {
	m := make([][]int, classes)
	for i := range m {
		m[i] = make([]int, classes)
	}
	for i := range yTrue {
		m[yTrue[i]][yPred[i]]++
	}
	return m
}

// classificationReport computes per-class precision, recall and F1.
func classificationReport(yTrue, yPred []int, classNames []string) map[string]ClassMetrics {
	classes := len(classNames)
	confusion := confusionMatrix(yTrue, yPred, classes)

	report := make(map[string]ClassMetrics, classes)
	for c := 0; c < classes; c++ {
		tp := confusion[c][c]
		support, predicted := 0, 0
		for other := 0; other < classes; other++ {
			support += confusion[c][other]
			predicted += confusion[other][c]
		}
		var precision, recall, f1 float64
		if predicted > 0 {
			precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			recall = float64(tp) / float64(support)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report[classNames[c]] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
	}
	return report
}

// rocAUC computes the binary area under the ROC curve via the
// rank-sum formulation, handling tied probabilities with mid-ranks.
// Defined only when both classes are present; returns 0 otherwise.
func rocAUC(yTrue []int, posProb []float64) float64 {
	n := len(yTrue)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return posProb[order[a]] < posProb[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && posProb[order[j]] == posProb[order[i]] {
			j++
		}
		// Mid-rank for ties; ranks are 1-based
		mid := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = mid
		}
		i = j
	}

	var posRankSum float64
	pos, neg := 0, 0
	for i, label := range yTrue {
		if label == 1 {
			pos++
			posRankSum += ranks[i]
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}
	return (posRankSum - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}

func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func maxval(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
