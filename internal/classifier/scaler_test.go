package classifier

import (
	"math"
	"testing"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := [][]float64{
		{1, 100},
		{2, 200},
		{3, 300},
	}

	scaler := &StandardScaler{}
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	scaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	for d := 0; d < 2; d++ {
		sum := 0.0
		for _, row := range scaled {
			sum += row[d]
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("Column %d not centered: sum %v", d, sum)
		}
	}
	// Original matrix untouched.
	if X[0][0] != 1 {
		t.Error("Transform mutated its input")
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	X := [][]float64{{5, 1}, {5, 2}, {5, 3}}

	scaler := &StandardScaler{}
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	scaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	for _, row := range scaled {
		if row[0] != 0 {
			t.Errorf("Constant column should scale to 0, got %v", row[0])
		}
	}
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler := &StandardScaler{}
	if err := scaler.Fit([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := scaler.TransformRow([]float64{1, 2, 3}); err == nil {
		t.Error("Expected error for mismatched row width")
	}
}

func TestStandardScaler_NotFitted(t *testing.T) {
	scaler := &StandardScaler{}
	if _, err := scaler.TransformRow([]float64{1}); err == nil {
		t.Error("Expected error transforming with unfitted scaler")
	}
}

func TestLabelEncoder_RoundTrip(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"performative", "authentic", "performative"})

	if len(enc.Classes) != 2 {
		t.Fatalf("Expected 2 classes, got %d", len(enc.Classes))
	}
	// Sorted: authentic=0, performative=1 — positive class at index 1.
	if enc.Classes[0] != "authentic" || enc.Classes[1] != "performative" {
		t.Errorf("Unexpected class order: %v", enc.Classes)
	}

	encoded, err := enc.Transform([]string{"authentic", "performative"})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if encoded[0] != 0 || encoded[1] != 1 {
		t.Errorf("Unexpected encoding: %v", encoded)
	}

	decoded, err := enc.Inverse(encoded)
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}
	if decoded[0] != "authentic" || decoded[1] != "performative" {
		t.Errorf("Unexpected decoding: %v", decoded)
	}
}

func TestLabelEncoder_UnknownLabel(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"a", "b"})

	if _, err := enc.Transform([]string{"c"}); err == nil {
		t.Error("Expected error for unknown label")
	}
}

func TestStratifiedSplit_PreservesBalance(t *testing.T) {
	var X [][]float64
	var y []int
	for i := 0; i < 50; i++ {
		X = append(X, []float64{float64(i)}, []float64{float64(i) + 1000})
		y = append(y, 0, 1)
	}

	trainX, testX, trainY, testY, err := stratifiedSplit(X, y, 0.2, randomSeed)
	if err != nil {
		t.Fatalf("stratifiedSplit failed: %v", err)
	}
	if len(trainX) != len(trainY) || len(testX) != len(testY) {
		t.Fatal("Split sizes inconsistent")
	}
	if len(testY) != 20 {
		t.Errorf("Expected 20 test samples, got %d", len(testY))
	}

	testPos := 0
	for _, label := range testY {
		testPos += label
	}
	if testPos != 10 {
		t.Errorf("Expected 10 positive test samples, got %d", testPos)
	}
}

func TestStratifiedSplit_SameSeedSameSplit(t *testing.T) {
	// Three classes so the class visit order matters, not just the
	// per-class shuffle.
	var X [][]float64
	var y []int
	for i := 0; i < 90; i++ {
		X = append(X, []float64{float64(i)})
		y = append(y, i%3)
	}

	_, firstTestX, _, firstTestY, err := stratifiedSplit(X, y, 0.2, randomSeed)
	if err != nil {
		t.Fatalf("stratifiedSplit failed: %v", err)
	}

	for trial := 0; trial < 50; trial++ {
		_, testX, _, testY, err := stratifiedSplit(X, y, 0.2, randomSeed)
		if err != nil {
			t.Fatalf("trial %d: stratifiedSplit failed: %v", trial, err)
		}
		if len(testX) != len(firstTestX) {
			t.Fatalf("trial %d: test size %d differs from first %d", trial, len(testX), len(firstTestX))
		}
		for i := range testX {
			if testX[i][0] != firstTestX[i][0] || testY[i] != firstTestY[i] {
				t.Fatalf("trial %d: held-out sample %d differs (%v/%d vs %v/%d)",
					trial, i, testX[i][0], testY[i], firstTestX[i][0], firstTestY[i])
			}
		}
	}
}

func TestStratifiedFolds_SameSeedSameFolds(t *testing.T) {
	y := make([]int, 90)
	for i := range y {
		y[i] = i % 3
	}

	first, err := stratifiedFolds(y, 5, randomSeed)
	if err != nil {
		t.Fatalf("stratifiedFolds failed: %v", err)
	}

	for trial := 0; trial < 50; trial++ {
		folds, err := stratifiedFolds(y, 5, randomSeed)
		if err != nil {
			t.Fatalf("trial %d: stratifiedFolds failed: %v", trial, err)
		}
		for f := range folds {
			if len(folds[f]) != len(first[f]) {
				t.Fatalf("trial %d: fold %d size differs", trial, f)
			}
			for i := range folds[f] {
				if folds[f][i] != first[f][i] {
					t.Fatalf("trial %d: fold %d index %d differs (%d vs %d)",
						trial, f, i, folds[f][i], first[f][i])
				}
			}
		}
	}
}

func TestStratifiedFolds_CoverAllSamples(t *testing.T) {
	y := make([]int, 40)
	for i := range y {
		y[i] = i % 2
	}

	folds, err := stratifiedFolds(y, 5, randomSeed)
	if err != nil {
		t.Fatalf("stratifiedFolds failed: %v", err)
	}
	if len(folds) != 5 {
		t.Fatalf("Expected 5 folds, got %d", len(folds))
	}

	seen := make(map[int]bool)
	for _, fold := range folds {
		for _, idx := range fold {
			if seen[idx] {
				t.Errorf("Index %d appears in more than one fold", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != 40 {
		t.Errorf("Expected all 40 samples covered, got %d", len(seen))
	}
}
