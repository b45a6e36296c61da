package classifier

import (
	"fmt"
	"sort"
)

// LabelEncoder maps string class labels to contiguous integer indices.
// Classes are sorted so the encoding is deterministic; for the binary
// performative task index 1 is the positive class.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

func (e *LabelEncoder) Fit(labels []string) {
	seen := make(map[string]bool)
	e.Classes = e.Classes[:0]
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			e.Classes = append(e.Classes, l)
		}
	}
	sort.Strings(e.Classes)
}

func (e *LabelEncoder) fitted() bool {
	return len(e.Classes) > 0
}

func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		idx := sort.SearchStrings(e.Classes, l)
		if idx >= len(e.Classes) || e.Classes[idx] != l {
			return nil, fmt.Errorf("unknown label: %q", l)
		}
		out[i] = idx
	}
	return out, nil
}

func (e *LabelEncoder) Inverse(indices []int) ([]string, error) {
	out := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(e.Classes) {
			return nil, fmt.Errorf("class index %d out of range", idx)
		}
		out[i] = e.Classes[idx]
	}
	return out, nil
}
