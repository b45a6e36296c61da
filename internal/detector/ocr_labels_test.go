package detector

import "testing"

func TestMatchTokens_ExactKeyword(t *testing.T) {
	p := NewOCRLabelProvider(DefaultCatalog())

	labels := p.matchTokens("my trusty TYPEWRITER sits here")
	if !containsLabel(labels, "typewriter") {
		t.Errorf("Expected typewriter label, got %v", labels)
	}
}

func TestMatchTokens_OneEditTolerance(t *testing.T) {
	p := NewOCRLabelProvider(DefaultCatalog())

	// Common OCR confusion: "vinyI" for "vinyl".
	labels := p.matchTokens("limited edition vinyi pressing")
	if !containsLabel(labels, "vinyl") {
		t.Errorf("Expected vinyl via one-edit match, got %v", labels)
	}
}

func TestMatchTokens_ShortTokensIgnored(t *testing.T) {
	p := NewOCRLabelProvider(DefaultCatalog())

	// "ip" is two characters; it must not fuzz onto "ipa".
	labels := p.matchTokens("ip no xy")
	if len(labels) != 0 {
		t.Errorf("Expected no labels for short tokens, got %v", labels)
	}
}

func TestMatchTokens_Deduplicates(t *testing.T) {
	p := NewOCRLabelProvider(DefaultCatalog())

	labels := p.matchTokens("coffee coffee coffee")
	count := 0
	for _, l := range labels {
		if l == "coffee" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected coffee once, got %d times", count)
	}
}

func TestMatchTokens_StripsPunctuation(t *testing.T) {
	p := NewOCRLabelProvider(DefaultCatalog())

	labels := p.matchTokens(`"flannel," he said.`)
	if !containsLabel(labels, "flannel") {
		t.Errorf("Expected flannel after punctuation strip, got %v", labels)
	}
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
