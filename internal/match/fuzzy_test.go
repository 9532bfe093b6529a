package match

import "testing"

func TestFuzzyMatcherSimilarityExactMatchIsHundred(t *testing.T) {
	m := NewFuzzyMatcher()
	if got := m.Similarity("getUser", "getUser"); got != 100 {
		t.Fatalf("Similarity() = %d, want 100", got)
	}
}

func TestFuzzyMatcherSimilarityCloseMatchScoresHigh(t *testing.T) {
	m := NewFuzzyMatcher()
	got := m.Similarity("getUser", "get_user")
	if got < 90 {
		t.Fatalf("Similarity() = %d, want >= 90 for near-identical identifiers", got)
	}
}

func TestFuzzyMatcherSimilarityUnrelatedIsZero(t *testing.T) {
	m := NewFuzzyMatcher()
	if got := m.Similarity("getUser", "zzz"); got != 0 {
		t.Fatalf("Similarity() = %d, want 0 for unrelated identifiers", got)
	}
}

func TestFuzzyMatcherSimilarityEmptyInputs(t *testing.T) {
	m := NewFuzzyMatcher()
	if got := m.Similarity("", "getUser"); got != 0 {
		t.Fatalf("Similarity(\"\", ...) = %d, want 0", got)
	}
	if got := m.Similarity("getUser", ""); got != 0 {
		t.Fatalf("Similarity(..., \"\") = %d, want 0", got)
	}
}

func TestFuzzyMatcherMatchFiltersByThreshold(t *testing.T) {
	m := &FuzzyMatcher{Threshold: 99}
	corpus := []string{"getUser", "get_user", "deleteAccount"}
	matches := m.Match("getUser", corpus)
	for _, match := range matches {
		if match.Score < 99 {
			t.Errorf("Match() returned %+v below threshold 99", match)
		}
	}
}

func TestFuzzyMatcherMatchSortedDescending(t *testing.T) {
	m := NewFuzzyMatcher()
	m.Threshold = 1
	matches := m.Match("getUser", []string{"getUsers", "xyzzy", "getUser"})
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Fatalf("Match() not sorted descending: %+v", matches)
		}
	}
}
