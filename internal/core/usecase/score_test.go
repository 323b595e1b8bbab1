package usecase

import "testing"

func TestScoreChunkZeroOnDisjointVocabulary(t *testing.T) {
	if got := scoreChunk("fish live in water", "tell me about dogs"); got != 0 {
		t.Fatalf("scoreChunk() = %d, want 0 for disjoint vocabulary", got)
	}
}

func TestScoreChunkIgnoresShortTokens(t *testing.T) {
	// "me", "a", "is" are all under three runes and must not match.
	if got := scoreChunk("a is me a is me", "a is me"); got != 0 {
		t.Fatalf("scoreChunk() = %d, want 0 when every question token is too short", got)
	}
}

func TestScoreChunkCountsWholeWordsOnly(t *testing.T) {
	// "dogs" must not match inside "dogsled".
	if got := scoreChunk("the dogsled raced on", "dogs"); got != 0 {
		t.Fatalf("scoreChunk() = %d, want 0 for substring-only match", got)
	}
	if got := scoreChunk("the dogs raced on", "dogs"); got != 1 {
		t.Fatalf("scoreChunk() = %d, want 1 for one whole-word match", got)
	}
}

func TestScoreChunkMonotonicInOccurrences(t *testing.T) {
	single := scoreChunk("cats are great pets", "cats")
	repeated := scoreChunk("cats and cats and more cats", "cats")
	if single != 1 {
		t.Fatalf("single occurrence score = %d, want 1", single)
	}
	if repeated <= single {
		t.Fatalf("repeated occurrences score = %d, want > %d", repeated, single)
	}
}

func TestScoreChunkCaseInsensitive(t *testing.T) {
	if got := scoreChunk("The Contract was SIGNED", "contract signed"); got != 2 {
		t.Fatalf("scoreChunk() = %d, want 2 for case-insensitive matches", got)
	}
}

func TestScoreChunkTreatsUnderscoreAsWordCharacter(t *testing.T) {
	// foo_bar is one token, so "foo" alone must not match inside it.
	if got := scoreChunk("call foo_bar before shutdown", "foo"); got != 0 {
		t.Fatalf("scoreChunk() = %d, want 0 for partial identifier match", got)
	}
	if got := scoreChunk("call foo_bar before shutdown", "foo_bar"); got != 1 {
		t.Fatalf("scoreChunk() = %d, want 1 for full identifier match", got)
	}
}

func TestScoreChunkSumsAcrossKeywords(t *testing.T) {
	got := scoreChunk("dogs are loyal companions and dogs are friendly", "tell me about dogs companions")
	// "dogs" twice + "companions" once + "about"/"tell" zero.
	if got != 3 {
		t.Fatalf("scoreChunk() = %d, want 3", got)
	}
}
