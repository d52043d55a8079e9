package detect

import (
	"testing"

	"github.com/yourusername/wordguard/internal/packs"
)

func newBootstrapDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDefault(packs.Bootstrap())
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	return d
}

func TestScenarioBasicWholeWord(t *testing.T) {
	d := newBootstrapDetector(t)
	result := d.Detect("you are a bitch")
	if !result.HasProfanity {
		t.Fatal("expected profanity detected")
	}
	found := false
	for _, m := range result.Matches {
		if m.Word == "bitch" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a match for %q, got %+v", "bitch", result.Matches)
	}
}

func TestScenarioSanitizeDefaultMasking(t *testing.T) {
	d := newBootstrapDetector(t)
	got := d.Sanitize("shit happens")
	want := "s*** happens"
	if got != want {
		t.Errorf("Sanitize() = %q, want %q", got, want)
	}
}

func TestScenarioConfusableMapping(t *testing.T) {
	d := newBootstrapDetector(t)
	result := d.Detect("sh1t happens")
	if !result.HasProfanity {
		t.Fatal("expected profanity detected via confusable mapping")
	}
	m := result.Matches[0]
	if m.Start != 0 || m.Length != 4 {
		t.Errorf("got span {Start:%d Length:%d}, want {0 4}", m.Start, m.Length)
	}
}

func TestScenarioSeparatorTransparency(t *testing.T) {
	d := newBootstrapDetector(t)
	result := d.Detect("s*h-i t happens")
	if !result.HasProfanity {
		t.Fatal("expected profanity detected across separators")
	}
	m := result.Matches[0]
	if m.Start != 0 || m.Length != 7 {
		t.Errorf("got span {Start:%d Length:%d}, want {0 7}", m.Start, m.Length)
	}
}

func TestScenarioInvisibleStripping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection.IgnoreSeparators[0x2001] = true // EM QUAD, alongside the stripped ZWSP/ZWJ
	d, err := New(packs.Bootstrap(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := d.Detect("s​h i‍t")
	if !result.HasProfanity {
		t.Fatal("expected profanity detected through invisible characters")
	}
	m := result.Matches[0]
	if m.Start != 0 || m.Word != "shit" {
		t.Errorf("got span {Start:%d Word:%q}, want {0 \"shit\"}", m.Start, m.Word)
	}
}

func TestScenarioPhraseWithStopwordSkips(t *testing.T) {
	d := newBootstrapDetector(t)
	d.AddPhrase("son of a bitch")

	// Remove the standalone word so only the phrase stage can fire.
	d.RemoveWord("bitch", "en")

	result := d.Detect("you are a son of the a   bitch indeed")
	if !result.HasProfanity {
		t.Fatal("expected phrase match")
	}
}

func TestFuzzyFallbackOnlyWhenExactStageEmpty(t *testing.T) {
	d := newBootstrapDetector(t)
	// "bastard" (7 letters) scales to a 1-edit budget (floor(7/5)=1);
	// "basterd" is one substitution away.
	result := d.Detect("you absolute basterd")
	if !result.HasProfanity {
		t.Fatal("expected a fuzzy match for a one-edit misspelling")
	}
}

func TestAllowlistSuppressesMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection.Allowlist = map[string]bool{"ass": true}
	d, err := New(packs.Bootstrap(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result := d.Detect("class act")
	for _, m := range result.Matches {
		if m.Word == "ass" {
			t.Errorf("expected allowlisted word to be suppressed, got %+v", result.Matches)
		}
	}
}

func TestSanitizeIsProjection(t *testing.T) {
	d := newBootstrapDetector(t)
	once := d.Sanitize("you are a bitch")
	twice := d.Sanitize(once)
	if once != twice {
		t.Errorf("sanitize not idempotent: %q != %q", once, twice)
	}
}

func TestSanitizePreservesLength(t *testing.T) {
	d := newBootstrapDetector(t)
	input := "you are a bitch"
	got := d.Sanitize(input)
	if len([]rune(got)) != len([]rune(input)) {
		t.Errorf("Sanitize() changed length: %d != %d", len([]rune(got)), len([]rune(input)))
	}
}

func TestNewRejectsNegativeMaxEditDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection.MaxEditDistance = -1
	if _, err := New(packs.Bootstrap(), cfg); err == nil {
		t.Fatal("expected an error for negative max_edit_distance")
	}
}

func TestNewRejectsNegativePhraseMaxSkips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection.PhraseMaxSkips = -1
	if _, err := New(packs.Bootstrap(), cfg); err == nil {
		t.Fatal("expected an error for negative phrase_max_skips")
	}
}

func TestDetectUnknownLanguageIsEmptyNotError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Languages.Enabled = []string{"xx"}
	cfg.Languages.Fallback = "xx"
	d, err := New(packs.NewMemory(nil), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result := d.Detect("anything at all")
	if result.HasProfanity {
		t.Errorf("expected no matches for an unknown empty language, got %+v", result.Matches)
	}
}

func TestMonotonicityUnderWordAddition(t *testing.T) {
	d := newBootstrapDetector(t)
	before := d.Detect("that is a zoinks moment")
	if before.HasProfanity {
		t.Fatal("precondition failed: zoinks should not yet be profane")
	}
	d.AddWord("zoinks", "en")
	after := d.Detect("that is a zoinks moment")
	if !after.HasProfanity {
		t.Error("expected detection after adding the word")
	}
}
