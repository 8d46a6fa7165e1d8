package feed

import "testing"

func TestClassifier_ExcludesGeneralNews(t *testing.T) {
	classifier := NewClassifier(nil)

	if classifier.IsObituary("Town Council Meeting Notes", "Agenda items for the monthly meeting.") {
		t.Error("General news item must not classify as an obituary")
	}
}

func TestClassifier_IncludesObituaryPhrases(t *testing.T) {
	classifier := NewClassifier(nil)

	cases := []struct {
		title       string
		description string
	}{
		{"Jane Doe", "passed away peacefully surrounded by family"},
		{"In Loving Memory of John Smith", ""},
		{"Mary Major, 87", "She is survived by her three children."},
		{"Rabbi Cohen z\"l", ""},
		{"Community Notice", "Shiva will be observed at the family home."},
	}

	for _, tc := range cases {
		if !classifier.IsObituary(tc.title, tc.description) {
			t.Errorf("Expected obituary classification for %q / %q", tc.title, tc.description)
		}
	}
}

func TestClassifier_CaseInsensitive(t *testing.T) {
	classifier := NewClassifier(nil)

	if !classifier.IsObituary("JANE DOE PASSED AWAY", "") {
		t.Error("Classification must be case-insensitive")
	}
}

func TestClassifier_CustomKeywords(t *testing.T) {
	classifier := NewClassifier([]string{"niftar"})

	if !classifier.IsObituary("Reb Shlomo was niftar on Sunday", "") {
		t.Error("Expected custom keyword match")
	}
	if classifier.IsObituary("Jane Doe passed away", "") {
		t.Error("Custom keywords replace the default list entirely")
	}
}
