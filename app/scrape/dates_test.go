package scrape

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeDate_DirectParse(t *testing.T) {
	result := NormalizeDate("January 15, 2024")
	if result == nil {
		t.Fatal("Expected a timestamp for a plain Month D, YYYY string")
	}
	if result.Year() != 2024 || result.Month() != time.January || result.Day() != 15 {
		t.Errorf("Expected 2024-01-15, got %v", result)
	}
}

func TestNormalizeDate_TriggerPhrase(t *testing.T) {
	result := NormalizeDate("died on January 15, 2024")
	if result == nil {
		t.Fatal("Expected a timestamp following the trigger phrase")
	}
	if result.Year() != 2024 || result.Month() != time.January || result.Day() != 15 {
		t.Errorf("Expected 2024-01-15, got %v", result)
	}
}

func TestNormalizeDate_EmbeddedISO(t *testing.T) {
	result := NormalizeDate("published 2023-06-09 by staff")
	if result == nil {
		t.Fatal("Expected a timestamp for embedded ISO date")
	}
	if result.Year() != 2023 || result.Month() != time.June || result.Day() != 9 {
		t.Errorf("Expected 2023-06-09, got %v", result)
	}
}

func TestNormalizeDate_LooseMonthSubstring(t *testing.T) {
	result := NormalizeDate("Services will be held following Mar. 3, 2022 at the chapel")
	if result == nil {
		t.Fatal("Expected a timestamp for loose month substring")
	}
	if result.Year() != 2022 || result.Month() != time.March || result.Day() != 3 {
		t.Errorf("Expected 2022-03-03, got %v", result)
	}
}

func TestNormalizeDate_Unparseable(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a date",
		"passed away peacefully",
		"died on some unknown day",
		"!!!@@@###",
		strings.Repeat("x", 10000),
	}

	for _, input := range inputs {
		if result := NormalizeDate(input); result != nil {
			t.Errorf("Expected nil for %q, got %v", input, result)
		}
	}
}

func TestNormalizeDate_SanityBound(t *testing.T) {
	// Parser artifacts that resolve before 1900 must be rejected.
	inputs := []string{
		"January 1, 1850",
		"0000-00-00",
		"1800-01-01",
	}

	for _, input := range inputs {
		if result := NormalizeDate(input); result != nil {
			t.Errorf("Expected nil for pre-1900 input %q, got %v", input, result)
		}
	}
}
