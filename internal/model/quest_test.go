package model

import (
	"errors"
	"testing"
	"time"
)

func TestQuestValidateSuccess(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	quest := Quest{
		ID:             "quest-1",
		Title:          "Morning stretch",
		Cadence:        CadenceDaily,
		EnergyRequired: "Average",
		CreatedAt:      now,
	}
	if err := quest.Validate(); err != nil {
		t.Fatalf("expected valid quest, got error: %v", err)
	}
}

func TestQuestValidateInvalidCadence(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	quest := Quest{
		ID:        "quest-1",
		Title:     "Bad cadence",
		Cadence:   Cadence("hourly"),
		CreatedAt: now,
	}
	err := quest.Validate()
	if err == nil || !errors.Is(err, ErrInvalidCadence) {
		t.Fatalf("expected ErrInvalidCadence, got: %v", err)
	}
}

func TestQuestValidateProgressiveNeedsTarget(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	quest := Quest{
		ID:            "quest-1",
		Title:         "Read pages",
		Cadence:       CadenceDaily,
		IsProgressive: true,
		CreatedAt:     now,
	}
	err := quest.Validate()
	if err == nil || !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got: %v", err)
	}
}

func TestCompletedOnPrefersHistory(t *testing.T) {
	quest := Quest{
		CompletionHistory: map[string]bool{"2026-08-02": true},
	}
	if !quest.CompletedOn("2026-08-02") {
		t.Fatal("expected completion from history")
	}
	if quest.CompletedOn("2026-08-03") {
		t.Fatal("unexpected completion for date outside history")
	}
}

func TestCompletedOnLegacyFallback(t *testing.T) {
	quest := Quest{
		Completed:     true,
		CompletedDate: "2026-08-02",
	}
	if !quest.CompletedOn("2026-08-02") {
		t.Fatal("expected legacy single-flag completion to count")
	}
	if quest.CompletedOn("2026-08-01") {
		t.Fatal("legacy flag must only cover its own date")
	}
}

func TestParseCadence(t *testing.T) {
	c, err := ParseCadence(" Weekly ")
	if err != nil {
		t.Fatalf("parse cadence: %v", err)
	}
	if c != CadenceWeekly {
		t.Fatalf("expected weekly, got %q", c)
	}
	if _, err := ParseCadence("fortnightly"); err == nil {
		t.Fatal("expected error for unknown cadence")
	}
}
