package config

import "testing"

func TestAnswersFrom_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Name = "Sam"
	cfg.Effects.Disabled = true

	a := AnswersFrom(cfg)
	if a.Name != "Sam" || a.Effects || a.Threshold != "6" || a.Backend != "file" {
		t.Fatalf("AnswersFrom = %+v", a)
	}

	got, err := a.Apply(DefaultConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Content.Name != "Sam" || !got.Effects.Disabled || got.Proposal.Threshold != 6 {
		t.Fatalf("Apply lost answers: %+v", got)
	}
}

func TestSetupAnswers_Apply(t *testing.T) {
	a := SetupAnswers{Name: "  Alex ", Lang: "es", Backend: "SQLite", Effects: true, Threshold: " 3 "}
	cfg, err := a.Apply(DefaultConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Content.Name != "Alex" {
		t.Errorf("Name = %q", cfg.Content.Name)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, want normalized sqlite", cfg.Storage.Backend)
	}
	if cfg.Proposal.Threshold != 3 || cfg.UI.Lang != "es" || cfg.Effects.Disabled {
		t.Errorf("unexpected config: %+v", cfg)
	}

	// Empty name falls back to the default greeting name.
	a.Name = ""
	cfg, _ = a.Apply(DefaultConfig())
	if cfg.Content.Name == "" {
		t.Error("empty name should take the default")
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"6", false},
		{" 1 ", false},
		{"20", false},
		{"0", true},
		{"21", true},
		{"six", true},
		{"", true},
	}
	for _, tt := range tests {
		if err := validateThreshold(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateThreshold(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}

	if _, err := (SetupAnswers{Threshold: "0"}).Apply(DefaultConfig()); err == nil {
		t.Error("Apply should reject an invalid threshold")
	}
}

func TestSetupForm_Builds(t *testing.T) {
	a := AnswersFrom(DefaultConfig())
	if SetupForm(&a) == nil {
		t.Fatal("SetupForm returned nil")
	}
}
