package config

import (
	"os"
	"testing"
)

func TestDefaultPersonas(t *testing.T) {
	personas := DefaultPersonas()

	if len(personas) == 0 {
		t.Fatal("DefaultPersonas() returned empty list")
	}

	// Check for expected personas
	expected := []string{"default", "director", "photographer", "storyteller", "prompter"}
	for _, name := range expected {
		found := false
		for _, p := range personas {
			if p.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected persona '%s' not found", name)
		}
	}

	// The default persona must have no system prompt
	for _, p := range personas {
		if p.Name == "default" && p.SystemPrompt != "" {
			t.Error("default persona should have empty system prompt")
		}
	}
}

func TestValidatePersona(t *testing.T) {
	tests := []struct {
		name    string
		persona Persona
		wantErr bool
	}{
		{
			name:    "valid persona",
			persona: Persona{Name: "my-persona", Description: "test", SystemPrompt: "hello"},
			wantErr: false,
		},
		{
			name:    "empty name",
			persona: Persona{Name: ""},
			wantErr: true,
		},
		{
			name:    "name with spaces",
			persona: Persona{Name: "bad name"},
			wantErr: true,
		},
		{
			name:    "name too long",
			persona: Persona{Name: string(make([]byte, MaxNameLength+1))},
			wantErr: true,
		},
		{
			name: "description too long",
			persona: Persona{
				Name:        "ok",
				Description: string(make([]byte, MaxDescriptionLength+1)),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersona(tt.persona)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersona() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergePersonas(t *testing.T) {
	defaults := []Persona{
		{Name: "default", SystemPrompt: ""},
		{Name: "director", SystemPrompt: "original"},
	}
	custom := []Persona{
		{Name: "director", SystemPrompt: "customized"},
		{Name: "mine", SystemPrompt: "new one"},
	}

	merged := mergePersonas(defaults, custom)

	if len(merged) != 3 {
		t.Fatalf("mergePersonas() returned %d personas, want 3", len(merged))
	}

	for _, p := range merged {
		if p.Name == "director" && p.SystemPrompt != "customized" {
			t.Error("custom persona should override default with same name")
		}
	}
}

func TestPersonaCRUD(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	_ = os.Setenv("HOME", tmpDir)
	defer func() { _ = os.Setenv("HOME", oldHome) }()

	// Add
	persona := Persona{Name: "testbot", Description: "test persona", SystemPrompt: "be testy"}
	if err := AddPersona(persona); err != nil {
		t.Fatalf("AddPersona() returned error: %v", err)
	}

	// Adding again should fail
	if err := AddPersona(persona); err == nil {
		t.Error("AddPersona() with duplicate name should return error")
	}

	// Get
	got, err := GetPersona("testbot")
	if err != nil {
		t.Fatalf("GetPersona() returned error: %v", err)
	}
	if got.SystemPrompt != "be testy" {
		t.Errorf("SystemPrompt = %s, want 'be testy'", got.SystemPrompt)
	}

	// Update
	persona.SystemPrompt = "be precise"
	if err := UpdatePersona(persona); err != nil {
		t.Fatalf("UpdatePersona() returned error: %v", err)
	}
	got, _ = GetPersona("testbot")
	if got.SystemPrompt != "be precise" {
		t.Errorf("SystemPrompt after update = %s, want 'be precise'", got.SystemPrompt)
	}

	// Set default
	if err := SetDefaultPersona("testbot"); err != nil {
		t.Fatalf("SetDefaultPersona() returned error: %v", err)
	}
	def, err := GetDefaultPersona()
	if err != nil {
		t.Fatalf("GetDefaultPersona() returned error: %v", err)
	}
	if def.Name != "testbot" {
		t.Errorf("default persona = %s, want testbot", def.Name)
	}

	// Delete resets the default
	if err := DeletePersona("testbot"); err != nil {
		t.Fatalf("DeletePersona() returned error: %v", err)
	}
	def, err = GetDefaultPersona()
	if err != nil {
		t.Fatalf("GetDefaultPersona() after delete returned error: %v", err)
	}
	if def.Name != "default" {
		t.Errorf("default persona after delete = %s, want default", def.Name)
	}

	// Deleting the default persona is not allowed
	if err := DeletePersona("default"); err == nil {
		t.Error("DeletePersona(\"default\") should return error")
	}
}

func TestGetPersona_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	_ = os.Setenv("HOME", tmpDir)
	defer func() { _ = os.Setenv("HOME", oldHome) }()

	if _, err := GetPersona("nope"); err == nil {
		t.Error("GetPersona() for unknown persona should return error")
	}
}
