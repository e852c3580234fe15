package commands

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "geministudio [prompt]" {
		t.Errorf("unexpected Use: %q", rootCmd.Use)
	}
	if rootCmd.RunE == nil {
		t.Error("root command should have a RunE")
	}
}

func TestRootFlags(t *testing.T) {
	persistent := []string{"model", "verbose"}
	for _, name := range persistent {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}

	local := []string{"output", "file", "image", "persona", "search", "think", "save-images", "version"}
	for _, name := range local {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}

func TestRootFlagShorthands(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"output", "o"},
		{"file", "f"},
		{"image", "i"},
		{"version", "v"},
	}

	for _, tt := range tests {
		flag := rootCmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Errorf("missing flag --%s", tt.name)
			continue
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("flag --%s shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
		}
	}

	if flag := rootCmd.PersistentFlags().Lookup("model"); flag == nil || flag.Shorthand != "m" {
		t.Error("--model should have shorthand -m")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"studio":  false,
		"imagine": false,
		"edit":    false,
		"scene":   false,
		"config":  false,
		"history": false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGetModelFlagPrecedence(t *testing.T) {
	old := modelFlag
	defer func() { modelFlag = old }()

	modelFlag = "pro"
	if got := getModel(); got != "pro" {
		t.Errorf("getModel() = %q, want flag value %q", got, "pro")
	}
}

func TestConfigSubcommands(t *testing.T) {
	want := map[string]bool{"show": false, "set": false, "path": false, "set-key": false}
	for _, cmd := range configCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("config subcommand %q not registered", name)
		}
	}
}

func TestHistorySubcommands(t *testing.T) {
	want := map[string]bool{
		"list": false, "show": false, "export": false,
		"search": false, "favorite": false, "delete": false, "clear": false,
	}
	for _, cmd := range historyCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("history subcommand %q not registered", name)
		}
	}
}

func TestImagineFlags(t *testing.T) {
	for _, name := range []string{"count", "aspect", "negative", "out"} {
		if imagineCmd.Flags().Lookup(name) == nil {
			t.Errorf("imagine missing flag --%s", name)
		}
	}
	if flag := imagineCmd.Flags().Lookup("count"); flag != nil && flag.Shorthand != "n" {
		t.Error("--count should have shorthand -n")
	}
}

func TestSceneFlags(t *testing.T) {
	for _, name := range []string{"file", "gif", "frames", "fps", "size"} {
		if sceneCmd.Flags().Lookup(name) == nil {
			t.Errorf("scene missing flag --%s", name)
		}
	}
}

func TestStudioFlags(t *testing.T) {
	for _, name := range []string{"resume", "scene"} {
		if studioCmd.Flags().Lookup(name) == nil {
			t.Errorf("studio missing flag --%s", name)
		}
	}
}
