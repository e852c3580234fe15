package history

import (
	"strings"
	"testing"
	"time"
)

// seedStore creates a store with three conversations titled oldest to
// newest. Returns the store and the conversations in creation order.
func seedStore(t *testing.T) (*Store, []*Conversation) {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	titles := []string{"Cube scene questions", "Portrait edits", "Sunset renders"}
	var convs []*Conversation
	for _, title := range titles {
		conv, err := store.CreateConversation("test-model")
		if err != nil {
			t.Fatal(err)
		}
		if err := store.UpdateTitle(conv.ID, title); err != nil {
			t.Fatal(err)
		}
		convs = append(convs, conv)
		time.Sleep(5 * time.Millisecond) // distinct UpdatedAt stamps
	}

	return store, convs
}

func TestResolver_Resolve_Aliases(t *testing.T) {
	store, convs := seedStore(t)
	resolver := NewResolver(store)

	id, err := resolver.Resolve("@last")
	if err != nil {
		t.Fatalf("Resolve(@last) failed: %v", err)
	}
	if id != convs[2].ID {
		t.Errorf("@last = %s, want %s", id, convs[2].ID)
	}

	id, err = resolver.Resolve("@first")
	if err != nil {
		t.Fatalf("Resolve(@first) failed: %v", err)
	}
	if id != convs[0].ID {
		t.Errorf("@first = %s, want %s", id, convs[0].ID)
	}
}

func TestResolver_Resolve_Index(t *testing.T) {
	store, convs := seedStore(t)
	resolver := NewResolver(store)

	// Index 1 is the most recent
	id, err := resolver.Resolve("1")
	if err != nil {
		t.Fatalf("Resolve(1) failed: %v", err)
	}
	if id != convs[2].ID {
		t.Errorf("index 1 = %s, want %s", id, convs[2].ID)
	}

	id, err = resolver.Resolve("3")
	if err != nil {
		t.Fatalf("Resolve(3) failed: %v", err)
	}
	if id != convs[0].ID {
		t.Errorf("index 3 = %s, want %s", id, convs[0].ID)
	}
}

func TestResolver_Resolve_IndexOutOfRange(t *testing.T) {
	store, _ := seedStore(t)
	resolver := NewResolver(store)

	if _, err := resolver.Resolve("0"); err == nil {
		t.Error("expected error for index 0")
	}
	if _, err := resolver.Resolve("99"); err == nil {
		t.Error("expected error for index 99")
	}
}

func TestResolver_Resolve_DirectID(t *testing.T) {
	store, convs := seedStore(t)
	resolver := NewResolver(store)

	id, err := resolver.Resolve(convs[1].ID)
	if err != nil {
		t.Fatalf("Resolve(direct ID) failed: %v", err)
	}
	if id != convs[1].ID {
		t.Errorf("direct ID = %s, want %s", id, convs[1].ID)
	}

	if _, err := resolver.Resolve("conv-00000000"); err == nil {
		t.Error("expected error for unknown direct ID")
	}
}

func TestResolver_Resolve_Substring(t *testing.T) {
	store, convs := seedStore(t)
	resolver := NewResolver(store)

	id, err := resolver.Resolve("portrait")
	if err != nil {
		t.Fatalf("Resolve(substring) failed: %v", err)
	}
	if id != convs[1].ID {
		t.Errorf("substring = %s, want %s", id, convs[1].ID)
	}
}

func TestResolver_Resolve_AmbiguousSubstring(t *testing.T) {
	store, _ := seedStore(t)
	resolver := NewResolver(store)

	// "e" appears in every title
	_, err := resolver.Resolve("e")
	if err == nil {
		t.Fatal("expected error for ambiguous match")
	}
	if !strings.Contains(err.Error(), "multiple conversations match") {
		t.Errorf("error = %v, want multiple-match message", err)
	}
}

func TestResolver_Resolve_NoMatch(t *testing.T) {
	store, _ := seedStore(t)
	resolver := NewResolver(store)

	if _, err := resolver.Resolve("zzz-not-there"); err == nil {
		t.Error("expected error for no match")
	}
}

func TestResolver_Resolve_Empty(t *testing.T) {
	store, _ := seedStore(t)
	resolver := NewResolver(store)

	if _, err := resolver.Resolve(""); err == nil {
		t.Error("expected error for empty reference")
	}
	if _, err := resolver.Resolve("   "); err == nil {
		t.Error("expected error for blank reference")
	}
}

func TestResolver_Resolve_EmptyStore(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	resolver := NewResolver(store)

	if _, err := resolver.Resolve("@last"); err == nil {
		t.Error("expected error when no conversations exist")
	}
}

func TestResolver_ResolveWithInfo(t *testing.T) {
	store, convs := seedStore(t)
	resolver := NewResolver(store)

	conv, err := resolver.ResolveWithInfo("@last")
	if err != nil {
		t.Fatalf("ResolveWithInfo failed: %v", err)
	}
	if conv.ID != convs[2].ID {
		t.Errorf("ID = %s, want %s", conv.ID, convs[2].ID)
	}
	if conv.Title != "Sunset renders" {
		t.Errorf("Title = %s", conv.Title)
	}
}

func TestListAliases(t *testing.T) {
	aliases := ListAliases()
	for _, want := range []string{"@last", "@first", "conv-"} {
		if !strings.Contains(aliases, want) {
			t.Errorf("ListAliases() missing %s", want)
		}
	}
}
