package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserFileSelectionStoresResult(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"take.json": "[-1, -2]",
	})
	defer restore()

	m := NewBrowser()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(BrowserModel)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	result := m.Result()
	if result.Path != "take.json" || result.Cancelled {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBrowserPathEntry(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewBrowser()
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if !m.pathMode {
		t.Fatal("expected path entry mode")
	}

	m.input.SetValue("  takes/second.yaml ")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if got := m.Result().Path; got != "takes/second.yaml" {
		t.Fatalf("expected trimmed path, got %q", got)
	}
}

func TestBrowserCancel(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	model, cmd := NewBrowser().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !model.(BrowserModel).Result().Cancelled {
		t.Fatal("expected cancelled result")
	}
}

func TestBrowserListsOnlySampleFiles(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"one.json":  "[]",
		"two.YAML":  "[]",
		"notes.txt": "[]",
		"song.mp3":  "data",
		"cover.png": "data",
	})
	defer restore()

	m := NewBrowser()
	var got []string
	for _, item := range m.list.Items() {
		if file, ok := item.(fileItem); ok {
			got = append(got, file.name+file.ext)
		}
	}
	want := []string{"notes.txt", "one.json", "two.YAML"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func chdirTemp(t *testing.T, files map[string]string) func() {
	t.Helper()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp dir: %v", err)
	}

	return func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}
}
