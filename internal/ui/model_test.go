package ui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/vizprep/internal/config"
	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/pipeline"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(logger, config.OutputConfig{Suffix: "_formatted"})
	return InitialModel(p, config.PickerConfig{StartDir: t.TempDir()})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestFilePickerCancel(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, keyRune('q'))
	assert.Nil(t, cmd)
	assert.Equal(t, stateError, m.state)
	assert.True(t, errors.Is(m.Err(), errors.CodeFileSelectionCancelled))
	assert.Contains(t, m.View(), "File selection cancelled.")
	assert.Contains(t, m.View(), "Press any key to exit")

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, isQuit(cmd))
}

func TestConversionFlow(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(input, []byte("Item,Count\nBolts,120\nNuts,-80\nWashers,\n"), 0644))

	m := newTestModel(t)
	m.selectedFile = input
	m.state = stateLoading

	loaded, ok := m.loadFile(input)().(fileLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)

	m, cmd := update(t, m, loaded)
	assert.NotNil(t, cmd)
	assert.Equal(t, stateOutputName, m.state)
	assert.Equal(t, "inventory_formatted.csv", m.defaultName)
	assert.Equal(t, "inventory_formatted.csv", m.output.Placeholder)

	view := m.View()
	assert.Contains(t, view, "Item")
	assert.Contains(t, view, "Count")
	assert.Contains(t, view, "Skipped 1 rows due to missing or invalid data.")

	for _, r := range "stock" {
		m, _ = update(t, m, keyRune(r))
	}
	assert.Equal(t, "stock", m.output.Value())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, stateWriting, m.state)
	assert.Equal(t, filepath.Join(dir, "stock.csv"), m.outputFile)

	written, ok := m.writeFile(m.outputFile)().(fileWrittenMsg)
	require.True(t, ok)
	require.NoError(t, written.err)

	m, _ = update(t, m, written)
	assert.Equal(t, stateComplete, m.state)
	assert.Equal(t, 2, m.result.EntriesWritten)
	assert.Contains(t, m.View(), "Entries written: 2")
	assert.Contains(t, m.View(), "Total: 200")

	content, err := os.ReadFile(filepath.Join(dir, "stock.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Category,Value\nBolts,120\nNuts,80\n", string(content))

	_, cmd = update(t, m, keyRune('x'))
	assert.True(t, isQuit(cmd))
}

func TestLoadFailureShowsError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "single.csv")
	require.NoError(t, os.WriteFile(input, []byte("Category\nA\n"), 0644))

	m := newTestModel(t)
	m.selectedFile = input
	m.state = stateLoading

	m, _ = update(t, m, m.loadFile(input)())
	assert.Equal(t, stateError, m.state)
	assert.True(t, errors.Is(m.Err(), errors.CodeColumnResolution))
	assert.Contains(t, m.View(), "✗ Error")
	assert.Contains(t, m.View(), "Cannot determine distinct category and value columns")
}

func TestBusyStatesIgnoreKeys(t *testing.T) {
	m := newTestModel(t)
	m.state = stateLoading

	m, cmd := update(t, m, keyRune('q'))
	assert.Nil(t, cmd)
	assert.Equal(t, stateLoading, m.state)

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 40, m.height)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.csv", truncatePath("short.csv", 30))
	assert.Equal(t, ".../file.csv", truncatePath("/very/long/path/to/file.csv", 12))
}
