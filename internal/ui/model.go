package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/vizprep/internal/config"
	"github.com/nconklindev/vizprep/internal/converter"
	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/pipeline"
	"github.com/nconklindev/vizprep/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	stateOutputName
	stateWriting
	stateComplete
	stateError
)

type Model struct {
	state        state
	pipeline     *pipeline.Pipeline
	filepicker   filepicker.Model
	output       textinput.Model
	spinner      spinner.Model
	selectedFile string
	defaultName  string
	outputFile   string
	prepared     *pipeline.Prepared
	result       *types.ConversionResult
	err          error
	width        int
	height       int
}

type fileLoadedMsg struct {
	prepared *pipeline.Prepared
	err      error
}

type fileWrittenMsg struct {
	result *types.ConversionResult
	err    error
}

func InitialModel(p *pipeline.Pipeline, cfg config.PickerConfig) Model {
	fp := filepicker.New()
	fp.AllowedTypes = converter.SupportedExtensions
	fp.ShowHidden = cfg.ShowHidden
	fp.CurrentDirectory = cfg.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FB3BF"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BD3DD"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BD3DD"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FB3BF")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 255
	ti.Width = 48

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#4FB3BF"))),
	)

	return Model{
		state:      stateFilePicker,
		pipeline:   p,
		filepicker: fp,
		output:     ti,
		spinner:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Set filepicker height based on available space
		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5 // Minimum height
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				m.err = errors.FileSelectionCancelled()
				m.state = stateError
				return m, nil
			}

		case stateLoading, stateWriting:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case stateOutputName:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				name := pipeline.NormalizeOutputName(m.output.Value(), m.defaultName)
				m.outputFile = m.pipeline.OutputPath(m.selectedFile, name)
				m.output.Blur()
				m.state = stateWriting
				return m, tea.Batch(m.spinner.Tick, m.writeFile(m.outputFile))
			}
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd

		case stateComplete, stateError:
			// Any key acknowledges the final screen.
			return m, tea.Quit
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.prepared = msg.prepared
		m.defaultName = m.pipeline.DefaultOutputName(m.selectedFile)
		m.output.Placeholder = m.defaultName
		m.state = stateOutputName
		cmd := m.output.Focus()
		return m, cmd

	case fileWrittenMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case spinner.TickMsg:
		if m.state == stateLoading || m.state == stateWriting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = stateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadFile(path))
		}

		return m, cmd
	}

	if m.state == stateOutputName {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	p := m.pipeline
	return func() tea.Msg {
		prepared, err := p.Prepare(path)
		return fileLoadedMsg{prepared: prepared, err: err}
	}
}

func (m Model) writeFile(outputFile string) tea.Cmd {
	p := m.pipeline
	prepared := m.prepared
	return func() tea.Msg {
		result, err := p.Write(prepared, outputFile)
		return fileWrittenMsg{result: result, err: err}
	}
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewBusy("Reading " + filepath.Base(m.selectedFile) + "...")
	case stateOutputName:
		return m.viewOutputName()
	case stateWriting:
		return m.viewBusy("Writing " + filepath.Base(m.outputFile) + "...")
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := TitleStyle.Render("▤ vizprep - Bar Chart Data Formatter")

	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select the input data file (Excel, CSV, TXT)"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: select • q: cancel"))

	return s.String()
}

func (m Model) viewBusy(label string) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▤ Processing..."))
	s.WriteString("\n\n")
	s.WriteString(m.spinner.View() + " " + label)

	return BoxStyle.Render(s.String())
}

func (m Model) viewOutputName() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▤ Output File"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Category column: %s\n", SelectedStyle.Render(m.prepared.Resolved.Category)))
	s.WriteString(fmt.Sprintf("Value column:    %s\n", SelectedStyle.Render(m.prepared.Resolved.Value)))
	s.WriteString(fmt.Sprintf("Entries found:   %d\n", m.prepared.Data.Len()))

	for _, w := range m.prepared.Warnings {
		s.WriteString(WarningStyle.Render("! " + w))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Enter the desired output filename (default: %s)\n", m.defaultName))
	s.WriteString(m.output.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: save • ctrl+c: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Formatting Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20 // Leave room for padding and borders
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Columns: %s → Category, %s → Value\n", m.result.Resolved.Category, m.result.Resolved.Value))
	s.WriteString(fmt.Sprintf("Rows read: %d (skipped %d)\n", m.result.RowsRead, m.result.RowsSkipped))
	s.WriteString(fmt.Sprintf("Entries written: %d\n", m.result.EntriesWritten))
	if m.result.EntriesInvalid > 0 {
		s.WriteString(WarningStyle.Render(fmt.Sprintf("! %d invalid entries skipped during final formatting.", m.result.EntriesInvalid)))
		s.WriteString("\n")
	}

	sum := m.result.Summary
	s.WriteString(fmt.Sprintf("Total: %s  Min: %s  Max: %s  Mean: %s\n",
		converter.FormatValue(sum.Total),
		converter.FormatValue(sum.Min),
		converter.FormatValue(sum.Max),
		converter.FormatValue(sum.Mean)))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	if errors.Is(m.err, errors.CodeFileSelectionCancelled) {
		s.WriteString(SubtitleStyle.Render(m.err.Error()))
	} else {
		s.WriteString(ErrorStyle.Render("✗ Error"))
		s.WriteString("\n\n")
		s.WriteString(m.err.Error())
	}
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, maxLen int) string {
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}
