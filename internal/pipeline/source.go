package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptSource takes the input path as given and asks for the output name on
// a line-oriented terminal. A non-empty Output skips the question.
type PromptSource struct {
	Input  string
	Output string
	// AcceptDefault answers the output question with the default.
	AcceptDefault bool

	in  *bufio.Reader
	out io.Writer
}

func NewPromptSource(in io.Reader, out io.Writer, input, output string, acceptDefault bool) *PromptSource {
	return &PromptSource{
		Input:         input,
		Output:        output,
		AcceptDefault: acceptDefault,
		in:            bufio.NewReader(in),
		out:           out,
	}
}

func (s *PromptSource) SelectInputFile() (string, error) {
	if strings.TrimSpace(s.Input) == "" {
		return "", ErrCancelled
	}
	fmt.Fprintf(s.out, "Selected input file: %s\n", s.Input)
	return s.Input, nil
}

func (s *PromptSource) OutputName(defaultName string) (string, error) {
	if s.Output != "" {
		return s.Output, nil
	}
	if s.AcceptDefault {
		return "", nil
	}

	fmt.Fprintf(s.out, "Enter the desired output filename (default: %s): ", defaultName)
	return s.readLine()
}

// Report prints the identified columns and any warnings.
func (s *PromptSource) Report(prepared *Prepared) {
	fmt.Fprintf(s.out, "Identified Category column: '%s'\n", prepared.Resolved.Category)
	fmt.Fprintf(s.out, "Identified Value column: '%s'\n", prepared.Resolved.Value)
	for _, w := range prepared.Warnings {
		fmt.Fprintf(s.out, "Warning: %s\n", w)
	}
}

// Acknowledge blocks until the user presses Enter or input ends.
func (s *PromptSource) Acknowledge() {
	fmt.Fprint(s.out, "\nPress Enter to exit...")
	_, _ = s.readLine()
	fmt.Fprintln(s.out)
}

// Prompted reports whether the source would ask the user anything.
func (s *PromptSource) Prompted() bool {
	return s.Output == "" && !s.AcceptDefault
}

func (s *PromptSource) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
