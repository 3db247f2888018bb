package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetChoice shows a numbered menu and reads the answer until it is one of
// options. Either the number or the option text is accepted. When optional
// is set an empty answer returns "".
func GetChoice(reader *bufio.Reader, prompt string, options []string, optional bool, w io.Writer) (string, error) {
	var b strings.Builder
	b.WriteString(prompt)
	if optional {
		b.WriteString(" (Enter to skip)")
	}
	for i, o := range options {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, o)
	}
	menu := b.String()

	for {
		answer, err := GetSimpleText(reader, menu, w)
		if err != nil {
			return "", err
		}
		if answer == "" {
			if optional {
				return "", nil
			}
			fmt.Fprintln(w, "An answer is required.")
			continue
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, o := range options {
			if strings.EqualFold(o, answer) {
				return o, nil
			}
		}
		fmt.Fprintf(w, "%q is not one of the options.\n", answer)
	}
}

// GetFloat reads a number, asking again until the answer parses.
func GetFloat(reader *bufio.Reader, prompt string, w io.Writer) (float64, error) {
	for {
		answer, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(answer, 64)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(w, "%q is not a number.\n", answer)
	}
}

// GetList reads up to limit non-empty lines, stopping early on an empty
// line or EOF.
func GetList(reader *bufio.Reader, prompt string, limit int, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprintf(w, "%s\n(one per line, up to %d, empty line to finish)\n", prompt, limit); err != nil {
		return nil, err
	}

	var lines []string
	for len(lines) < limit {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
		if err != nil || line == "" {
			break
		}
	}
	return lines, nil
}
