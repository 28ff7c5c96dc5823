// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// render writes v as JSON or YAML, or calls table with a tab-aligned
// writer for the default table format.
func (a *app) render(v any, table func(w io.Writer)) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case outputYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()

	default:
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	}
}

// message renders a server confirmation such as {"message": "..."}.
func (a *app) message(v any, text string) error {
	return a.render(v, func(w io.Writer) {
		fmt.Fprintln(w, text)
	})
}

func row(w io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = cell(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

// cell formats one table value. Nil pointers and empty strings render as
// "-".
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case *string:
		if x == nil || *x == "" {
			return "-"
		}
		return *x
	case *int64:
		if x == nil {
			return "-"
		}
		return strconv.FormatInt(*x, 10)
	case *int:
		if x == nil {
			return "-"
		}
		return strconv.Itoa(*x)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case *float64:
		if x == nil {
			return "-"
		}
		return strconv.FormatFloat(*x, 'f', 2, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// percent formats a 0..1 confidence score.
func percent(score float64) string {
	return strconv.FormatFloat(score*100, 'f', 1, 64) + "%"
}

func pageFooter(w io.Writer, current, pages int, total int64) {
	if pages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", current, pages, total)
	}
}

// readLine reads one line from stdin, for prompted secrets when no flag or
// environment variable supplied them.
func (a *app) readLine(prompt string) (string, error) {
	if a.stdin == nil {
		a.stdin = bufio.NewReader(a.in)
	}
	fmt.Fprint(a.errOut, prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(prompt), ":"), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
