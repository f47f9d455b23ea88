package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/jaeles-project/gofuzzer/stringset"
)

// Output appends lines to a file, skipping lines it already holds.
type Output struct {
	mu     sync.Mutex
	f      *os.File
	filter *stringset.StringFilter
}

func NewOutputPath(filePath string) (*Output, error) {
	abspath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abspath), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.OpenFile(abspath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}

	out := &Output{
		f:      f,
		filter: stringset.NewStringFilter(),
	}
	out.loadExisting(abspath)
	return out, nil
}

func (o *Output) WriteToFile(msg string) {
	if o == nil || strings.TrimSpace(msg) == "" {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.filter != nil && o.filter.Duplicate(msg) {
		return
	}

	_, _ = o.f.WriteString(msg + "\n")
}

func (o *Output) Close() {
	if o != nil && o.f != nil {
		_ = o.f.Close()
	}
}

func (o *Output) loadExisting(path string) {
	reader, err := os.Open(path)
	if err != nil {
		return
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		_ = o.filter.Duplicate(line)
	}
}

// ScanOutput is the JSON shape of one printed record.
type ScanOutput struct {
	Input    string   `json:"input"`
	Type     string   `json:"type"`
	TestID   string   `json:"test_id,omitempty"`
	Category string   `json:"category,omitempty"`
	Message  string   `json:"message,omitempty"`
	Page     string   `json:"page,omitempty"`
	Params   []string `json:"params,omitempty"`
	Forms    []string `json:"forms,omitempty"`
	Cookies  []string `json:"cookies,omitempty"`
}

// Printer renders findings and discovery results to stdout and mirrors
// them into an optional Output file.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	input  string
	json   bool
	output *Output
}

func NewPrinter(w io.Writer, input string, jsonOutput bool, output *Output) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w, input: input, json: jsonOutput, output: output}
}

// Finding prints "[Category] <test_id> <message>".
func (p *Printer) Finding(f Finding) {
	line := fmt.Sprintf("[%s] %s %s", f.Category, f.TestID, f.Message)
	if p.json {
		line = p.marshal(ScanOutput{
			Input:    p.input,
			Type:     "finding",
			TestID:   f.TestID,
			Category: f.Category,
			Message:  f.Message,
		}, line)
	}
	p.println(line)
}

// Surface prints a page followed by one indented line per input kind.
func (p *Printer) Surface(page string, s InputSurface) {
	if p.json {
		p.println(p.marshal(ScanOutput{
			Input:   p.input,
			Type:    "page",
			Page:    page,
			Params:  s.Params,
			Forms:   s.Forms,
			Cookies: s.Cookies,
		}, page))
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[page] - %s", page)
	for _, kind := range SurfaceKinds {
		fmt.Fprintf(&b, "\n    [%s] - %s", kind, strings.Join(s.Fields(kind), ", "))
	}
	p.println(b.String())
}

func (p *Printer) marshal(v ScanOutput, fallback string) string {
	data, err := jsoniter.MarshalToString(v)
	if err != nil {
		Logger.Debugf("Failed to marshal output: %s", err)
		return fallback
	}
	return data
}

func (p *Printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
	p.output.WriteToFile(line)
}
