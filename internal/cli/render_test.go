package cli

import (
	"context"
	"strings"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid dot", []string{"dot"}, false},
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"dot", "svg", "pdf", "png"}, false},
		{"json is not a render format", []string{"json"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "graphs/page.json", "graphs/page"},
		{"", "-", "graph"},
		{"out.svg", "page.json", "out"},
		{"out", "page.json", "out"},
		{"out.json", "page.json", "out.json"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	single := &renderOpts{output: "diagram.gv", formats: []string{"dot"}}
	if got := outputPath(single, "page.json", "dot"); got != "diagram.gv" {
		t.Errorf("single format output = %q, want diagram.gv", got)
	}

	multi := &renderOpts{output: "out/diagram.svg", formats: []string{"dot", "svg"}}
	if got := outputPath(multi, "page.json", "dot"); got != "out/diagram.dot" {
		t.Errorf("multi format output = %q, want out/diagram.dot", got)
	}

	derived := &renderOpts{formats: []string{"svg"}}
	if got := outputPath(derived, "page.json", "svg"); got != "page.svg" {
		t.Errorf("derived output = %q, want page.svg", got)
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	data, err := renderDOT(context.Background(), "digraph G {}\n", formatDOT, 1)
	if err != nil {
		t.Fatalf("renderDOT error: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output = %q", data)
	}
	if _, err := renderDOT(context.Background(), "", "gif", 1); err == nil {
		t.Error("unknown format should fail")
	}
}
