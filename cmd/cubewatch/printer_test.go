package main

import (
	"bytes"
	"strings"
	"testing"

	"twistlight/cube"
)

func TestPrinterHandle(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"twist", `{"type":"twist","data":{"input":5,"twist":"f","cube":""}}`, "[TWIST] f (input 5)\n"},
		{"solved", `{"type":"solved"}`, "[SOLVED]\n"},
		{"input", `{"type":"input","data":{"input":7}}`, "[INPUT] 7\n"},
		{"protocol error", `{"type":"protocol_error","data":{"message":"badledmap"}}`, "[ERROR] badledmap\n"},
		{"mode", `{"type":"mode","data":{"mode":"config"}}`, "[MODE] config\n"},
		{"unknown", `{"type":"future","data":{"x":1}}`, `[future] {"x":1}` + "\n"},
		{"not json", `hello`, "[TEXT] hello\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := &printer{w: &buf}
			p.handle([]byte(tt.frame))
			if buf.String() != tt.want {
				t.Fatalf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrinterBoard(t *testing.T) {
	c := cube.New()
	state := c.Serialise()

	var buf bytes.Buffer
	p := &printer{w: &buf, board: true}
	p.handle([]byte(`{"type":"state","data":{"cube":"` + state + `"}}`))

	out := buf.String()
	if !strings.HasPrefix(out, "[STATE] "+state+"\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, c.String()) {
		t.Fatalf("board missing from output:\n%s", out)
	}
}

func TestPrinterRaw(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf, raw: true}
	p.handle([]byte(`{"type":"solved"}`))
	if buf.String() != "{\"type\":\"solved\"}\n" {
		t.Fatalf("got %q", buf.String())
	}
}
