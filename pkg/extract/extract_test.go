package extract

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtract_FencedAndUnfenced(t *testing.T) {
	doc := `{"selected_strategy":"cot","confidence_score":0.9}`

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "fenced",
			raw:  "Here is my evaluation:\n```json\n" + doc + "\n```\nDone.",
		},
		{
			name: "fenced without surrounding prose",
			raw:  "```json\n" + doc + "\n```",
		},
		{
			name: "unfenced",
			raw:  doc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			want := map[string]any{
				"selected_strategy": "cot",
				"confidence_score":  0.9,
			}
			if !reflect.DeepEqual(got.Value(), want) {
				t.Errorf("Extract() = %v, want %v", got.Value(), want)
			}
		})
	}
}

func TestExtract_FirstFenceWins(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```\nand also\n```json\n{\"b\": 2}\n```"
	got, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Float("a", -1) != 1 {
		t.Errorf("expected first fenced block to win, got %v", got.Value())
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid json without fence", raw: "I think the answer is 42."},
		{name: "invalid json inside fence", raw: "```json\n{not json}\n```"},
		{name: "fence never closed", raw: "```json\n{\"a\": 1}"},
		{name: "empty fence body", raw: "```json\n\n```"},
		{name: "empty input", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.raw)
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("Extract(%q) error = %v, want ErrMalformedDocument", tt.raw, err)
			}
		})
	}
}

func TestExtract_BareScalarAccepted(t *testing.T) {
	got, err := Extract(`"just a string"`)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	// Field lookups on a non-object degrade to defaults.
	if got.IsObject() {
		t.Error("expected scalar payload to not be an object")
	}
	if s := got.String("selected_strategy", "fallback"); s != "fallback" {
		t.Errorf("String() on scalar = %q, want default", s)
	}
}

func TestDocument_Defaults(t *testing.T) {
	doc, err := Extract(`{
		"selected_strategy": "tot",
		"confidence_score": "not a number",
		"checks_passed": true,
		"strategy_scores": {"cot": 7, "tot": 9, "broken": "n/a"}
	}`)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if got := doc.String("selected_strategy", ""); got != "tot" {
		t.Errorf("String() = %q, want tot", got)
	}
	if got := doc.String("missing", "def"); got != "def" {
		t.Errorf("String() missing = %q, want def", got)
	}
	if got := doc.Float("confidence_score", 0); got != 0 {
		t.Errorf("Float() wrong type = %v, want 0", got)
	}
	if got := doc.Bool("checks_passed", false); !got {
		t.Error("Bool() = false, want true")
	}
	if got := doc.Bool("missing", false); got {
		t.Error("Bool() missing = true, want default false")
	}

	scores := doc.Scores("strategy_scores")
	want := map[string]float64{"cot": 7, "tot": 9}
	if !reflect.DeepEqual(scores, want) {
		t.Errorf("Scores() = %v, want %v (non-numeric discarded)", scores, want)
	}

	if got := doc.Scores("missing"); got == nil || len(got) != 0 {
		t.Errorf("Scores() missing = %v, want empty map", got)
	}
}
