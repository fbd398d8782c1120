package token

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "1 tab po bid", []string{"1", "tab", "po", "bid"}},
		{"compound dose unit", "2tab po", []string{"2", "tab", "po"}},
		{"compound decimal unit", "2.5mg po", []string{"2.5", "mg", "po"}},
		{"fraction unit", "1/2tab", []string{"1/2", "tab"}},
		{"q range compound", "q6-8h", []string{"q", "6-8", "h"}},
		{"q decimal range", "q0.5-1h", []string{"q", "0.5-1", "h"}},
		{"multiplicative stays whole", "1x3", []string{"1x3"}},
		{"dose shorthand stays whole", "2x", []string{"2x"}},
		{"q compact stays whole", "q30min", []string{"q30min"}},
		{"newline becomes token", "1 tab\nwith food", []string{"1", "tab", "\n", "with", "food"}},
		{"semicolon peeled", "pain; with food", []string{"pain", ";", "with", "food"}},
		{"trailing period peeled", "daily.", []string{"daily", "."}},
		{"decimal period kept", "2.5", []string{"2.5"}},
		{"comma peeled", "morning, evening", []string{"morning", ",", "evening"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Split(tt.input)
			var got []string
			for _, tok := range toks {
				got = append(got, tok.Original)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitNormalizesCase(t *testing.T) {
	toks := Split("1 TAB PO BID")
	if toks[1].Lower != "tab" || toks[2].Lower != "po" {
		t.Errorf("lowercase forms = %q %q, want tab po", toks[1].Lower, toks[2].Lower)
	}
	for i, tok := range toks {
		if tok.Index != i {
			t.Errorf("token %d has Index %d", i, tok.Index)
		}
	}
}

func TestIsSeparator(t *testing.T) {
	for _, sep := range []string{"\n", ";", ":", ".", "-"} {
		if !IsSeparator(Token{Original: sep}) {
			t.Errorf("IsSeparator(%q) = false, want true", sep)
		}
	}
	for _, not := range []string{",", "tab", "6-8", ""} {
		if IsSeparator(Token{Original: not}) {
			t.Errorf("IsSeparator(%q) = true, want false", not)
		}
	}
}
