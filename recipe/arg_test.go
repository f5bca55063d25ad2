package recipe

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestText_Literal(t *testing.T) {
	tests := []struct {
		name string
		in   Text
		want string
	}{
		{"plain", "Space", "'Space'"},
		{"single quote", "it's", `'it\'s'`},
		{"two quotes", "'a'", `'\'a\''`},
		{"backslash passes through", `a\b`, `'a\b'`},
		{"parens pass through", "f(x)", "'f(x)'"},
		{"newline passes through", "a\nb", "'a\nb'"},
		{"empty", "", "''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Literal(); got != tt.want {
				t.Errorf("Literal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_RoundTrip(t *testing.T) {
	inputs := []string{"it's", "'", "''", `\'`, `a\\'b`, "no quotes", `end\`, "mid'dle'", ""}
	for _, in := range inputs {
		got, ok := Unescape(Text(in).Literal())
		if !ok {
			t.Fatalf("Unescape(%q) not a literal", Text(in).Literal())
		}
		if got != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}

func TestUnescape_NotLiteral(t *testing.T) {
	for _, in := range []string{"", "'", "abc", "'abc", "42"} {
		if _, ok := Unescape(in); ok {
			t.Errorf("Unescape(%q) should report false", in)
		}
	}
}

func TestNumber_Literal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{42, "42"},
		{-7, "-7"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e22, "1.5e+22"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-2.5e-9, "-2.5e-9"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := Number(tt.in).Literal(); got != tt.want {
			t.Errorf("Number(%v).Literal() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolean_Literal(t *testing.T) {
	if Boolean(true).Literal() != "true" || Boolean(false).Literal() != "false" {
		t.Error("Boolean literal mismatch")
	}
}

func TestToggle_Literal(t *testing.T) {
	tests := []struct {
		name string
		in   Toggle
		want string
	}{
		{"simple", Toggle{String: "abc", Option: "Hex"}, "{'string':'abc','option':'Hex'}"},
		{"html chars kept", Toggle{String: "<&>", Option: "UTF8"}, "{'string':'<&>','option':'UTF8'}"},
		{"embedded double quote", Toggle{String: `a"b`, Option: "UTF8"}, `{'string':'a\'b','option':'UTF8'}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Literal(); got != tt.want {
				t.Errorf("Literal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArg_Raw(t *testing.T) {
	if Text("x").Raw() != "x" {
		t.Error("Text.Raw")
	}
	if Number(3).Raw() != 3.0 {
		t.Error("Number.Raw")
	}
	if Boolean(true).Raw() != true {
		t.Error("Boolean.Raw")
	}
	raw, ok := Toggle{String: "ff", Option: "Hex"}.Raw().(map[string]any)
	if !ok || raw["string"] != "ff" || raw["option"] != "Hex" {
		t.Errorf("Toggle.Raw = %v", raw)
	}
}

func TestArgs_UnmarshalJSON(t *testing.T) {
	var args Args
	err := json.Unmarshal([]byte(`["A-Za-z0-9+/=", true, 0, 1.5, "", {"string":"ff","option":"Hex"}]`), &args)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := Args{Text("A-Za-z0-9+/="), Boolean(true), Number(0), Number(1.5), Text(""), Toggle{String: "ff", Option: "Hex"}}
	if len(args) != len(want) {
		t.Fatalf("len = %d, want %d", len(args), len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %#v, want %#v", i, args[i], want[i])
		}
	}
}

func TestArgs_UnmarshalJSONNull(t *testing.T) {
	var args Args
	if err := json.Unmarshal([]byte(`null`), &args); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if args != nil {
		t.Errorf("args = %v, want nil", args)
	}
}

func TestArgs_UnmarshalJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"null element", `[null]`},
		{"nested array", `[[1,2]]`},
		{"object without option", `[{"string":"x"}]`},
		{"object with number", `[{"string":1,"option":"Hex"}]`},
		{"not an array", `"abc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args Args
			err := json.Unmarshal([]byte(tt.doc), &args)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidArgument", tt.doc, err)
			}
		})
	}
}

func TestArgs_UnmarshalJSONToggleMissingKeys(t *testing.T) {
	for i := 0; i < 20; i++ {
		var args Args
		err := json.Unmarshal([]byte(`[{}]`), &args)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Unmarshal() error = %v, want ErrInvalidArgument", err)
		}
		if want := `toggle value missing "string"`; !strings.Contains(err.Error(), want) {
			t.Fatalf("Unmarshal() error = %v, want it to name %q first", err, "string")
		}
	}

	var args Args
	err := json.Unmarshal([]byte(`[{"string":"x"}]`), &args)
	if err == nil || !strings.Contains(err.Error(), `missing "option"`) {
		t.Errorf("Unmarshal() error = %v, want missing option", err)
	}
}

func TestArgs_MarshalJSON(t *testing.T) {
	args := Args{Text("a"), Number(2), Boolean(false), Toggle{String: "k", Option: "UTF8"}}
	data, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `["a",2,false,{"string":"k","option":"UTF8"}]`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
