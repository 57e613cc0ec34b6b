package token

import (
	"encoding/json"
	"testing"
)

func TestValueIsReference(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		wantRef bool
		wantTo  string
	}{
		{"plain reference", String("{color.primary}"), true, "color.primary"},
		{"empty braces", String("{}"), true, ""},
		{"spaces kept verbatim", String("{ color.primary }"), true, " color.primary "},
		{"literal", String("#ff0000"), false, ""},
		{"single brace", String("{"), false, ""},
		{"missing close", String("{color.primary"), false, ""},
		{"missing open", String("color.primary}"), false, ""},
		{"embedded reference", String("1px solid {color.border}"), false, ""},
		{"number", Number("16"), false, ""},
		{"zero value", Value{}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsReference(); got != tt.wantRef {
				t.Errorf("IsReference() = %v, want %v", got, tt.wantRef)
			}
			to, ok := tt.value.Reference()
			if ok != tt.wantRef || to != tt.wantTo {
				t.Errorf("Reference() = (%q, %v), want (%q, %v)", to, ok, tt.wantTo, tt.wantRef)
			}
		})
	}
}

func TestRef(t *testing.T) {
	v := Ref("spacing.sm")
	if v.String() != "{spacing.sm}" {
		t.Errorf("Ref() = %q, want %q", v.String(), "{spacing.sm}")
	}
	if name, ok := v.Reference(); !ok || name != "spacing.sm" {
		t.Errorf("Reference() = (%q, %v), want (spacing.sm, true)", name, ok)
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   Value
		wantOK bool
	}{
		{"string", "4px", String("4px"), true},
		{"json number", json.Number("1.50"), Number("1.50"), true},
		{"float", 2.5, Number("2.5"), true},
		{"int", 16, Number("16"), true},
		{"bool", true, Value{}, false},
		{"nil", nil, Value{}, false},
		{"object", NewObject(), Value{}, false},
		{"array", []any{"a"}, Value{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValueOf(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ValueOf(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ValueOf(%v) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	if _, err := ParseNumber("12.5"); err != nil {
		t.Errorf("ParseNumber(12.5) error = %v", err)
	}
	for _, bad := range []string{"", "abc", "1.2.3", "0x10", "NaN", "Inf"} {
		if _, err := ParseNumber(bad); err == nil {
			t.Errorf("ParseNumber(%q) expected error", bad)
		}
	}
}

func TestValueJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string", String("#fff"), `"#fff"`},
		{"no html escaping", String("a > b & c"), `"a > b & c"`},
		{"number keeps literal", Number("1.50"), `1.50`},
		{"zero", Value{}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.value.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`"{a.b}"`), &v); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if !v.IsReference() {
		t.Errorf("expected reference, got %q", v.String())
	}

	if err := json.Unmarshal([]byte(`24`), &v); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if !v.IsNumber() || v.String() != "24" {
		t.Errorf("got %#v, want number 24", v)
	}

	for _, bad := range []string{`true`, `{"a":1}`, `[1]`, `null`} {
		if err := json.Unmarshal([]byte(bad), &v); err == nil {
			t.Errorf("Unmarshal(%s) expected error", bad)
		}
	}
}

func TestValueFloat(t *testing.T) {
	if f, ok := Number("2.5").Float(); !ok || f != 2.5 {
		t.Errorf("Float() = (%v, %v), want (2.5, true)", f, ok)
	}
	if _, ok := String("2.5").Float(); ok {
		t.Error("Float() on string should report false")
	}
}
