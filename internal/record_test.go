package internal

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRecord_UnmarshalJSONKeepsOrder(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"Zeta":"z","Alpha":1,"Mid":true,"Nil":null,"Nested":{"a":1}}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{"Zeta", "Alpha", "Mid", "Nil", "Nested"}
	got := r.Keys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	tests := []struct {
		key  string
		text string
	}{
		{"Zeta", "z"},
		{"Alpha", "1"},
		{"Mid", "true"},
		{"Nil", ""},
		{"Nested", `{"a":1}`},
		{"Missing", ""},
	}
	for _, tt := range tests {
		if got := r.Text(tt.key); got != tt.text {
			t.Errorf("Text(%q) = %q, want %q", tt.key, got, tt.text)
		}
	}
}

func TestRecord_UnmarshalJSONRejectsNonObject(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`["a","b"]`), &r); err == nil {
		t.Error("Unmarshal() of an array should fail")
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := RecordOf("b", "two", "a", json.Number("1"), "c", nil)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"b":"two","a":1,"c":null}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestRecord_MarshalYAML(t *testing.T) {
	r := RecordOf("Name", "Ada", "Age", json.Number("36"))
	data, err := yaml.Marshal(r)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if string(data) != "Name: Ada\nAge: 36\n" {
		t.Errorf("yaml.Marshal() = %q", data)
	}
}

func TestRecord_SetOverwriteKeepsPosition(t *testing.T) {
	r := RecordOf("a", 1, "b", 2)
	r.Set("a", 3)
	if keys := r.Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
	if v, _ := r.Get("a"); v != 3 {
		t.Errorf("Get(a) = %v, want 3", v)
	}
}

func TestRecord_FoldKey(t *testing.T) {
	r := RecordOf("Name", "x", "TYPE", "email")
	key, ok := r.FoldKey("type")
	if !ok || key != "TYPE" {
		t.Errorf("FoldKey(type) = %q, %v", key, ok)
	}
	if _, ok := r.FoldKey("missing"); ok {
		t.Error("FoldKey(missing) should not match")
	}
}

func TestDataset_Columns(t *testing.T) {
	var empty Dataset
	if empty.Columns() != nil || !empty.Empty() {
		t.Error("empty dataset should have no columns")
	}

	ds := Dataset{RecordOf("Name", "a", "Email", "b"), RecordOf("Email", "c")}
	cols := ds.Columns()
	if len(cols) != 2 || cols[0] != "Name" || cols[1] != "Email" {
		t.Errorf("Columns() = %v, want [Name Email]", cols)
	}
}
