package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestItem_SerializeJSON(t *testing.T) {
	tests := []struct {
		name  string
		value any
		stamp string
		want  string
	}{
		{"no stamp", sample{"a", 1}, "", `{"name":"a","count":1}`},
		{"stamped", sample{"a", 1}, "2024-01-02T03:04:05Z", `{"name":"a","count":1,"_time":"2024-01-02T03:04:05Z"}`},
		{"empty object stamped", struct{}{}, "2024-01-02T03:04:05Z", `{"_time":"2024-01-02T03:04:05Z"}`},
		{"scalar without stamp", 42, "", `42`},
		{"raw message stamped", json.RawMessage(`{ "x" : 1 }`), "t", `{"x":1,"_time":"t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONItem(tt.value).Serialize(json.Marshal, tt.stamp)
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Serialize() = %s, want %s", got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Errorf("Serialize() produced invalid JSON: %s", got)
			}
		})
	}
}

func TestItem_SerializeJSON_NotObject(t *testing.T) {
	_, err := JSONItem([]int{1, 2}).Serialize(json.Marshal, "t")
	if !errors.Is(err, ErrNotJSONObject) {
		t.Errorf("Serialize() error = %v, want ErrNotJSONObject", err)
	}
}

func TestItem_SerializeJSON_MarshalError(t *testing.T) {
	_, err := JSONItem(make(chan int)).Serialize(json.Marshal, "")
	if err == nil {
		t.Fatal("Serialize() expected error for unmarshalable value")
	}
}

func TestItem_SerializeJSONWith(t *testing.T) {
	upper := func(any) ([]byte, error) { return []byte(`{"custom":1}`), nil }

	got, err := JSONItemWith(sample{"a", 1}, upper).Serialize(json.Marshal, "t")
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if want := `{"custom":1,"_time":"t"}`; got != want {
		t.Errorf("Serialize() = %s, want %s", got, want)
	}

	got, err = JSONItemWith(sample{"a", 1}, nil).Serialize(json.Marshal, "")
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if want := `{"name":"a","count":1}`; got != want {
		t.Errorf("Serialize() with nil marshal = %s, want %s", got, want)
	}
}

func TestItem_SerializeInvalid(t *testing.T) {
	item := InvalidItem(ItemCSV, ErrNilRow)
	if item.Kind() != ItemCSV {
		t.Errorf("Kind() = %v, want csv", item.Kind())
	}
	if _, err := item.Serialize(json.Marshal, ""); !errors.Is(err, ErrNilRow) {
		t.Errorf("Serialize() error = %v, want ErrNilRow", err)
	}
}

func TestItem_SerializeCSV(t *testing.T) {
	tests := []struct {
		name  string
		item  Item
		stamp string
		want  string
	}{
		{"fields", CSVItem([]string{"1", "2"}), "", "1,2"},
		{"fields stamped", CSVItem([]string{"1", "2"}), "2024-01-02T03:04:05Z", "1,2,2024-01-02T03:04:05Z"},
		{"quoted field", CSVItem([]string{"a,b", `say "hi"`}), "", `"a,b","say ""hi"""`},
		{"line", CSVLineItem("x,y"), "", "x,y"},
		{"line stamped", CSVLineItem("x,y"), "t", "x,y,t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.item.Serialize(nil, tt.stamp)
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItem_SupportedTypes(t *testing.T) {
	j := JSONItem(1)
	if !j.Supports(ContentTypeJSON) || !j.Supports(ContentTypeNDJSON) || j.Supports(ContentTypeCSV) {
		t.Errorf("json item supports = %v", j.SupportedTypes())
	}
	c := CSVLineItem("a")
	if c.Supports(ContentTypeJSON) || !c.Supports(ContentTypeCSV) {
		t.Errorf("csv item supports = %v", c.SupportedTypes())
	}
	if j.SupportedTypes()[0] != ContentTypeJSON {
		t.Errorf("preferred json type = %v", j.SupportedTypes()[0])
	}
}

func TestItemKind_String(t *testing.T) {
	tests := []struct {
		kind ItemKind
		want string
	}{
		{ItemJSON, "json"},
		{ItemCSV, "csv"},
		{ItemCSVLine, "csv-line"},
		{ItemKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ItemKind(%d).String() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}
