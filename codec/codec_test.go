package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/mutjson/format"
	"github.com/signadot/mutjson/track"
)

func orderedDoc() *track.Map {
	return track.NewMap(nil,
		track.Entry{Key: "z", Value: 1},
		track.Entry{Key: "a", Value: []any{true, nil, "s"}},
		track.Entry{Key: "e", Value: map[string]any{}},
	)
}

func TestEncodeJSONKeepsOrder(t *testing.T) {
	tests := []struct {
		name string
		opts []EncodeOption
		want string
	}{
		{
			name: "pretty",
			want: `{
  "z": 1,
  "a": [
    true,
    null,
    "s"
  ],
  "e": {}
}
`,
		},
		{
			name: "compact",
			opts: []EncodeOption{EncodeCompact(true)},
			want: `{"z":1,"a":[true,null,"s"],"e":{}}`,
		},
		{
			name: "indent 4",
			opts: []EncodeOption{EncodeIndent(4)},
			want: "{\n    \"z\": 1,\n    \"a\": [\n        true,\n        null,\n        \"s\"\n    ],\n    \"e\": {}\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Marshal(orderedDoc(), tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, string(d)); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeJSONPlainMapSorted(t *testing.T) {
	d, err := Marshal(map[string]any{"b": 1, "a": []any{}}, EncodeCompact(true))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(d), `{"a":[],"b":1}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeJSONColors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	d, err := Marshal(orderedDoc(), EncodeCompact(true), EncodeColors(NewColors()))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(d, []byte("\x1b[")) {
		t.Errorf("no escape sequences in %q", d)
	}
	plain, err := Marshal(orderedDoc(), EncodeCompact(true), EncodeColors(nil))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(plain, []byte("\x1b[")) {
		t.Errorf("nil colors produced escape sequences: %q", plain)
	}
}

func TestDecodeJSON(t *testing.T) {
	v, err := Decode([]byte(`{"z": {"y": [1, 2.5]}, "a": null}`))
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(*track.Map)
	if !ok {
		t.Fatalf("decoded %T, want *track.Map", v)
	}
	if diff := cmp.Diff([]string{"z", "a"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{"z": map[string]any{"y": []any{int64(1), 2.5}}, "a": nil}
	if diff := cmp.Diff(want, m.Plain()); diff != "" {
		t.Errorf("Plain() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeYAMLOrdered(t *testing.T) {
	src := "b: 3\na:\n  - x\n  - y: 2.5\n    c: null\n"
	v, err := Decode([]byte(src), DecodeFormat(format.YAMLFormat))
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(*track.Map)
	if !ok {
		t.Fatalf("decoded %T, want *track.Map", v)
	}
	if diff := cmp.Diff([]string{"b", "a"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	inner, err := track.Get(m, "a[1]")
	if err != nil {
		t.Fatal(err)
	}
	im, ok := inner.(*track.Map)
	if !ok {
		t.Fatalf("a[1] is %T, want *track.Map", inner)
	}
	if diff := cmp.Diff([]string{"y", "c"}, im.Keys()); diff != "" {
		t.Errorf("nested Keys() mismatch (-want +got):\n%s", diff)
	}
	if im.Parent() == nil || track.Root(im) != track.Node(m) {
		t.Errorf("nested map not attached to the document")
	}
	want := map[string]any{
		"b": int64(3),
		"a": []any{"x", map[string]any{"y": 2.5, "c": nil}},
	}
	if diff := cmp.Diff(want, m.Plain()); diff != "" {
		t.Errorf("Plain() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeShallowRegistry(t *testing.T) {
	for _, f := range []format.Format{format.JSONFormat, format.YAMLFormat} {
		t.Run(f.String(), func(t *testing.T) {
			src := `{"a": {"b": [1]}}`
			v, err := Decode([]byte(src), DecodeFormat(f), DecodeRegistry(track.NewRegistry()))
			if err != nil {
				t.Fatal(err)
			}
			want := map[string]any{"a": map[string]any{"b": []any{int64(1)}}}
			if diff := cmp.Diff(want, v); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := orderedDoc()
	if err := doc.Set("n", map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	d, err := Marshal(doc, EncodeFormat(format.YAMLFormat))
	if err != nil {
		t.Fatal(err)
	}
	if i, j := strings.Index(string(d), "z:"), strings.Index(string(d), "a:"); i < 0 || j < i {
		t.Errorf("keys out of order in\n%s", d)
	}
	back, err := Decode(d, DecodeFormat(format.YAMLFormat))
	if err != nil {
		t.Fatal(err)
	}
	if !track.Equal(doc, back) {
		t.Errorf("round trip changed the document:\n%s", d)
	}
}

func TestTOML(t *testing.T) {
	src := "a = 1\nname = \"x\"\n\n[t]\nb = [1, 2]\n\n[[rows]]\nid = 1\n"
	v, err := Decode([]byte(src), DecodeFormat(format.TOMLFormat))
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(*track.Map)
	if !ok {
		t.Fatalf("decoded %T, want *track.Map", v)
	}
	rows, err := track.Get(m, "rows[0]")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rows.(*track.Map); !ok {
		t.Errorf("array table element is %T, want *track.Map", rows)
	}
	d, err := Marshal(m, EncodeFormat(format.TOMLFormat))
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(d, DecodeFormat(format.TOMLFormat))
	if err != nil {
		t.Fatal(err)
	}
	if !track.Equal(m, back) {
		t.Errorf("round trip changed the document:\n%s", d)
	}
}

func TestTOMLRequiresMap(t *testing.T) {
	_, err := Marshal(track.NewList([]any{1}), EncodeFormat(format.TOMLFormat))
	if !errors.Is(err, ErrNotDocument) {
		t.Errorf("got %v, want ErrNotDocument", err)
	}
}
