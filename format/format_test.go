package format

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func simpleMap() *Map {
	content := "console.log 'hello world'"
	return &Map{
		Version:        3,
		File:           "helloworld.js",
		Sources:        []string{"/test-root/helloworld.coffee", "lib/other.coffee"},
		SourcesContent: []*string{&content},
		Names:          []string{},
		Mappings:       "AAAA;AAAA,EAAA,OAAO,CAAC,GAAR,CAAY,aAAZ,CAAA,CAAA;AAAA",
	}
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		source  string
		rootDir string
		want    string
	}{
		{source: "/project/src/a.js", rootDir: "/project", want: "./src/a.js"},
		{source: "/other/c.js", rootDir: "/project", want: "../other/c.js"},
		{source: `src\a.js`, rootDir: "/project", want: "./src/a.js"},
		{source: "../lib/b.js", rootDir: "/project", want: "../lib/b.js"},
		{source: "a.js", rootDir: "", want: "./a.js"},
		{source: "/abs.js", rootDir: "", want: "/abs.js"},
		{source: "", rootDir: "/", want: ""},
	}
	for _, test := range tests {
		if got := RelativePath(test.source, test.rootDir); got != test.want {
			t.Errorf("Got: RelativePath(%q, %q) = %q. Want: %q.", test.source, test.rootDir, got, test.want)
		}
	}
}

func TestStringify(t *testing.T) {
	content := "console.log 'hello world'"
	want := &Map{
		Version:        3,
		File:           "index.js.map",
		SourceRoot:     "/",
		Sources:        []string{"./helloworld.coffee", "./lib/other.coffee"},
		SourcesContent: []*string{&content, nil},
		Names:          []string{},
		Mappings:       "AAAA;AAAA,EAAA,OAAO,CAAC,GAAR,CAAY,aAAZ,CAAA,CAAA;AAAA",
	}
	opts := Options{File: "index.js.map", SourceRoot: "/", RootDir: "/test-root"}

	t.Run("object", func(t *testing.T) {
		opts := opts
		opts.Format = Object
		got, err := Stringify(simpleMap(), opts)
		if err != nil {
			t.Fatalf("Got: Stringify() returned error: %s. Want: no error.", err)
		}
		if got.Text != "" {
			t.Errorf("Got: text output %q for object format. Want: empty.", got.Text)
		}
		if diff := cmp.Diff(want, got.Map); diff != "" {
			t.Errorf("Stringify() returned diff (-want,+got):\n%s", diff)
		}
	})

	t.Run("string", func(t *testing.T) {
		got, err := Stringify(simpleMap(), opts) // Default format.
		if err != nil {
			t.Fatalf("Got: Stringify() returned error: %s. Want: no error.", err)
		}
		if got.Map != nil {
			t.Errorf("Got: object output for string format. Want: nil.")
		}
		decoded := &Map{}
		if err := json.Unmarshal([]byte(got.Text), decoded); err != nil {
			t.Fatalf("Got: output is not valid JSON: %s. Want: no error.", err)
		}
		if diff := cmp.Diff(want, decoded); diff != "" {
			t.Errorf("Stringify() returned diff (-want,+got):\n%s", diff)
		}
		if !strings.Contains(got.Text, `"sourcesContent":["console.log 'hello world'",null]`) {
			t.Errorf("Got: %s. Want: missing source content encoded as null.", got.Text)
		}
	})

	for _, inline := range []Options{{Format: Inline}, {InlineMap: true}} {
		got, err := Stringify(simpleMap(), inline)
		if err != nil {
			t.Fatalf("Got: Stringify(%+v) returned error: %s. Want: no error.", inline, err)
		}
		const prefix = "data:application/json;charset=utf-8;base64,"
		if !strings.HasPrefix(got.Text, prefix) {
			t.Fatalf("Got: %q. Want: data URI.", got.Text)
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got.Text, prefix))
		if err != nil {
			t.Fatalf("Got: invalid base64 payload: %s. Want: no error.", err)
		}
		if _, err := ReadFrom(bytes.NewReader(data)); err != nil {
			t.Errorf("Got: inline payload isn't a source map: %s. Want: no error.", err)
		}
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := Stringify(simpleMap(), Options{Format: "yaml"})
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Got: Stringify() returned error %v. Want: %v.", err, ErrUnknownFormat)
		}
	})
}

func TestStringifyDoesNotModifyInput(t *testing.T) {
	m := simpleMap()
	if _, err := Stringify(m, Options{RootDir: "/test-root", Format: Object}); err != nil {
		t.Fatalf("Got: Stringify() returned error: %s. Want: no error.", err)
	}
	if diff := cmp.Diff(simpleMap(), m); diff != "" {
		t.Errorf("Input map was modified (-want,+got):\n%s", diff)
	}
}

func TestReadWrite(t *testing.T) {
	buf := &bytes.Buffer{}
	m := &Map{Mappings: "AAAA"}
	if _, err := m.WriteTo(buf); err != nil {
		t.Fatalf("Got: WriteTo() returned error: %s. Want: no error.", err)
	}
	if got, want := buf.String(), `{"version":3,"sources":[],"names":[],"mappings":"AAAA"}`; got != want {
		t.Errorf("Got: %s. Want: %s.", got, want)
	}

	got, err := ReadFrom(buf)
	if err != nil {
		t.Fatalf("Got: ReadFrom() returned error: %s. Want: no error.", err)
	}
	want := &Map{Version: 3, Sources: []string{}, Names: []string{}, Mappings: "AAAA"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadFrom() returned diff (-want,+got):\n%s", diff)
	}

	if _, err := ReadFrom(strings.NewReader("{")); err == nil {
		t.Errorf("Got: no error for truncated JSON. Want: error.")
	}
}

func TestMappingURLComment(t *testing.T) {
	if got, want := MappingURLComment("main.js.map"), "//# sourceMappingURL=main.js.map\n"; got != want {
		t.Errorf("Got: %q. Want: %q.", got, want)
	}
}
