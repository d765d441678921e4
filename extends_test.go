package sourcemap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gopherjs/sourcemap/internal/testingx"
)

func TestExtends(t *testing.T) {
	tests := []struct {
		descr        string
		current      []Mapping
		previous     []Mapping
		want         []Mapping
		wantMappings string
	}{{
		descr: "single pass",
		current: []Mapping{
			{Generated: Position{Line: 5, Column: 12}, Original: pos(6, 15), Source: "index.js"},
		},
		previous: []Mapping{
			{Generated: Position{Line: 6, Column: 15}, Original: pos(1, 0), Source: "index.js", Name: "A"},
		},
		want: []Mapping{
			{Generated: Position{Line: 5, Column: 12}, Original: pos(1, 0), Source: "index.js", Name: "A"},
		},
		wantMappings: ";;;;YAAAA",
	}, {
		descr: "null mappings in the previous map",
		current: []Mapping{
			{Generated: Position{Line: 2, Column: 15}, Original: pos(15, 165), Source: "index.js"},
			{Generated: Position{Line: 2, Column: 110}, Original: pos(6, 12), Source: "index.js"},
		},
		previous: []Mapping{
			{Generated: Position{Line: 6, Column: 12}, Original: pos(7, 15), Source: "index.js"},
			{Generated: Position{Line: 15, Column: 165}},
		},
		want: []Mapping{
			{Generated: Position{Line: 2, Column: 15}},
			{Generated: Position{Line: 2, Column: 110}, Original: pos(7, 15), Source: "index.js"},
		},
		wantMappings: ";e,+FAMe",
	}, {
		descr: "before the first previous mapping",
		current: []Mapping{
			{Generated: Position{Line: 1, Column: 0}, Original: pos(1, 0), Source: "a.js", Name: "kept"},
		},
		previous: []Mapping{
			{Generated: Position{Line: 3, Column: 0}, Original: pos(10, 0), Source: "a.ts"},
		},
		want: []Mapping{
			{Generated: Position{Line: 1, Column: 0}},
		},
		wantMappings: "A",
	}, {
		descr: "existing name is kept",
		current: []Mapping{
			{Generated: Position{Line: 1, Column: 4}, Original: pos(2, 8), Source: "a.js", Name: "local"},
		},
		previous: []Mapping{
			{Generated: Position{Line: 2, Column: 0}, Original: pos(20, 3), Source: "a.ts"},
		},
		want: []Mapping{
			{Generated: Position{Line: 1, Column: 4}, Original: pos(20, 3), Source: "a.ts", Name: "local"},
		},
		wantMappings: "ICmBGA",
	}, {
		descr: "null mappings in the current map",
		current: []Mapping{
			{Generated: Position{Line: 1, Column: 0}},
		},
		previous: []Mapping{
			{Generated: Position{Line: 1, Column: 0}, Original: pos(1, 0), Source: "a.ts"},
		},
		want: []Mapping{
			{Generated: Position{Line: 1, Column: 0}},
		},
		wantMappings: "A",
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			current := newMap(t, test.current...)
			previous := newMap(t, test.previous...)
			previousBefore := previous.Map()

			testingx.NoError(t, current.Extends(previous))

			got := []Mapping{}
			for _, m := range current.Mappings() {
				resolved, ok := current.FindClosestMapping(m.Generated.Line, m.Generated.Column)
				if !ok {
					t.Fatalf("Got: no mapping at %v. Want: a mapping.", m.Generated)
				}
				got = append(got, resolved)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Extends() returned diff (-want,+got):\n%s", diff)
			}
			if got := current.ToVLQ().Mappings; got != test.wantMappings {
				t.Errorf("Got: mappings %q. Want: %q.", got, test.wantMappings)
			}
			if diff := cmp.Diff(previousBefore, previous.Map()); diff != "" {
				t.Errorf("Extends() modified the previous map (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestExtendsSourceContent(t *testing.T) {
	current := newMap(t,
		Mapping{Generated: Position{Line: 1, Column: 0}, Original: pos(1, 0), Source: "bundle.js"},
	)
	previous := newMap(t,
		Mapping{Generated: Position{Line: 1, Column: 0}, Original: pos(1, 0), Source: "a.ts"},
		Mapping{Generated: Position{Line: 2, Column: 0}, Original: pos(1, 0), Source: "b.ts"},
	)
	previous.SetSourceContent("a.ts", "const a = 1;")
	previous.SetSourceContent("b.ts", "const b = 2;")

	testingx.NoError(t, current.Extends(previous))

	// Only sources that mappings end up referring to are carried over.
	want := map[string]*string{"bundle.js": nil, "a.ts": strPtr("const a = 1;")}
	if diff := cmp.Diff(want, current.SourcesContentMap()); diff != "" {
		t.Errorf("SourcesContentMap() returned diff (-want,+got):\n%s", diff)
	}
}

func TestExtendsSelf(t *testing.T) {
	sm := newMap(t,
		Mapping{Generated: Position{Line: 1, Column: 0}, Original: pos(2, 0), Source: "a.js"},
		Mapping{Generated: Position{Line: 2, Column: 0}, Original: pos(1, 5), Source: "b.js", Name: "x"},
	)
	testingx.NoError(t, sm.Extends(sm))

	want := []IndexedMapping{
		{Generated: Position{Line: 1, Column: 0}, Original: pos(1, 5), Source: 1, Name: 0},
		{Generated: Position{Line: 2, Column: 0}, Original: pos(2, 0), Source: 0, Name: 0},
	}
	if diff := cmp.Diff(want, sm.Mappings()); diff != "" {
		t.Errorf("Extends() returned diff (-want,+got):\n%s", diff)
	}
}

func TestExtendsInvalid(t *testing.T) {
	sm := New("/")
	testingx.WantError(t, sm.Extends(nil), ErrIncompatibleInstance)
	testingx.WantError(t, sm.ExtendsBuffer([]byte("garbage")), ErrIncompatibleInstance)
}

func TestExtendsBuffer(t *testing.T) {
	previous := newMap(t,
		Mapping{Generated: Position{Line: 6, Column: 15}, Original: pos(1, 0), Source: "index.js", Name: "A"},
	)
	buf := testingx.Must[[]byte](t)(previous.ToBuffer())

	current := newMap(t,
		Mapping{Generated: Position{Line: 5, Column: 12}, Original: pos(6, 15), Source: "index.js"},
	)
	testingx.NoError(t, current.ExtendsBuffer(buf))
	if got := current.ToVLQ().Mappings; got != ";;;;YAAAA" {
		t.Errorf("Got: mappings %q. Want: %q.", got, ";;;;YAAAA")
	}
}
