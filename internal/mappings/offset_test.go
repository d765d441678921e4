package mappings

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func offsetFixture() *Table {
	tbl := &Table{}
	tbl.Append(mapping(0, 0, 0, 0, 0, None))
	tbl.Append(mapping(2, 3, 1, 0, 0, None))
	tbl.Append(mapping(2, 8, 2, 0, 0, None))
	tbl.Append(mapping(4, 1, 3, 0, 0, None))
	return tbl
}

func TestOffsetLines(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		tbl := offsetFixture()
		if err := tbl.OffsetLines(2, 3); err != nil {
			t.Fatalf("Got: OffsetLines() returned error: %s. Want: no error.", err)
		}
		want := []Mapping{
			mapping(0, 0, 0, 0, 0, None),
			mapping(5, 3, 1, 0, 0, None),
			mapping(5, 8, 2, 0, 0, None),
			mapping(7, 1, 3, 0, 0, None),
		}
		if diff := cmp.Diff(want, tbl.All()); diff != "" {
			t.Errorf("OffsetLines() returned diff (-want,+got):\n%s", diff)
		}
	})

	t.Run("backward past unaffected", func(t *testing.T) {
		tbl := offsetFixture()
		if err := tbl.OffsetLines(4, -4); err != nil {
			t.Fatalf("Got: OffsetLines() returned error: %s. Want: no error.", err)
		}
		got := tbl.All()
		if !isSorted(got) {
			t.Errorf("Got: unsorted table %v. Want: sorted.", got)
		}
		want := []Mapping{
			mapping(0, 0, 0, 0, 0, None),
			mapping(0, 1, 3, 0, 0, None),
			mapping(2, 3, 1, 0, 0, None),
			mapping(2, 8, 2, 0, 0, None),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("OffsetLines() returned diff (-want,+got):\n%s", diff)
		}
	})

	t.Run("complement", func(t *testing.T) {
		tbl := offsetFixture()
		before := tbl.All()
		for _, d := range []int{1, 7, 100} {
			if err := tbl.OffsetLines(2, d); err != nil {
				t.Fatalf("Got: OffsetLines(2, %d) returned error: %s. Want: no error.", d, err)
			}
			if err := tbl.OffsetLines(2+d, -d); err != nil {
				t.Fatalf("Got: OffsetLines(%d, %d) returned error: %s. Want: no error.", 2+d, -d, err)
			}
			if diff := cmp.Diff(before, tbl.All()); diff != "" {
				t.Errorf("Offset by %d and back returned diff (-want,+got):\n%s", d, diff)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tbl := offsetFixture()
		before := tbl.All()
		if err := tbl.OffsetLines(-1, 1); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("Got: OffsetLines(-1, 1) returned error %v. Want: %v.", err, ErrInvalidOffset)
		}
		if err := tbl.OffsetLines(2, -3); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("Got: OffsetLines(2, -3) returned error %v. Want: %v.", err, ErrInvalidOffset)
		}
		if diff := cmp.Diff(before, tbl.All()); diff != "" {
			t.Errorf("Failed offset modified the table (-want,+got):\n%s", diff)
		}
	})
}

func TestOffsetColumns(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		tbl := offsetFixture()
		if err := tbl.OffsetColumns(2, 5, 10); err != nil {
			t.Fatalf("Got: OffsetColumns() returned error: %s. Want: no error.", err)
		}
		want := []Mapping{
			mapping(0, 0, 0, 0, 0, None),
			mapping(2, 3, 1, 0, 0, None),
			mapping(2, 18, 2, 0, 0, None),
			mapping(4, 1, 3, 0, 0, None),
		}
		if diff := cmp.Diff(want, tbl.All()); diff != "" {
			t.Errorf("OffsetColumns() returned diff (-want,+got):\n%s", diff)
		}
	})

	t.Run("backward past unaffected", func(t *testing.T) {
		tbl := offsetFixture()
		if err := tbl.OffsetColumns(2, 8, -7); err != nil {
			t.Fatalf("Got: OffsetColumns() returned error: %s. Want: no error.", err)
		}
		want := []Mapping{
			mapping(0, 0, 0, 0, 0, None),
			mapping(2, 1, 2, 0, 0, None),
			mapping(2, 3, 1, 0, 0, None),
			mapping(4, 1, 3, 0, 0, None),
		}
		if diff := cmp.Diff(want, tbl.All()); diff != "" {
			t.Errorf("OffsetColumns() returned diff (-want,+got):\n%s", diff)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tbl := offsetFixture()
		before := tbl.All()
		if err := tbl.OffsetColumns(2, 0, -4); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("Got: OffsetColumns(2, 0, -4) returned error %v. Want: %v.", err, ErrInvalidOffset)
		}
		if err := tbl.OffsetColumns(2, -1, 1); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("Got: OffsetColumns(2, -1, 1) returned error %v. Want: %v.", err, ErrInvalidOffset)
		}
		if diff := cmp.Diff(before, tbl.All()); diff != "" {
			t.Errorf("Failed offset modified the table (-want,+got):\n%s", diff)
		}
	})

	t.Run("no affected mappings", func(t *testing.T) {
		tbl := offsetFixture()
		if err := tbl.OffsetColumns(3, 0, -100); err != nil {
			t.Errorf("Got: OffsetColumns() on empty line returned error: %s. Want: no error.", err)
		}
	})
}
