package util_test

import (
	"testing"

	"github.com/camstack/camstack/util"
)

func TestArangeInt32Forward(t *testing.T) {
	var (
		start int32 = 10
		end   int32 = 20
		step  int32 = 3
	)
	arangeRes := util.ArangeInt32(start, end, step)
	if len(arangeRes) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(arangeRes))
	}
	for i := 0; i < len(arangeRes); i++ {
		expected := start + (int32(i) * step)
		if arangeRes[i] != expected {
			t.Errorf("expected %d at position %d, got %d", expected, i, arangeRes[i])
		}
	}
}

func TestArangeInt32Empty(t *testing.T) {
	if out := util.ArangeInt32(5, 5); len(out) != 0 {
		t.Errorf("expected empty interval, got %v", out)
	}
	if out := util.ArangeInt32(0, 10, 0); len(out) != 0 {
		t.Errorf("expected zero step to yield nothing, got %v", out)
	}
	if out := util.ArangeInt32(); len(out) != 0 {
		t.Errorf("expected no args to yield nothing, got %v", out)
	}
}

func TestIntSliceToCSV(t *testing.T) {
	inp := []int{1, 2, 3}
	expected := "1,2,3"
	out := util.IntSliceToCSV(inp)
	if expected != out {
		t.Errorf("expected %s got %s", expected, out)
	}
}
