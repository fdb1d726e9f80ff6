package core

import "testing"

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Name: "a", UnitPrice: 10, SourceFile: "price1"},
		{Name: "b", UnitPrice: 20, SourceFile: "price1"},
		{Name: "c", UnitPrice: 60, SourceFile: "price2"},
	}

	s, err := Summarize(rows)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if s.Rows != 3 || s.Files != 2 {
		t.Errorf("Rows/Files = %d/%d, want 3/2", s.Rows, s.Files)
	}
	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"min", s.Min, 10},
		{"max", s.Max, 60},
		{"mean", s.Mean, 30},
		{"median", s.Median, 20},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s is nil", c.name)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, *c.got, c.want)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(nil)
	if err != nil {
		t.Fatalf("Summarize(nil) error = %v", err)
	}
	if s.Rows != 0 || s.Min != nil || s.Max != nil || s.Mean != nil || s.Median != nil {
		t.Errorf("Summarize(nil) = %+v, want zero summary", s)
	}
}
