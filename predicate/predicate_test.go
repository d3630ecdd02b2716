package predicate

import (
	"testing"

	"github.com/ftahirops/validatord/model"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name  string
		op    model.Operator
		value int64
		limit int64
		want  bool
	}{
		{"eq_true", model.OpEq, 5, 5, true},
		{"eq_false", model.OpEq, 5, 6, false},
		{"ne_true", model.OpNe, 5, 6, true},
		{"gt_true", model.OpGt, 10, 5, true},
		{"gt_false", model.OpGt, 5, 10, false},
		{"lt_true", model.OpLt, 1, 5, true},
		{"ge_boundary", model.OpGe, 5, 5, true},
		{"le_boundary", model.OpLe, 5, 5, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Eval(c.op, c.value, c.limit); got != c.want {
				t.Fatalf("Eval(%v, %d, %d) = %v, want %v", c.op, c.value, c.limit, got, c.want)
			}
		})
	}
}

func TestReportOrder(t *testing.T) {
	msg := Report("size", 100, 50, model.OpGt, "B")
	want := "size 100B > 50B"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}

func TestReportPercent10ScalesDown(t *testing.T) {
	msg := ReportPercent10("cpu", 455, 300, model.OpGt)
	want := "cpu 45.5% > 30.0%"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}
