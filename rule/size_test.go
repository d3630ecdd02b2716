package rule

import (
	"testing"

	"github.com/ftahirops/validatord/model"
)

func TestSizesBreaksLoopAfterFirstChangeDetectRule(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	changeDetect := &model.SizeRule{ChangeDetect: true}
	trailingConstant := &model.SizeRule{ChangeDetect: false, Op: model.OpGt, Limit: 10}
	fb := &fakeBridge{}

	Sizes(svc, []*model.SizeRule{changeDetect, trailingConstant}, 100, fb)

	if !changeDetect.Initialized || changeDetect.Last != 100 {
		t.Fatalf("expected change-detect rule to seed, got %+v", changeDetect)
	}
	if len(fb.events) != 0 {
		t.Fatalf("expected no events posted (seed cycle, then loop break), got %v", fb.events)
	}
}

func TestSizesConstantValueRunsEveryCycle(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	r := &model.SizeRule{ChangeDetect: false, Op: model.OpGt, Limit: 10}
	fb := &fakeBridge{}

	Sizes(svc, []*model.SizeRule{r}, 100, fb)

	if len(fb.events) != 1 || fb.events[0].kind != model.EventSize || fb.events[0].state != model.StateFailed {
		t.Fatalf("expected one Size FAILED event (100 > 10), got %v", fb.events)
	}
}

func TestSizesChangeDetectEmitsChangedAfterSeed(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	r := &model.SizeRule{ChangeDetect: true, Initialized: true, Last: 100}
	fb := &fakeBridge{}

	Sizes(svc, []*model.SizeRule{r}, 10, fb)

	if len(fb.events) != 1 || fb.events[0].state != model.StateChanged {
		t.Fatalf("expected one Changed event for shrink 100->10, got %v", fb.events)
	}
	if r.Last != 10 {
		t.Fatalf("expected Last to update to 10, got %d", r.Last)
	}
}
