package controller

import (
	"sort"
	"testing"

	"github.com/kepler-fts/facetrackd/internal/models"
)

func descriptor(id, locator string, enabled bool) models.CameraDescriptor {
	return models.CameraDescriptor{ID: id, Kind: models.SourceRTSP, Locator: locator, Enabled: enabled}
}

func sorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

// TestDiffDescriptorsScenarioS5 mirrors the config hot-reload scenario:
// cameras {A,B} running, apply a config adding C and removing B -> A
// untouched, B stopped, C started.
func TestDiffDescriptorsScenarioS5(t *testing.T) {
	prev := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://a", true),
		"B": descriptor("B", "rtsp://b", true),
	}
	next := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://a", true),
		"C": descriptor("C", "rtsp://c", true),
	}

	plan := diffDescriptors(prev, next)

	if len(plan.restart) != 0 {
		t.Fatalf("expected A untouched (no restart), got restart=%v", plan.restart)
	}
	if got := sorted(plan.stop); len(got) != 1 || got[0] != "B" {
		t.Fatalf("expected stop=[B], got %v", got)
	}
	if got := sorted(plan.start); len(got) != 1 || got[0] != "C" {
		t.Fatalf("expected start=[C], got %v", got)
	}
}

func TestDiffDescriptorsChangedDescriptorRestarts(t *testing.T) {
	prev := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://old", true),
	}
	next := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://new", true),
	}

	plan := diffDescriptors(prev, next)

	if len(plan.stop) != 0 || len(plan.start) != 0 {
		t.Fatalf("expected only a restart, got stop=%v start=%v", plan.stop, plan.start)
	}
	if len(plan.restart) != 1 || plan.restart[0] != "A" {
		t.Fatalf("expected restart=[A], got %v", plan.restart)
	}
}

func TestDiffDescriptorsDisablingStopsWithoutStarting(t *testing.T) {
	prev := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://a", true),
	}
	next := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://a", false),
	}

	plan := diffDescriptors(prev, next)

	if len(plan.start) != 0 || len(plan.restart) != 0 {
		t.Fatalf("expected only a stop, got start=%v restart=%v", plan.start, plan.restart)
	}
	if len(plan.stop) != 1 || plan.stop[0] != "A" {
		t.Fatalf("expected stop=[A], got %v", plan.stop)
	}
}

func TestDiffDescriptorsUnchangedLeftAlone(t *testing.T) {
	prev := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://a", true),
	}
	next := map[string]models.CameraDescriptor{
		"A": descriptor("A", "rtsp://a", true),
	}

	plan := diffDescriptors(prev, next)

	if len(plan.stop)+len(plan.restart)+len(plan.start) != 0 {
		t.Fatalf("expected an empty plan for an unchanged descriptor, got %+v", plan)
	}
}
