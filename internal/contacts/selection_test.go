package contacts

import "testing"

func TestSelectRangeReturnsFirstThree(t *testing.T) {
	sorted := Filter(sampleContacts(), Criteria{})

	got := SelectRange(sorted, 1, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 phones, got %d", len(got))
	}
	want := map[string]bool{sorted[0].Phone: true, sorted[1].Phone: true, sorted[2].Phone: true}
	for _, p := range got {
		if !want[p] {
			t.Fatalf("unexpected phone %q in selection", p)
		}
	}
}

func TestSelectRangeClampsBounds(t *testing.T) {
	sorted := Filter(sampleContacts(), Criteria{})

	cases := []struct {
		from, to int
		want     int
	}{
		{0, 2, 2},
		{-5, 100, 5},
		{4, 100, 2},
		{6, 10, 0},
		{3, 2, 0},
	}

	for _, tc := range cases {
		if got := SelectRange(sorted, tc.from, tc.to); len(got) != tc.want {
			t.Errorf("SelectRange(%d, %d) returned %d phones, want %d", tc.from, tc.to, len(got), tc.want)
		}
	}
}

func TestSelectionAccumulatesWithoutDuplicates(t *testing.T) {
	sorted := Filter(sampleContacts(), Criteria{})
	sel := NewSelection()

	if added := sel.Add(SelectRange(sorted, 1, 3)...); added != 3 {
		t.Fatalf("expected 3 new phones, got %d", added)
	}
	if added := sel.Add(SelectRange(sorted, 2, 4)...); added != 1 {
		t.Fatalf("expected 1 new phone on overlapping range, got %d", added)
	}
	if sel.Len() != 4 {
		t.Fatalf("expected 4 selected phones, got %d", sel.Len())
	}
	if !sel.Contains(sorted[3].Phone) || sel.Contains(sorted[4].Phone) {
		t.Fatal("selection membership is wrong")
	}
}

func TestZeroSelectionIsUsable(t *testing.T) {
	var sel Selection
	sel.Add("01711000001", "01711000001", "")
	if sel.Len() != 1 {
		t.Fatalf("expected 1 phone, got %d", sel.Len())
	}
}

func TestApplyPreset(t *testing.T) {
	base := Criteria{Search: "x", MinDaysSinceCall: intPtr(3), MinDaysSinceOrder: intPtr(9)}

	dormant, ok := ApplyPreset(base, PresetDormant)
	if !ok || dormant.MinDaysSinceCall != nil || *dormant.MinDaysSinceOrder != DormantDays {
		t.Fatalf("unexpected dormant criteria %+v", dormant)
	}

	followUp, ok := ApplyPreset(base, PresetFollowUp)
	if !ok || followUp.MinDaysSinceOrder != nil || *followUp.MinDaysSinceCall != FollowUpDays {
		t.Fatalf("unexpected follow-up criteria %+v", followUp)
	}

	fresh, ok := ApplyPreset(base, PresetFresh)
	if !ok || fresh.MinDaysSinceOrder != nil || fresh.MinDaysSinceCall != nil || fresh.Status != StatusPending {
		t.Fatalf("unexpected fresh criteria %+v", fresh)
	}
	if fresh.Search != "x" {
		t.Fatal("presets must keep the search term")
	}

	if _, ok := ApplyPreset(base, Preset("weekly")); ok {
		t.Fatal("unknown preset must be rejected")
	}
	if *base.MinDaysSinceCall != 3 {
		t.Fatal("ApplyPreset modified the caller's thresholds")
	}
}
