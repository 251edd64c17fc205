package contacts

// Preset names a common staleness shortcut for campaign building.
type Preset string

const (
	PresetDormant  Preset = "dormant"
	PresetFollowUp Preset = "follow-up"
	PresetFresh    Preset = "fresh"
)

const (
	// DormantDays is the minimum days since the last order for the dormant preset.
	DormantDays = 30
	// FollowUpDays is the minimum days since the last call for the follow-up preset.
	FollowUpDays = 7
)

// ApplyPreset returns criteria with the preset's thresholds applied.
// The second value is false for an unknown preset, in which case the
// criteria come back unchanged.
func ApplyPreset(criteria Criteria, preset Preset) (Criteria, bool) {
	switch preset {
	case PresetDormant:
		criteria.MinDaysSinceOrder = intPtr(DormantDays)
		criteria.MinDaysSinceCall = nil
	case PresetFollowUp:
		criteria.MinDaysSinceCall = intPtr(FollowUpDays)
		criteria.MinDaysSinceOrder = nil
	case PresetFresh:
		criteria.MinDaysSinceCall = nil
		criteria.MinDaysSinceOrder = nil
		criteria.Status = StatusPending
	default:
		return criteria, false
	}
	return criteria, true
}

// SelectRange returns the phones of the 1-based inclusive range [from, to]
// of an already sorted list, clamped to the list bounds.
func SelectRange(sorted []Contact, from, to int) []string {
	start := from - 1
	if start < 0 {
		start = 0
	}
	end := to
	if end > len(sorted) {
		end = len(sorted)
	}
	if start >= end {
		return []string{}
	}

	phones := make([]string, 0, end-start)
	for _, contact := range sorted[start:end] {
		phones = append(phones, contact.Phone)
	}
	return phones
}

// Selection accumulates selected phones across range picks.
// Re-adding a phone is a no-op. The zero value is ready to use.
type Selection struct {
	seen   map[string]struct{}
	phones []string
}

// NewSelection starts a selection from previously chosen phones.
func NewSelection(phones ...string) *Selection {
	s := &Selection{}
	s.Add(phones...)
	return s
}

// Add unions phones into the selection and returns how many were new.
func (s *Selection) Add(phones ...string) int {
	if s.seen == nil {
		s.seen = make(map[string]struct{}, len(phones))
	}

	added := 0
	for _, p := range phones {
		if p == "" {
			continue
		}
		if _, ok := s.seen[p]; ok {
			continue
		}
		s.seen[p] = struct{}{}
		s.phones = append(s.phones, p)
		added++
	}
	return added
}

// Contains reports whether phone has been selected.
func (s *Selection) Contains(phone string) bool {
	_, ok := s.seen[phone]
	return ok
}

// Len returns the number of selected phones.
func (s *Selection) Len() int {
	return len(s.phones)
}

// Phones returns the selected phones in selection order.
func (s *Selection) Phones() []string {
	out := make([]string, len(s.phones))
	copy(out, s.phones)
	return out
}
