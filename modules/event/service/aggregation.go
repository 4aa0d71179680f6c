package service

import (
	"fmt"
	"math"
	"sort"

	"modutime/modules/event/entity"

	"github.com/google/uuid"
)

// ParticipantRef identifies a participant inside aggregation output.
type ParticipantRef struct {
	ID       uuid.UUID `json:"participant_id"`
	Nickname string    `json:"nickname"`
}

// AvailabilityRow is one (participant, slot) mark with is_available=true.
type AvailabilityRow struct {
	ParticipantID uuid.UUID
	SlotID        uuid.UUID
}

// Snapshot is a consistent read of one event's scheduling state. All
// aggregate computations run over a snapshot, never over live storage, so
// every query recomputes from the same rows.
type Snapshot struct {
	Slots            []entity.TimeSlot
	Participants     []ParticipantRef
	availableBySlot  map[uuid.UUID][]ParticipantRef
	countBySlot      map[uuid.UUID]int
	submittedByPart  map[uuid.UUID]int
}

// BuildSnapshot indexes availability rows for aggregation. Participant lists
// per slot keep roster order so output is deterministic.
func BuildSnapshot(slots []entity.TimeSlot, participants []ParticipantRef, rows []AvailabilityRow) Snapshot {
	marked := make(map[uuid.UUID]map[uuid.UUID]bool, len(slots))
	submitted := make(map[uuid.UUID]int, len(participants))
	for _, row := range rows {
		if marked[row.SlotID] == nil {
			marked[row.SlotID] = make(map[uuid.UUID]bool)
		}
		if !marked[row.SlotID][row.ParticipantID] {
			marked[row.SlotID][row.ParticipantID] = true
			submitted[row.ParticipantID]++
		}
	}

	bySlot := make(map[uuid.UUID][]ParticipantRef, len(slots))
	counts := make(map[uuid.UUID]int, len(slots))
	for _, slot := range slots {
		for _, p := range participants {
			if marked[slot.ID][p.ID] {
				bySlot[slot.ID] = append(bySlot[slot.ID], p)
			}
		}
		counts[slot.ID] = len(bySlot[slot.ID])
	}

	return Snapshot{
		Slots:           slots,
		Participants:    participants,
		availableBySlot: bySlot,
		countBySlot:     counts,
		submittedByPart: submitted,
	}
}

// SlotStat is the per-slot aggregate.
type SlotStat struct {
	Slot         entity.TimeSlot
	Count        int
	Percentage   float64
	Participants []ParticipantRef
	AllAvailable bool
}

// DashboardStats summarizes roster participation.
type DashboardStats struct {
	TotalParticipants     int     `json:"total_participants"`
	SubmittedParticipants int     `json:"submitted_participants"`
	PendingParticipants   int     `json:"pending_participants"`
	SubmissionRate        float64 `json:"submission_rate"`
	TotalTimeSlots        int     `json:"total_time_slots"`
}

// AggregationEngine computes counts, rankings and dashboard figures over a
// snapshot. It holds no mutable state.
type AggregationEngine struct {
	snap Snapshot
}

func NewAggregationEngine(snap Snapshot) *AggregationEngine {
	return &AggregationEngine{snap: snap}
}

// Count is the number of participants marked available for the slot.
func (e *AggregationEngine) Count(slotID uuid.UUID) int {
	return e.snap.countBySlot[slotID]
}

// Percentage is Count over the roster size, 0 when the roster is empty.
func (e *AggregationEngine) Percentage(slotID uuid.UUID) float64 {
	total := len(e.snap.Participants)
	if total == 0 {
		return 0
	}
	return round1(float64(e.Count(slotID)) / float64(total) * 100)
}

func (e *AggregationEngine) stat(slot entity.TimeSlot) SlotStat {
	total := len(e.snap.Participants)
	count := e.Count(slot.ID)
	return SlotStat{
		Slot:         slot,
		Count:        count,
		Percentage:   e.Percentage(slot.ID),
		Participants: e.snap.availableBySlot[slot.ID],
		AllAvailable: total > 0 && count == total,
	}
}

// Summary filters slots to count >= minParticipants (and, when
// onlyAllAvailable, to full-roster slots) preserving chronological order.
func (e *AggregationEngine) Summary(minParticipants int, onlyAllAvailable bool) []SlotStat {
	total := len(e.snap.Participants)
	result := []SlotStat{}
	for _, slot := range e.snap.Slots {
		count := e.Count(slot.ID)
		if count < minParticipants {
			continue
		}
		if onlyAllAvailable && (total == 0 || count != total) {
			continue
		}
		result = append(result, e.stat(slot))
	}
	return result
}

// BestSlots ranks the Summary result by count descending. The sort is
// stable by contract: equal counts keep chronological order, so ranking is
// reproducible across runs.
func (e *AggregationEngine) BestSlots(minParticipants int, onlyAllAvailable bool) []SlotStat {
	result := e.Summary(minParticipants, onlyAllAvailable)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// Recommend returns the top slots by count plus a message reflecting
// whether any slot covers the whole roster.
func (e *AggregationEngine) Recommend(limit int, minParticipants int) ([]SlotStat, string) {
	ranked := e.BestSlots(minParticipants, false)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	total := len(e.snap.Participants)
	if total == 0 {
		return ranked, "No participants have joined this event yet."
	}

	fullCount := 0
	hasAny := false
	for _, s := range e.Summary(1, false) {
		hasAny = true
		if s.AllAvailable {
			fullCount++
		}
	}
	switch {
	case !hasAny:
		return ranked, "No availability has been submitted yet."
	case fullCount > 0:
		return ranked, fmt.Sprintf("Found %d slot(s) where every participant is available.", fullCount)
	default:
		return ranked, "No slot works for everyone yet. Showing the most popular slots."
	}
}

// Heatmap is the unfiltered per-slot aggregate for every slot.
func (e *AggregationEngine) Heatmap() []SlotStat {
	result := make([]SlotStat, 0, len(e.snap.Slots))
	for _, slot := range e.snap.Slots {
		result = append(result, e.stat(slot))
	}
	return result
}

// MostPopularSlot is the slot with the maximum count; the first slot in
// chronological order wins ties. Nil when there are no slots or no
// availability at all.
func (e *AggregationEngine) MostPopularSlot() *SlotStat {
	var best *SlotStat
	for _, slot := range e.snap.Slots {
		count := e.Count(slot.ID)
		if best == nil || count > best.Count {
			s := e.stat(slot)
			best = &s
		}
	}
	if best == nil || best.Count == 0 {
		return nil
	}
	return best
}

// DashboardStats counts roster participation. A participant counts as
// submitted once it has at least one available row.
func (e *AggregationEngine) DashboardStats() DashboardStats {
	total := len(e.snap.Participants)
	submitted := 0
	for _, p := range e.snap.Participants {
		if e.snap.submittedByPart[p.ID] > 0 {
			submitted++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = round1(float64(submitted) / float64(total) * 100)
	}
	return DashboardStats{
		TotalParticipants:     total,
		SubmittedParticipants: submitted,
		PendingParticipants:   total - submitted,
		SubmissionRate:        rate,
		TotalTimeSlots:        len(e.snap.Slots),
	}
}

// SubmittedCount is how many slots a participant marked available.
func (e *AggregationEngine) SubmittedCount(participantID uuid.UUID) int {
	return e.snap.submittedByPart[participantID]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
