package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"modutime/core/constants"
	"modutime/core/errors"
	"modutime/modules/event/entity"
)

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the offset from local midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, *errors.AppError) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, errors.NewAppError(errors.ErrInvalidRange, "Invalid time of day: "+s, nil)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, errors.NewAppError(errors.ErrInvalidRange, "Invalid time of day: "+s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, errors.NewAppError(errors.ErrInvalidRange, "Invalid time of day: "+s, err)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// SlotGenerator discretizes an event's date/time window into fixed-size
// slots.
type SlotGenerator struct {
	SlotDurationMinutes int
}

func NewSlotGenerator() *SlotGenerator {
	return &SlotGenerator{
		SlotDurationMinutes: constants.SlotDurationMinutes,
	}
}

// Generate produces, for every calendar date in [dateStart, dateEnd], the
// consecutive slots from (date, timeStart) while the slot start is before
// (date, timeEnd). Each boundary is a wall-clock time resolved to an instant
// in loc, so a DST transition changes instant spacing but never the local
// boundaries, and no slot crosses local midnight. Output is ascending by
// start instant. Pure: no side effects beyond the returned sequence.
func (g *SlotGenerator) Generate(
	dateStart time.Time,
	dateEnd time.Time,
	timeStart TimeOfDay,
	timeEnd TimeOfDay,
	loc *time.Location,
) ([]entity.SlotWindow, *errors.AppError) {
	if dateEnd.Before(dateStart) {
		return nil, errors.NewAppError(errors.ErrInvalidRange, "End date is before start date", nil)
	}
	if timeEnd.Minutes() <= timeStart.Minutes() {
		return nil, errors.NewAppError(errors.ErrInvalidRange, "End time must be after start time", nil)
	}

	startMin := timeStart.Minutes()
	endMin := timeEnd.Minutes()
	step := g.SlotDurationMinutes

	slots := []entity.SlotWindow{}
	for d := dateStart; !d.After(dateEnd); d = d.AddDate(0, 0, 1) {
		year, month, day := d.Date()
		for m := startMin; m < endMin; m += step {
			next := m + step
			slots = append(slots, entity.SlotWindow{
				Start: time.Date(year, month, day, m/60, m%60, 0, 0, loc),
				End:   time.Date(year, month, day, next/60, next%60, 0, 0, loc),
			})
		}
	}
	return slots, nil
}

// CountPerDay is the number of slots generated for a single day.
func (g *SlotGenerator) CountPerDay(timeStart, timeEnd TimeOfDay) int {
	span := timeEnd.Minutes() - timeStart.Minutes()
	if span <= 0 {
		return 0
	}
	return (span + g.SlotDurationMinutes - 1) / g.SlotDurationMinutes
}
