package availability

import (
	"encoding/json"
	"fmt"

	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// RangeRecord is the stored shape of a Range, in numeric hours.
type RangeRecord struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// SelectionRecord is the stored shape of a DaySelection.
type SelectionRecord struct {
	Date          string        `json:"date"`
	Ranges        []RangeRecord `json:"ranges"`
	IntervalSize  float64       `json:"intervalSize"`
	ParticipantID string        `json:"participantId"`
}

// ParseRange validates a RangeRecord.
func ParseRange(rec RangeRecord) (Range, error) {
	start, err := clock.FromNumber(rec.StartTime)
	if err != nil {
		return Range{}, fmt.Errorf("start time: %w", err)
	}
	end, err := clock.FromNumber(rec.EndTime)
	if err != nil {
		return Range{}, fmt.Errorf("end time: %w", err)
	}
	return NewRange(start, end)
}

// ParseSelection validates a SelectionRecord and rebuilds the DaySelection.
// A record without ranges yields an empty selection.
func ParseSelection(rec SelectionRecord) (*DaySelection, error) {
	date, err := dateutil.ParseISODate(rec.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q: %w", ErrInvalidArguments, rec.Date, err)
	}
	if err := clock.ValidateSize(rec.IntervalSize); err != nil {
		return nil, fmt.Errorf("interval size: %w", err)
	}

	ranges := make(RangeList, 0, len(rec.Ranges))
	for k, rr := range rec.Ranges {
		r, err := ParseRange(rr)
		if err != nil {
			return nil, fmt.Errorf("range %d: %w", k, err)
		}
		ranges = append(ranges, r)
	}
	return NewDaySelection(date, rec.IntervalSize, rec.ParticipantID, ranges)
}

// Record converts the selection to its stored shape.
func (s *DaySelection) Record() SelectionRecord {
	ranges := make([]RangeRecord, 0, len(s.intervals))
	for _, r := range s.Ranges() {
		ranges = append(ranges, RangeRecord{StartTime: r.Start.Hours(), EndTime: r.End.Hours()})
	}
	return SelectionRecord{
		Date:          s.date.Format(dateutil.DateLayout),
		Ranges:        ranges,
		IntervalSize:  s.size,
		ParticipantID: s.participant,
	}
}

// ParseRecords decodes a JSON array of selection records.
func ParseRecords(data []byte) ([]*DaySelection, error) {
	var recs []SelectionRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding selection records: %w", err)
	}
	selections := make([]*DaySelection, 0, len(recs))
	for k, rec := range recs {
		sel, err := ParseSelection(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", k, err)
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

// MarshalRecords encodes selections as an indented JSON array.
func MarshalRecords(selections []*DaySelection) ([]byte, error) {
	recs := make([]SelectionRecord, 0, len(selections))
	for _, sel := range selections {
		recs = append(recs, sel.Record())
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding selection records: %w", err)
	}
	return data, nil
}
