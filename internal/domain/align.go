package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Aligner pairs arrive/depart events into berth-stay intervals. The PairID
// counter is run-scoped: create a new Aligner per run.
type Aligner struct {
	specialZone string // normalized label of the never-paired crossing zone
	counter     int
}

// NewAligner creates an Aligner. specialZoneLabel names the crossing zone
// whose enter/exit events are emitted one-sided instead of paired.
func NewAligner(specialZoneLabel string) *Aligner {
	return &Aligner{specialZone: NormalizeKey(specialZoneLabel)}
}

// Align sorts the standardized stream by (IMO, Time, Zone), partitions it into
// (IMO, Zone) groups, and walks each group with a forward-scanning cursor.
// Events whose timestamp did not parse sort last within their vessel, are
// never offered to the forward scan, and come out as Status Other.
//
// Group iteration order is (IMO, Zone) ascending, so the emitted PairID
// sequence is deterministic for a given input.
func (a *Aligner) Align(events []RawMovementEvent) []EventInterval {
	sorted := make([]RawMovementEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := sorted[i], sorted[j]
		if ei.IMO != ej.IMO {
			return ei.IMO < ej.IMO
		}
		// Unparseable times sort after every real time.
		if ei.Time.IsZero() != ej.Time.IsZero() {
			return !ei.Time.IsZero()
		}
		if !ei.Time.Equal(ej.Time) {
			return ei.Time.Before(ej.Time)
		}
		return ei.Zone < ej.Zone
	})

	type groupKey struct{ imo, zone string }
	groups := make(map[groupKey][]RawMovementEvent)
	keys := make([]groupKey, 0)
	for _, ev := range sorted {
		k := groupKey{ev.IMO, ev.Zone}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], ev)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].imo != keys[j].imo {
			return keys[i].imo < keys[j].imo
		}
		return keys[i].zone < keys[j].zone
	})

	var intervals []EventInterval
	for _, k := range keys {
		intervals = a.alignGroup(intervals, groups[k])
	}
	return intervals
}

// alignGroup runs the cursor loop over one (IMO, Zone) group, appending the
// emitted intervals to dst.
func (a *Aligner) alignGroup(dst []EventInterval, group []RawMovementEvent) []EventInterval {
	for i := 0; i < len(group); {
		ev := group[i]

		// A record with no usable time cannot participate in pairing.
		if ev.Time.IsZero() {
			dst = append(dst, a.emit(ev, StatusOther, time.Time{}, time.Time{}))
			i++
			continue
		}

		action := strings.ToLower(strings.TrimSpace(ev.Action))

		if NormalizeKey(ev.Zone) == a.specialZone {
			switch action {
			case "enter":
				dst = append(dst, a.emit(ev, StatusSWPEnterExit, ev.Time, time.Time{}))
			case "exit":
				dst = append(dst, a.emit(ev, StatusSWPEnterExit, time.Time{}, ev.Time))
			}
			i++
			continue
		}

		switch action {
		case "arrive":
			j := -1
			for k := i + 1; k < len(group); k++ {
				if group[k].Time.IsZero() {
					continue
				}
				if strings.ToLower(strings.TrimSpace(group[k].Action)) == "depart" {
					j = k
					break
				}
			}
			if j >= 0 {
				dst = append(dst, a.emit(ev, StatusMatched, ev.Time, group[j].Time))
				// The claimed depart is consumed and cannot pair again.
				i = j + 1
			} else {
				dst = append(dst, a.emit(ev, StatusMismatchArrive, ev.Time, time.Time{}))
				i++
			}
		case "depart":
			dst = append(dst, a.emit(ev, StatusMismatchDepart, time.Time{}, ev.Time))
			i++
		default:
			dst = append(dst, a.emit(ev, StatusOther, time.Time{}, time.Time{}))
			i++
		}
	}
	return dst
}

// emit builds one interval from the defining event, advancing the run-scoped
// counter. Matched pairs and crossing singles get the Pair_ prefix; one-sided
// and unclassifiable records get Mismatch_.
func (a *Aligner) emit(ev RawMovementEvent, status IntervalStatus, arrive, depart time.Time) EventInterval {
	a.counter++

	prefix := "Pair"
	switch status {
	case StatusMismatchArrive, StatusMismatchDepart, StatusOther:
		prefix = "Mismatch"
	}

	mmYY := "NA"
	if !ev.Time.IsZero() {
		mmYY = ev.Time.Format("0106")
	}

	return EventInterval{
		PairID:     fmt.Sprintf("%s_%06d_%s_%s", prefix, a.counter, ev.IMO, mmYY),
		IMO:        ev.IMO,
		Name:       ev.Name,
		Zone:       ev.Zone,
		Agent:      ev.Agent,
		VesselType: ev.VesselType,
		Draft:      ev.Draft,
		Mile:       ev.Mile,
		ArriveTime: arrive,
		DepartTime: depart,
		SourceFile: ev.SourceFile,
		Status:     status,
	}
}
