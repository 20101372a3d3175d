// Package domain models lower-river vessel movement data and the berth-stay
// intervals derived from it.
//
// # Data Source
//
// Movement events come from a vendor feed of arrival/departure pings at named
// river zones (docks, anchorages, river miles, crossing checkpoints). Each
// report carries a vendor vessel identifier (IMO), the vessel name as typed by
// the reporting agent, a free-text zone label, and an action. Feeds arrive as
// one CSV per reporting period; rows from all files are combined into a single
// stream before alignment.
//
// # Feed Conventions
//
// IMO identifiers:
//
//	The vendor pads or suffixes identifiers inconsistently; only the first 7
//	characters are significant. Values shorter than 7 characters are rejected
//	as unusable. See [CanonicalIMO].
//
// Actions (compared case-insensitively):
//
//	"arrive" / "depart"  — normal berth calls, paired into stay intervals.
//	"enter" / "exit"     — crossing checkpoints such as the SWP Cross zone;
//	                       never paired, emitted one-sided.
//	anything else        — passed through with status Other.
//
// Vessel names:
//
//	Trimmed but otherwise preserved for display. A lowercased copy is used for
//	the exclusion list, which removes known barge/tow names that pollute the
//	feed. Exclusion is an exact match on the full name, never a substring.
//
// # Pairing
//
// Events are sorted by (IMO, Time, Zone) and partitioned by (IMO, Zone). Within
// a group an "arrive" claims the first later "depart", regardless of distance;
// the claimed depart cannot pair again. An arrive with no later depart becomes
// Mismatch_Arrive, an unclaimed depart becomes Mismatch_Depart. An
// "arrive, arrive, depart" run therefore pairs the first arrive with the depart
// and leaves the second arrive unmatched. That is the feed's observed
// semantics (re-arrival without a reported departure) and is preserved as-is.
//
// # PairID
//
//	Pair_000123_1234567_0124      matched pairs and crossing singles
//	Mismatch_000124_1234567_0124  one-sided or unclassifiable records
//
// The six-digit counter increases for every interval emitted across the whole
// run, so PairIDs are unique per run and the sequence is deterministic for a
// given input ordering. The trailing token is the month and year (mmYY) of the
// record's own timestamp, or "NA" when the timestamp did not parse.
//
// # Berth Dictionary
//
// Zone labels are free text and drift between reporting agents ("Ama Anchorage",
// "AMA anchorage.", "ama  anchorage"). The berth dictionary maps a canonical
// zone label to a facility name and facility type. Both sides are joined on a
// normalized key: lowercased, punctuation stripped, whitespace collapsed. The
// same normalization is applied to vessel names when building the matcher's
// name index.
//
// # Manifest Matching
//
// Trade-manifest rows are matched against the enriched intervals by IMO first
// and normalized vessel name second, then filtered by a date tolerance
// (default 4 days) between the manifest arrival date and the interval's
// ArriveTime. The first candidate within tolerance in index order wins; the
// scan never looks for a chronologically closer one. Intervals whose facility
// type mentions "Pilot Station" or "Anchorage" are not berth calls and are
// excluded from the lookup universe before indexing.
//
// Manifest dates appear in several shapes: ISO, US and EU slash forms, compact
// 8-digit, and legacy spreadsheet serial-day numbers counted from 1900-01-01.
// See [ParseFlexibleDate].
package domain
