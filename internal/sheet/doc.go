// Package sheet fetches and parses the CSV export of the published spreadsheet.
//
// The export is read over HTTP from the gviz endpoint, split into rows, and
// each row is split into fields by a small quote-aware line parser. The parser
// intentionally mirrors the export's conventions rather than RFC 4180: a double
// quote only toggles the "inside quotes" state and is never emitted, so a
// doubled quote is not an escaped quote. Rows are mapped positionally into
// record.Game or record.ScheduleEvent; the first row is always the header and
// rows that are blank or too short are dropped without error.
package sheet
