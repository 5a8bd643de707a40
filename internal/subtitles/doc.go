// Package subtitles loads subtitle tracks into ordered line records.
//
// ASS/SSA files are read from their [Events] section, following the section's
// Format line for field order. SRT files are read cue by cue; multi-line cue
// text is joined with the ASS break marker so both formats normalize the same
// way downstream. FilterByStyle and SortByStart prepare a track for
// alignment.
package subtitles
