// Package align reconciles two subtitle tracks line by line.
//
// The Engine walks the original track while tracking a signed offset into the
// modified track. Each step first tries a cheap lexical pass (DistanceAligner
// semantics: direct match, split or merge by edit-distance ratio) and falls
// back to a semantic pass that also looks one line back and one line ahead.
// Every resolved step appends a Record mapping a contiguous original range to
// a contiguous modified range.
//
// Steps run strictly in sequence. Within a semantic step the independent
// similarity lookups run concurrently, bounded by Config.MaxParallel, and the
// decision is only taken after all of them have completed. Any oracle failure
// aborts the run with an error wrapping ErrOracleUnavailable.
package align
