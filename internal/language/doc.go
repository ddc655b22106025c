// Package language provides approximate keyword-based language detection for
// narration text. Scores are keyword-set match counts; the result feeds voice
// selection and is never treated as authoritative.
package language
