// Package speech talks to the pluggable narration provider and supplies the
// reduced-fidelity fallback (estimated-duration silence) used when the
// provider is unavailable.
package speech
