// Package deck defines the generation request model: an ordered deck of
// content items with style and quality options, plus validation and the
// quality-to-resolution mapping.
package deck
