package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"slidecast/internal/services"
)

// MaxItems bounds the number of content items in a single request.
const MaxItems = 10

// Style selects the presenter look and slide accents.
type Style string

const (
	StyleProfessional Style = "professional"
	StyleFriendly     Style = "friendly"
	StyleTeacher      Style = "teacher"
)

// Quality selects the target output resolution.
type Quality string

const (
	QualitySD     Quality = "sd"
	QualityHD     Quality = "hd"
	QualityFullHD Quality = "fullhd"
)

// Resolution is a target video frame size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Item is a single slide's content.
type Item struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Deck is a validated generation request: an ordered set of content items
// plus presentation options.
type Deck struct {
	Title         string  `json:"title"`
	Items         []Item  `json:"items"`
	NarrationText string  `json:"narration_text,omitempty"`
	Style         Style   `json:"style"`
	Quality       Quality `json:"quality"`
}

// Normalize fills unset enums with defaults and trims whitespace.
func (d *Deck) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.NarrationText = strings.TrimSpace(d.NarrationText)
	if d.Style == "" {
		d.Style = StyleProfessional
	}
	if d.Quality == "" {
		d.Quality = QualityHD
	}
	for i := range d.Items {
		d.Items[i].Title = strings.TrimSpace(d.Items[i].Title)
		d.Items[i].Body = strings.TrimSpace(d.Items[i].Body)
	}
}

// Validate rejects malformed requests before a job record exists.
func (d *Deck) Validate() error {
	if d.Title == "" {
		return services.Wrap(services.ErrValidation, "request", "validate title", "title is required", nil)
	}
	if len(d.Items) == 0 {
		return services.Wrap(services.ErrValidation, "request", "validate items", "at least one content item is required", nil)
	}
	if len(d.Items) > MaxItems {
		return services.Wrap(services.ErrValidation, "request", "validate items",
			fmt.Sprintf("at most %d content items are allowed, got %d", MaxItems, len(d.Items)), nil)
	}
	for i, item := range d.Items {
		if item.Title == "" && item.Body == "" {
			return services.Wrap(services.ErrValidation, "request", "validate items",
				fmt.Sprintf("content item %d is empty", i), nil)
		}
	}
	switch d.Style {
	case StyleProfessional, StyleFriendly, StyleTeacher:
	default:
		return services.Wrap(services.ErrValidation, "request", "validate style",
			fmt.Sprintf("unknown style %q", d.Style), nil)
	}
	switch d.Quality {
	case QualitySD, QualityHD, QualityFullHD:
	default:
		return services.Wrap(services.ErrValidation, "request", "validate quality",
			fmt.Sprintf("unknown quality %q", d.Quality), nil)
	}
	return nil
}

// Resolution returns the frame size derived from the requested quality.
func (d *Deck) Resolution() Resolution {
	switch d.Quality {
	case QualityFullHD:
		return Resolution{Width: 1920, Height: 1080}
	case QualitySD:
		return Resolution{Width: 854, Height: 480}
	default:
		return Resolution{Width: 1280, Height: 720}
	}
}

// Narration returns the narration text for an item: the per-item body unless
// a deck-level narration override is set.
func (d *Deck) Narration(index int) string {
	if d.NarrationText != "" {
		return d.NarrationText
	}
	if index < 0 || index >= len(d.Items) {
		return ""
	}
	return d.Items[index].Body
}

// Fingerprint returns a stable hash of the canonical request JSON. Staging
// directories are keyed by it, and it is the lookup key for any future
// artifact cache.
func (d *Deck) Fingerprint() string {
	canonical, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:8])
}

// ParseStyle converts a string into a known Style.
func ParseStyle(value string) (Style, bool) {
	normalized := Style(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StyleProfessional, StyleFriendly, StyleTeacher:
		return normalized, true
	}
	return "", false
}

// ParseQuality converts a string into a known Quality.
func ParseQuality(value string) (Quality, bool) {
	normalized := Quality(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case QualitySD, QualityHD, QualityFullHD:
		return normalized, true
	}
	return "", false
}
