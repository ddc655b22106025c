package speech

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// Silence WAV parameters: PCM16 mono at a modest sample rate keeps fallback
// artifacts small while staying valid input for ffmpeg.
const (
	silenceSampleRate = 22050
	silenceChannels   = 1
	silenceBitDepth   = 16
)

// EstimateSpokenSeconds approximates how long text would take to narrate at
// the configured speaking rate. The fallback clip is sized to this estimate.
func EstimateSpokenSeconds(text string, wordsPerSecond float64) float64 {
	if wordsPerSecond <= 0 {
		wordsPerSecond = 2.5
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}
	seconds := float64(words) / wordsPerSecond
	if seconds < 1 {
		return 1
	}
	return seconds
}

// WriteSilenceWAV writes a valid PCM WAV file containing silence of the given
// duration. Used as the reduced-fidelity narration artifact when the speech
// provider is unavailable.
func WriteSilenceWAV(path string, seconds float64) error {
	if seconds <= 0 {
		seconds = 1
	}
	sampleCount := int(seconds * silenceSampleRate)
	dataSize := sampleCount * silenceChannels * silenceBitDepth / 8

	header := make([]byte, 0, 44)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(36+dataSize))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, 1) // PCM
	header = binary.LittleEndian.AppendUint16(header, silenceChannels)
	header = binary.LittleEndian.AppendUint32(header, silenceSampleRate)
	header = binary.LittleEndian.AppendUint32(header, silenceSampleRate*silenceChannels*silenceBitDepth/8)
	header = binary.LittleEndian.AppendUint16(header, silenceChannels*silenceBitDepth/8)
	header = binary.LittleEndian.AppendUint16(header, silenceBitDepth)
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(dataSize))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create silence wav: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := file.Write(make([]byte, dataSize)); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}
