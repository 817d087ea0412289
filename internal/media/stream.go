package media

import (
	"strings"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
)

// StreamType discriminates the Stream union.
type StreamType string

const (
	FileStream StreamType = "file"
	HLSStream  StreamType = "hls"
)

// Quality is a file stream quality label.
type Quality string

const (
	QualityUnknown Quality = "unknown"
	Quality360     Quality = "360"
	Quality480     Quality = "480"
	Quality720     Quality = "720"
	Quality1080    Quality = "1080"
	Quality4K      Quality = "4k"
)

// Qualities lists the known quality labels from lowest to highest.
var Qualities = []Quality{QualityUnknown, Quality360, Quality480, Quality720, Quality1080, Quality4K}

// ParseQuality normalises labels like "720p" or "4K". ok is false for
// labels outside Qualities.
func ParseQuality(label string) (q Quality, ok bool) {
	label = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label), "p"))
	for _, known := range Qualities {
		if string(known) == label {
			return known, true
		}
	}
	return QualityUnknown, false
}

// File is a single downloadable file of a file stream.
type File struct {
	Type    string            `json:"type"` // always "mp4"
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Stream is either a set of quality files or a single HLS playlist.
type Stream struct {
	Type      StreamType       `json:"type"`
	Flags     []features.Flag  `json:"flags"`
	Qualities map[Quality]File `json:"qualities,omitempty"`
	Playlist  string           `json:"playlist,omitempty"`
}

// NewFileStream builds a file stream.
func NewFileStream(qualities map[Quality]File, flags ...features.Flag) Stream {
	return Stream{Type: FileStream, Flags: flagsOrEmpty(flags), Qualities: qualities}
}

// NewHLSStream builds an HLS stream.
func NewHLSStream(playlist string, flags ...features.Flag) Stream {
	return Stream{Type: HLSStream, Flags: flagsOrEmpty(flags), Playlist: playlist}
}

func flagsOrEmpty(flags []features.Flag) []features.Flag {
	if flags == nil {
		return []features.Flag{}
	}
	return flags
}

// Best returns the URL a player should open: the playlist for HLS, or the
// highest known quality with a URL for file streams.
func (s Stream) Best() (url string, quality Quality, ok bool) {
	switch s.Type {
	case HLSStream:
		return s.Playlist, QualityUnknown, s.Playlist != ""
	case FileStream:
		for i := len(Qualities) - 1; i >= 0; i-- {
			if f, found := s.Qualities[Qualities[i]]; found && f.URL != "" {
				return f.URL, Qualities[i], true
			}
		}
		// Labels outside the known list still count.
		for q, f := range s.Qualities {
			if f.URL != "" {
				return f.URL, q, true
			}
		}
	}
	return "", "", false
}

// Headers returns the request headers needed for the file picked by Best.
func (s Stream) Headers() map[string]string {
	if s.Type != FileStream {
		return nil
	}
	_, q, ok := s.Best()
	if !ok {
		return nil
	}
	return s.Qualities[q].Headers
}
