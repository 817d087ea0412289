package media

// Valid reports whether a stream is complete enough to play: a file stream
// needs at least one quality with a URL, an HLS stream needs a playlist.
func Valid(s Stream) bool {
	switch s.Type {
	case FileStream:
		for _, f := range s.Qualities {
			if f.URL != "" {
				return true
			}
		}
		return false
	case HLSStream:
		return s.Playlist != ""
	default:
		return false
	}
}
