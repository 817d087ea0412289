package player

import (
	"context"
	"strings"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

// MPV implements the Player interface for mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool { return available("mpv") }

// Play launches mpv on the stream.
func (m *MPV) Play(ctx context.Context, stream media.Stream, title string) error {
	url, headers, err := target(stream)
	if err != nil {
		return err
	}
	return run(ctx, "mpv", append(mpvArgs(url, headers, title), "--really-quiet"))
}

// mpvArgs builds the mpv-style arguments shared with iina and celluloid.
func mpvArgs(url string, headers map[string]string, title string) []string {
	args := []string{
		url,
		"--force-media-title=" + title,
	}
	if len(headers) > 0 {
		// mpv splits the list on commas; header values must not contain one.
		args = append(args, "--http-header-fields="+strings.Join(sortedHeaders(headers), ","))
	}
	return args
}
