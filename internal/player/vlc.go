package player

import (
	"context"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool { return available("vlc") }

func (v *VLC) Play(ctx context.Context, stream media.Stream, title string) error {
	url, headers, err := target(stream)
	if err != nil {
		return err
	}
	return run(ctx, "vlc", vlcArgs(url, headers, title))
}

// vlcArgs builds VLC arguments. VLC only takes the referrer and user agent
// headers; anything else is dropped.
func vlcArgs(url string, headers map[string]string, title string) []string {
	args := []string{
		url,
		"--meta-title", title,
		"--play-and-exit",
	}
	if ref := headers["Referer"]; ref != "" {
		args = append(args, "--http-referrer", ref)
	}
	if ua := headers["User-Agent"]; ua != "" {
		args = append(args, "--http-user-agent", ua)
	}
	return args
}
