// Package player launches a media player on a resolved stream.
// All player invocations use exec.Command with explicit argument slices,
// so titles and URLs are never interpreted by a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

// ErrNoURL is returned when a stream has nothing a player could open.
var ErrNoURL = errors.New("stream has no playable URL")

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits.
	Play(ctx context.Context, stream media.Stream, title string) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch strings.ToLower(name) {
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: strings.ToLower(name)}
	default:
		return &MPV{}
	}
}

func available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// target returns the URL to open and the headers needed to fetch it.
func target(stream media.Stream) (string, map[string]string, error) {
	url, _, ok := stream.Best()
	if !ok {
		return "", nil, ErrNoURL
	}
	return url, stream.Headers(), nil
}

// sortedHeaders renders headers as "Key: Value" in key order.
func sortedHeaders(headers map[string]string) []string {
	keys := lo.Keys(headers)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) string { return k + ": " + headers[k] })
}

// run starts the player attached to the terminal. A non-zero exit is the
// player's normal way of reporting a user quit and is not an error.
func run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	return nil
}
