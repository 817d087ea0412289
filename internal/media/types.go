// Package media defines the query and stream types shared by providers
// and the resolver.
package media

import "fmt"

// Type represents whether content is a movie or a TV show.
type Type int

const (
	Movie Type = iota
	Show
)

func (t Type) String() string {
	switch t {
	case Movie:
		return "movie"
	case Show:
		return "show"
	default:
		return "unknown"
	}
}

// ParseType converts "movie" or "show" (also "tv") into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "movie", "movies":
		return Movie, nil
	case "show", "shows", "tv", "series":
		return Show, nil
	default:
		return 0, fmt.Errorf("unknown media type %q (valid: movie, show)", s)
	}
}

// Season identifies a season of a show.
type Season struct {
	Number int
	TMDBID string
}

// Episode identifies an episode within a season.
type Episode struct {
	Number int
	TMDBID string
}

// Query is the title a caller wants a stream for. Season and Episode are
// only meaningful when Type is Show.
type Query struct {
	Type        Type
	Title       string
	ReleaseYear int
	TMDBID      string
	IMDbID      string
	Season      Season
	Episode     Episode
}

// MovieQuery builds a movie query.
func MovieQuery(title string, year int, tmdbID string) Query {
	return Query{Type: Movie, Title: title, ReleaseYear: year, TMDBID: tmdbID}
}

// ShowQuery builds a show query for one episode.
func ShowQuery(title string, year int, tmdbID string, season, episode int) Query {
	return Query{
		Type:        Show,
		Title:       title,
		ReleaseYear: year,
		TMDBID:      tmdbID,
		Season:      Season{Number: season},
		Episode:     Episode{Number: episode},
	}
}

// DisplayTitle renders the query for logs and player titles.
func (q Query) DisplayTitle() string {
	title := q.Title
	if q.ReleaseYear > 0 {
		title = fmt.Sprintf("%s (%d)", title, q.ReleaseYear)
	}
	if q.Type == Show {
		title = fmt.Sprintf("%s S%02dE%02d", title, q.Season.Number, q.Episode.Number)
	}
	return title
}
