package flixhq

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

const searchHTML = `<html><body>
<div class="film_list-wrap">
  <div class="flw-item">
    <div class="film-detail">
      <h2 class="film-name"><a href="/movie/watch-dune-1984-1111" title="Dune">Dune</a></h2>
      <div class="fd-infor"><span class="fdi-item">1984</span><span class="fdi-item fdi-duration">137m</span></div>
    </div>
  </div>
  <div class="flw-item">
    <div class="film-detail">
      <h2 class="film-name"><a href="/movie/watch-dune-66396" title="Dune">Dune</a></h2>
      <div class="fd-infor"><span class="fdi-item">2021</span><span class="fdi-item fdi-duration">155m</span></div>
    </div>
  </div>
  <div class="flw-item">
    <div class="film-detail">
      <h2 class="film-name"><a href="/tv/watch-severance-75921" title="Severance">Severance</a></h2>
      <div class="fd-infor"><span class="fdi-item">SS 2</span><span class="fdi-item">EPS 10</span></div>
    </div>
  </div>
  <div class="flw-item">
    <div class="film-detail"><h2 class="film-name"><a title="broken"></a></h2></div>
  </div>
</div>
<ul class="pagination">
  <li class="page-item"><a class="page-link" href="/search/dune?page=2">2</a></li>
  <li class="page-item"><a class="page-link" title="Last" href="/search/dune?page=3">&raquo;</a></li>
</ul>
</body></html>`

const maliciousHTML = `<div class="film_list-wrap">
  <div class="flw-item"><h2 class="film-name"><a href="/movie/watch-x-1">'; rm -rf / #</a></h2></div>
  <div class="flw-item"><h2 class="film-name"><a href="/movie/watch-y-2">$(whoami)</a></h2></div>
</div>`

const seasonsHTML = `<div class="dropdown-menu dropdown-menu-model">
  <a class="dropdown-item ss-item" data-id="100">Season 1</a>
  <a class="dropdown-item ss-item" data-id="200">Season 2</a>
</div>`

const episodesHTML = `<ul class="nav">
  <li class="nav-item"><a class="nav-link eps-item" data-id="501" title="Eps 1: Hello, Ms. Cobel">Eps 1</a></li>
  <li class="nav-item"><a class="nav-link eps-item" data-id="505" title="Eps 5: Trojan's Horse">Eps 5</a></li>
</ul>`

const movieServersHTML = `<ul class="nav">
  <li class="nav-item"><a class="nav-link link-item" data-linkid="9001" title="UpCloud"><i class="fas fa-play"></i><span>UpCloud</span></a></li>
  <li class="nav-item"><a class="nav-link link-item" data-linkid="9002" title="Vidcloud"><span>Vidcloud</span></a></li>
  <li class="nav-item"><a class="nav-link link-item" data-linkid="9003" title="Voe"><span>Voe</span></a></li>
</ul>`

const episodeServersHTML = `<ul class="nav">
  <li class="nav-item"><a class="nav-link link-item" data-id="7001" title="Server UpCloud"><span>Server UpCloud</span></a></li>
  <li class="nav-item"><a class="nav-link link-item" title="no id">MixDrop</a></li>
</ul>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestParseSearchResults(t *testing.T) {
	results := parseSearchResults(mustDoc(t, searchHTML))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Title != "Dune" || results[0].Year != 1984 || results[0].Type != media.Movie {
		t.Errorf("result[0] = %+v, want Dune (1984) movie", results[0])
	}
	if results[1].ID != "movie/watch-dune-66396" {
		t.Errorf("result[1].ID = %q, want 'movie/watch-dune-66396'", results[1].ID)
	}
	if results[2].Type != media.Show {
		t.Errorf("result[2].Type = %v, want show", results[2].Type)
	}
	if results[2].Year != 0 {
		t.Errorf("result[2].Year = %d, want 0", results[2].Year)
	}
}

func TestParseSearchResultsMalicious(t *testing.T) {
	results := parseSearchResults(mustDoc(t, maliciousHTML))

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "'; rm -rf / #" {
		t.Errorf("shell injection title = %q, want literal string", results[0].Title)
	}
	if results[1].Title != "$(whoami)" {
		t.Errorf("command substitution title = %q, want literal string", results[1].Title)
	}
}

func TestParseLastPage(t *testing.T) {
	if got := parseLastPage(mustDoc(t, searchHTML)); got != 3 {
		t.Errorf("parseLastPage() = %d, want 3", got)
	}
	if got := parseLastPage(mustDoc(t, maliciousHTML)); got != 1 {
		t.Errorf("parseLastPage() without pagination = %d, want 1", got)
	}
}

func TestParseSeasons(t *testing.T) {
	seasons := parseSeasons(mustDoc(t, seasonsHTML))

	want := []season{{Number: 1, ID: "100"}, {Number: 2, ID: "200"}}
	if len(seasons) != len(want) {
		t.Fatalf("expected %d seasons, got %d", len(want), len(seasons))
	}
	for i := range want {
		if seasons[i] != want[i] {
			t.Errorf("season[%d] = %+v, want %+v", i, seasons[i], want[i])
		}
	}
}

func TestParseEpisodes(t *testing.T) {
	episodes := parseEpisodes(mustDoc(t, episodesHTML))

	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
	if episodes[1].Number != 5 || episodes[1].ID != "505" {
		t.Errorf("episode[1] = %+v, want number 5 with id 505", episodes[1])
	}
	if episodes[0].Title != "Eps 1: Hello, Ms. Cobel" {
		t.Errorf("episode[0].Title = %q", episodes[0].Title)
	}
}

func TestParseServers(t *testing.T) {
	t.Run("movie", func(t *testing.T) {
		servers := parseServers(mustDoc(t, movieServersHTML))
		want := []server{{Name: "UpCloud", ID: "9001"}, {Name: "Vidcloud", ID: "9002"}, {Name: "Voe", ID: "9003"}}
		if len(servers) != len(want) {
			t.Fatalf("expected %d servers, got %d", len(want), len(servers))
		}
		for i := range want {
			if servers[i] != want[i] {
				t.Errorf("server[%d] = %+v, want %+v", i, servers[i], want[i])
			}
		}
	})

	t.Run("episode", func(t *testing.T) {
		servers := parseServers(mustDoc(t, episodeServersHTML))
		if len(servers) != 1 {
			t.Fatalf("expected 1 server, got %d", len(servers))
		}
		if servers[0] != (server{Name: "UpCloud", ID: "7001"}) {
			t.Errorf("server = %+v", servers[0])
		}
	})
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/movie/free-the-exorcist-hd-75043", "movie/free-the-exorcist-hd-75043"},
		{"/tv/watch-breaking-bad-39516", "tv/watch-breaking-bad-39516"},
		{"/movie/test-123?ref=home", "movie/test-123"},
		{"movie/test", "movie/test"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := extractID(tt.input)
			if got != tt.expected {
				t.Errorf("extractID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractNumericID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"movie/free-the-exorcist-hd-75043", "75043"},
		{"tv/watch-breaking-bad-39516", "39516"},
		{"no-number-here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := extractNumericID(tt.input)
			if got != tt.expected {
				t.Errorf("extractNumericID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Dune: Part Two", "dune part two"},
		{"  Spider-Man   Homecoming", "spiderman homecoming"},
		{"WALL·E", "walle"},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
