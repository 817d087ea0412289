package flixhq

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

type searchResult struct {
	ID    string // e.g. "movie/free-the-exorcist-hd-75043"
	Title string
	Type  media.Type
	Year  int
}

type season struct {
	Number int
	ID     string
}

type episode struct {
	Number int
	Title  string
	ID     string
}

type server struct {
	Name string // e.g. "Vidcloud", "UpCloud"
	ID   string
}

// parseSearchResults extracts search results from a search page.
func parseSearchResults(doc *goquery.Document) []searchResult {
	var results []searchResult

	doc.Find(".film_list-wrap .flw-item").Each(func(_ int, s *goquery.Selection) {
		result := searchResult{}

		link := s.Find(".film-name a")
		result.Title = strings.TrimSpace(link.Text())
		href, exists := link.Attr("href")
		if exists {
			result.ID = extractID(href)
		}

		if strings.Contains(href, "/tv/") {
			result.Type = media.Show
		} else {
			result.Type = media.Movie
		}

		s.Find(".fd-infor span").Each(func(_ int, span *goquery.Selection) {
			text := strings.TrimSpace(span.Text())
			if year, err := strconv.Atoi(text); err == nil && len(text) == 4 {
				result.Year = year
			}
		})

		if result.Title != "" && result.ID != "" {
			results = append(results, result)
		}
	})

	return results
}

// parseLastPage reads the last page number from the search pagination.
// Pages without pagination count as a single page.
func parseLastPage(doc *goquery.Document) int {
	last := 1
	doc.Find(".pagination .page-item a").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		idx := strings.Index(href, "page=")
		if idx == -1 {
			return
		}
		n, err := strconv.Atoi(strings.SplitN(href[idx+len("page="):], "&", 2)[0])
		if err == nil && n > last {
			last = n
		}
	})
	return last
}

// parseSeasons extracts the season list of a show.
func parseSeasons(doc *goquery.Document) []season {
	var seasons []season

	doc.Find(".dropdown-menu-model .dropdown-item, .dropdown-menu-model .dropdown-item a").Each(func(_ int, s *goquery.Selection) {
		dataID, exists := s.Attr("data-id")
		if !exists {
			return
		}

		num := 0
		if parts := strings.Fields(strings.TrimSpace(s.Text())); len(parts) >= 2 {
			num, _ = strconv.Atoi(parts[len(parts)-1])
		}

		seasons = append(seasons, season{Number: num, ID: dataID})
	})

	return seasons
}

// parseEpisodes extracts the episodes of a season.
func parseEpisodes(doc *goquery.Document) []episode {
	var episodes []episode

	doc.Find(".nav-item a").Each(func(_ int, s *goquery.Selection) {
		dataID, exists := s.Attr("data-id")
		if !exists {
			return
		}

		title := strings.TrimSpace(s.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}

		// Titles look like "Eps 3: The Name".
		num := 0
		text := strings.TrimPrefix(title, "Eps ")
		if idx := strings.Index(text, ":"); idx != -1 {
			num, _ = strconv.Atoi(strings.TrimSpace(text[:idx]))
		}

		episodes = append(episodes, episode{Number: num, Title: title, ID: dataID})
	})

	return episodes
}

// parseServers extracts server options. Movie endpoints use data-linkid,
// TV episode endpoints use data-id.
func parseServers(doc *goquery.Document) []server {
	var servers []server

	doc.Find(".link-item, .server-item a").Each(func(_ int, s *goquery.Selection) {
		dataID, exists := s.Attr("data-linkid")
		if !exists {
			dataID, exists = s.Attr("data-id")
		}
		if !exists {
			return
		}

		name := strings.TrimSpace(s.Text())
		if name == "" {
			name = s.AttrOr("title", "Unknown")
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "Server "))

		servers = append(servers, server{Name: name, ID: dataID})
	})

	return servers
}

// extractID extracts the content ID from a URL path.
// e.g., "/movie/free-the-exorcist-hd-75043" -> "movie/free-the-exorcist-hd-75043"
func extractID(urlPath string) string {
	id := strings.TrimPrefix(urlPath, "/")
	if idx := strings.Index(id, "?"); idx != -1 {
		id = id[:idx]
	}
	return id
}

// extractNumericID extracts the trailing numeric ID from a path.
// e.g., "movie/free-the-exorcist-hd-75043" -> "75043"
func extractNumericID(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) > 0 {
		last := parts[len(parts)-1]
		if _, err := strconv.Atoi(last); err == nil {
			return last
		}
	}
	return ""
}

// normalizeTitle lowercases a title and drops punctuation for comparison.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
