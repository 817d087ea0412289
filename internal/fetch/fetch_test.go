package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ajax/sources", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.Equal(t, "https://flixhq.to/", r.Header.Get("Referer"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"link":"https://embed.example.com/e/1"}`))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	var out struct {
		Link string `json:"link"`
	}
	err := JSON(context.Background(), c, Request{
		BaseURL: srv.URL,
		URL:     "/ajax/sources",
		Query:   map[string]string{"id": "42"},
		Headers: map[string]string{"Referer": "https://flixhq.to/"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "https://embed.example.com/e/1", out.Link)
}

func TestClientFetchStatusError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))
	_, err := c.Fetch(context.Background(), Request{URL: srv.URL + "/missing"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestClientRejectsPlainHTTP(t *testing.T) {
	c := NewClient()
	_, err := c.Fetch(context.Background(), Request{URL: "http://example.com/"})
	assert.Error(t, err)
}

func TestProxiedFetch(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://flixhq.to/search/dune?page=2", r.URL.Query().Get("destination"))
		w.Write([]byte("<html><body><p class=\"t\">proxied</p></body></html>"))
	}))
	defer srv.Close()

	c, err := NewProxied(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	doc, err := Document(context.Background(), c, Request{
		BaseURL: "https://flixhq.to",
		URL:     "/search/dune",
		Query:   map[string]string{"page": "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "proxied", doc.Find(".t").Text())
}

func TestNewProxiedValidates(t *testing.T) {
	_, err := NewProxied("ftp://proxy.example.com")
	assert.Error(t, err)
}

func TestProxiedURL(t *testing.T) {
	assert.Equal(t,
		"https://proxy.example.com/?destination=https%3A%2F%2Fa.com%2Fx%3Fy%3D1",
		proxiedURL("https://proxy.example.com/", "https://a.com/x?y=1"))
	assert.Equal(t,
		"https://proxy.example.com/?key=k&destination=https%3A%2F%2Fa.com",
		proxiedURL("https://proxy.example.com/?key=k", "https://a.com"))
}

func TestText(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	got, err := Text(context.Background(), NewClient(WithHTTPClient(srv.Client())), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}
