package crossref

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRateLimit = 1000.0

func TestGetWork_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "/works/10.1038%2Fnature14539", r.URL.EscapedPath())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(workResponse{Message: Item{
			DOI:    "10.1038/nature14539",
			Title:  []string{"Deep learning"},
			Author: []Author{{Given: "Yann", Family: "LeCun"}, {Given: "Yoshua", Family: "Bengio"}},
			Issued: Date{DateParts: [][]int{{2015, 5, 27}}},
		}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(testRateLimit))
	got, err := client.GetWork(context.Background(), "10.1038/nature14539")

	require.NoError(t, err)
	assert.Equal(t, "10.1038/nature14539", got.DOI)
	assert.Equal(t, "Deep learning", got.PrimaryTitle())
	assert.Equal(t, 2015, got.Year())
	assert.Equal(t, []string{"Yann LeCun", "Yoshua Bengio"}, got.AuthorNames())
}

func TestGetWork_MailtoParam(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "team@example.org", r.URL.Query().Get("mailto"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(workResponse{Message: Item{DOI: "10.1/x"}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithMailto("team@example.org"), WithRateLimit(testRateLimit))
	_, err := client.GetWork(context.Background(), "10.1/x")

	require.NoError(t, err)
}

func TestGetWork_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`Resource not found.`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(testRateLimit))
	_, err := client.GetWork(context.Background(), "10.1/missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestQueryTitle_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "deep learning", r.URL.Query().Get("query.title"))
		assert.Equal(t, "10", r.URL.Query().Get("rows"))

		var res listResponse
		res.Message.Items = []Item{
			{DOI: "10.1038/nature14539", Title: []string{"Deep learning"}},
			{DOI: "10.1/other"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(testRateLimit))
	got, err := client.QueryTitle(context.Background(), "deep learning", 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10.1038/nature14539", got[0].DOI)
}

func TestQueryTitle_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(testRateLimit))
	_, err := client.QueryTitle(context.Background(), "deep learning", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestItem_PartialFields(t *testing.T) {
	t.Parallel()

	var empty Item
	assert.Empty(t, empty.PrimaryTitle())
	assert.Zero(t, empty.Year())
	assert.Empty(t, empty.AuthorNames())

	partial := Item{
		Author: []Author{{Family: "Hinton"}, {}},
		Issued: Date{DateParts: [][]int{{}}},
	}
	assert.Zero(t, partial.Year())
	assert.Equal(t, []string{"Hinton"}, partial.AuthorNames())
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient()
	hc := c.(*httpClient)
	assert.Equal(t, "https://api.crossref.org", hc.baseURL)
	assert.Empty(t, hc.mailto)
	assert.NotNil(t, hc.limiter)
}
