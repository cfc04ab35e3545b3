package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerscout/seller-scout/internal/common"
)

func TestDocumentParsesHTML(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><h1>Salut</h1></body></html>`))
	}))
	t.Cleanup(srv.Close)

	doc, err := New(Config{}).Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Salut", doc.Find("h1").Text())
	assert.Contains(t, gotUA, "Mozilla")
}

func TestDocumentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := New(Config{}).Document(context.Background(), srv.URL)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDocumentTransportStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	_, err := New(Config{}).Document(context.Background(), srv.URL)
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestDocumentServerErrorsTripBreaker(t *testing.T) {
	var served atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		served.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	fetcher := New(Config{})
	for i := 0; i < 10; i++ {
		_, err := fetcher.Document(context.Background(), srv.URL)
		assert.ErrorIs(t, err, common.ErrTransport)
	}

	// After six consecutive 5xx responses the breaker rejects calls without
	// reaching the server.
	assert.Less(t, served.Load(), int64(10))
}

func TestDocumentBodyCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + string(make([]byte, 4096)) + "</body></html>"))
	}))
	t.Cleanup(srv.Close)

	doc, err := New(Config{MaxBodyBytes: 64}).Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotNil(t, doc)
}
