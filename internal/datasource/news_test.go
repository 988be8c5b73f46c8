package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test Crypto Feed</title>
  <item>
    <title>Bitcoin surges to record high as ETF inflows jump</title>
    <link>https://news.test/btc-record</link>
    <description><![CDATA[<p>BTC rallied <b>8%</b> overnight.</p>]]></description>
    <pubDate>Fri, 01 Mar 2024 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Solana network suffers outage</title>
    <link>https://news.test/sol-outage</link>
    <description>Validators restarted the chain.</description>
    <pubDate>Fri, 01 Mar 2024 12:00:00 GMT</pubDate>
  </item>
  <item>
    <title>New custody solution launches for institutions</title>
    <link>https://news.test/custody</link>
    <description>A generic industry story.</description>
    <pubDate>Thu, 29 Feb 2024 08:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if r.URL.Path == "/broken" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, feedXML)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetMarketNews(t *testing.T) {
	srv := newFeedServer(t, nil)
	n := NewNews([]NewsSource{
		{Name: "Test", RSSURL: srv.URL + "/rss"},
		{Name: "Broken", RSSURL: srv.URL + "/broken"},
	}, time.Minute, testLogger())

	articles, err := n.GetMarketNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetMarketNews() error = %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("len = %d, want 3", len(articles))
	}
	if articles[0].URL != "https://news.test/sol-outage" || articles[2].URL != "https://news.test/custody" {
		t.Errorf("articles not sorted newest first: %s, %s, %s", articles[0].URL, articles[1].URL, articles[2].URL)
	}
	if articles[1].Summary != "BTC rallied 8% overnight." || articles[1].Source != "Test" {
		t.Errorf("article = %+v", articles[1])
	}

	limited, _ := n.GetMarketNews(context.Background(), 2)
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}
}

func TestGetMarketNewsCached(t *testing.T) {
	var calls int32
	srv := newFeedServer(t, &calls)
	n := NewNews([]NewsSource{{Name: "Test", RSSURL: srv.URL + "/rss"}}, time.Minute, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := n.GetMarketNews(context.Background(), 0); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("feed fetched %d times, want 1", calls)
	}
}

func TestGetMarketNewsAllFeedsFail(t *testing.T) {
	srv := newFeedServer(t, nil)
	n := NewNews([]NewsSource{{Name: "Broken", RSSURL: srv.URL + "/broken"}}, time.Minute, testLogger())
	if _, err := n.GetMarketNews(context.Background(), 0); err == nil {
		t.Errorf("expected error when every feed fails")
	}
}

func TestGetMarketNewsNoFeeds(t *testing.T) {
	n := NewNews(nil, time.Minute, testLogger())
	n.sources = nil
	got, err := n.GetMarketNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetMarketNews with no feeds: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d articles, want 0", len(got))
	}
}

func TestGetAssetNews(t *testing.T) {
	srv := newFeedServer(t, nil)
	n := NewNews([]NewsSource{{Name: "Test", RSSURL: srv.URL + "/rss"}}, time.Minute, testLogger())

	tests := []struct {
		asset AssetRef
		want  []string
	}{
		{AssetRef{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}, []string{"https://news.test/btc-record"}},
		{AssetRef{ID: "solana", Symbol: "sol", Name: "Solana"}, []string{"https://news.test/sol-outage"}},
		{AssetRef{ID: "ethereum", Symbol: "eth", Name: "Ethereum"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.asset.ID, func(t *testing.T) {
			articles, err := n.GetAssetNews(context.Background(), tt.asset, 10)
			if err != nil {
				t.Fatalf("GetAssetNews() error = %v", err)
			}
			var got []string
			for _, a := range articles {
				got = append(got, a.URL)
				if len(a.Assets) != 1 || a.Assets[0] != tt.asset.ID {
					t.Errorf("Assets = %v", a.Assets)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetAssetNews(%s) = %v, want %v", tt.asset.ID, got, tt.want)
			}
		})
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		text     string
		keywords []string
		want     bool
	}{
		{"Bitcoin hits $70k", []string{"bitcoin"}, true},
		{"BTC/USD breaks out", []string{"btc"}, true},
		{"New custody solution", []string{"sol"}, false},
		{"Render Token rallies", []string{"render-token"}, true},
		{"Nothing here", []string{""}, false},
	}
	for _, tt := range tests {
		if got := matchesAny(tt.text, tt.keywords); got != tt.want {
			t.Errorf("matchesAny(%q, %v) = %v, want %v", tt.text, tt.keywords, got, tt.want)
		}
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
	}
	for _, tt := range tests {
		if got := cleanHTML(tt.input); got != tt.expected {
			t.Errorf("cleanHTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
