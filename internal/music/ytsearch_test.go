package music

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleSearchBody = `{
  "contents": {
    "twoColumnSearchResultsRenderer": {
      "primaryContents": {
        "sectionListRenderer": {
          "contents": [
            {
              "itemSectionRenderer": {
                "contents": [
                  {"adSlotRenderer": {}},
                  {
                    "videoRenderer": {
                      "videoId": "v111",
                      "title": {"runs": [{"text": "First Song"}]},
                      "ownerText": {"runs": [{"text": "Channel One"}]},
                      "lengthText": {"simpleText": "3:33"},
                      "thumbnail": {"thumbnails": [{"url": "small"}, {"url": "large"}]}
                    }
                  },
                  {
                    "videoRenderer": {
                      "videoId": "v222",
                      "title": {"runs": [{"text": "Second Song"}]},
                      "ownerText": {"runs": [{"text": "Channel Two"}]},
                      "lengthText": {"simpleText": "4:04"}
                    }
                  }
                ]
              }
            }
          ]
        }
      }
    }
  }
}`

func TestYouTubeSearchParsesResults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotQuery = req.Query
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleSearchBody))
	}))
	defer srv.Close()

	c := NewYouTubeSearch()
	c.Endpoint = srv.URL

	tracks, err := c.Search(context.Background(), "first song", 5)
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "first song" {
		t.Errorf("sent query = %q", gotQuery)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	first := tracks[0]
	if first.ID != "v111" || first.Title != "First Song" || first.Artist != "Channel One" || first.Duration != "3:33" {
		t.Errorf("first track = %+v", first)
	}
	if first.Thumbnail != "large" {
		t.Errorf("thumbnail = %q, want the largest", first.Thumbnail)
	}
	if first.URL != "https://www.youtube.com/watch?v=v111" {
		t.Errorf("url = %q", first.URL)
	}
}

func TestYouTubeSearchHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleSearchBody))
	}))
	defer srv.Close()

	c := NewYouTubeSearch()
	c.Endpoint = srv.URL

	tracks, err := c.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Errorf("got %d tracks, want 1", len(tracks))
	}
}

func TestYouTubeSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewYouTubeSearch()
	c.Endpoint = srv.URL

	if _, err := c.Search(context.Background(), "q", 5); err == nil {
		t.Error("expected error on non-200 status")
	}
}
