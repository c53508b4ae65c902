package music

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"streambeats/internal/models"
)

const (
	searchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	innertubeURL    = "https://www.youtube.com/youtubei/v1/search?prettyPrint=false"
	webClientVer    = "2.20250601.00.00"
)

// YouTubeSearch queries the public innertube search endpoint the web
// player uses. Requests are rate limited client-side so bursts of
// /search commands don't trip YouTube's abuse detection.
type YouTubeSearch struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Endpoint   string
}

func NewYouTubeSearch() *YouTubeSearch {
	return &YouTubeSearch{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		Endpoint:   innertubeURL,
	}
}

type searchRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
	Query string `json:"query"`
}

// Only the slices of the response we actually read.
type searchResponse struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type videoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
	OwnerText struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"ownerText"`
	LengthText struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
}

// Search returns up to limit ranked video results for the query.
func (c *YouTubeSearch) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody searchRequest
	reqBody.Context.Client.ClientName = "WEB"
	reqBody.Context.Client.ClientVersion = webClientVer
	reqBody.Query = query

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", searchUserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://www.youtube.com")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search: status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("youtube search decode: %w", err)
	}

	return collectVideos(&parsed, limit), nil
}

func collectVideos(parsed *searchResponse, limit int) []models.Track {
	var tracks []models.Track
	sections := parsed.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			vr := item.VideoRenderer
			if vr == nil || vr.VideoID == "" {
				continue
			}
			tracks = append(tracks, renderedTrack(vr))
			if len(tracks) >= limit {
				return tracks
			}
		}
	}
	return tracks
}

func renderedTrack(vr *videoRenderer) models.Track {
	t := models.Track{
		Platform: models.PlatformYouTube,
		ID:       vr.VideoID,
		Duration: vr.LengthText.SimpleText,
		URL:      "https://www.youtube.com/watch?v=" + vr.VideoID,
	}
	if len(vr.Title.Runs) > 0 {
		t.Title = vr.Title.Runs[0].Text
	}
	if len(vr.OwnerText.Runs) > 0 {
		t.Artist = vr.OwnerText.Runs[0].Text
	}
	if n := len(vr.Thumbnail.Thumbnails); n > 0 {
		t.Thumbnail = vr.Thumbnail.Thumbnails[n-1].URL
	}
	return t
}
