package music

import (
	"context"
	"fmt"
	"io"

	"github.com/kkdai/youtube/v2"

	"streambeats/internal/models"
)

// Audio is a streamable download: the raw audio body plus the metadata
// the transport needs to label the file.
type Audio struct {
	Stream io.ReadCloser
	Size   int64
	Track  models.Track
}

func (s *Service) youtubeTrackInfo(ctx context.Context, id string) (models.Track, error) {
	video, err := s.yt.GetVideoContext(ctx, "https://www.youtube.com/watch?v="+id)
	if err != nil {
		return models.Track{}, fmt.Errorf("youtube video lookup: %w", err)
	}

	t := models.Track{
		Platform: models.PlatformYouTube,
		ID:       video.ID,
		Title:    video.Title,
		Artist:   video.Author,
		Duration: models.FormatSeconds(int(video.Duration.Seconds())),
		URL:      "https://www.youtube.com/watch?v=" + video.ID,
	}
	if len(video.Thumbnails) > 0 {
		t.Thumbnail = video.Thumbnails[0].URL
	}
	return t, nil
}

// youtubeAudio fetches the best audio-only format for a video.
func (s *Service) youtubeAudio(ctx context.Context, id string) (*Audio, error) {
	video, err := s.yt.GetVideoContext(ctx, "https://www.youtube.com/watch?v="+id)
	if err != nil {
		return nil, fmt.Errorf("youtube video lookup: %w", err)
	}

	format := bestAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("no audio format available for video %s", id)
	}

	stream, size, err := s.yt.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("youtube stream: %w", err)
	}

	track := models.Track{
		Platform: models.PlatformYouTube,
		ID:       video.ID,
		Title:    video.Title,
		Artist:   video.Author,
		Duration: models.FormatSeconds(int(video.Duration.Seconds())),
	}
	return &Audio{Stream: stream, Size: size, Track: track}, nil
}

func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	audio := formats.WithAudioChannels()
	var best *youtube.Format
	for i := range audio {
		f := &audio[i]
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}
