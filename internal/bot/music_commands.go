package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"streambeats/internal/models"
	"streambeats/internal/music"
	"streambeats/internal/player"
)

// cmdPlay resolves a URL or free-text query, queues the track, and
// streams the audio. It drives the transport itself to keep a loading
// message updated through the slow parts.
func (r *Router) cmdPlay(ctx context.Context, chatID, userID int64, args string) Render {
	if args == "" {
		return Text{Body: "Usage: /play <song name or YouTube/Spotify link>"}
	}

	loadingID := sendNew(r.transport, chatID, "🔍 Searching for your song...", nil)

	track, err := r.resolveTrack(ctx, args)
	if err != nil {
		log.Printf("bot: resolve %q: %v", args, err)
		sendOrEdit(r.transport, chatID, loadingID, "❌ Couldn't find that song. Try a different search.", nil)
		return Handled{}
	}

	pos := r.player.Enqueue(chatID, track, -1)

	adm := r.music.Admission()
	if err := adm.TryAcquire(chatID); errors.Is(err, music.ErrRateLimited) {
		sendOrEdit(r.transport, chatID, loadingID, fmt.Sprintf(
			"⏳ Too many downloads running in this chat. <b>%s</b> was added to the queue at position %d.",
			escapeHTML(track.Title), pos+1), nil)
		return Handled{}
	}
	defer adm.Release(chatID)

	sendOrEdit(r.transport, chatID, loadingID,
		fmt.Sprintf("⬇️ Downloading <b>%s</b>...", escapeHTML(track.Title)), nil)

	audio, err := r.music.Audio(ctx, track)
	if err != nil {
		log.Printf("bot: download %s/%s: %v", track.Platform, track.ID, err)
		sendOrEdit(r.transport, chatID, loadingID, "❌ Download failed. Please try again later.", nil)
		return Handled{}
	}

	r.player.SetPlaying(chatID, true)
	r.deliver(chatID, Media{Audio: audio, Caption: trackCaption(track)})
	if err := r.transport.Delete(chatID, loadingID); err != nil {
		log.Printf("bot: delete loading message: %v", err)
	}
	return Handled{}
}

// resolveTrack turns the /play argument into track metadata: platform
// URLs resolve directly, anything else is a YouTube search.
func (r *Router) resolveTrack(ctx context.Context, args string) (models.Track, error) {
	if platform, id, ok := music.ParseURL(args); ok {
		return r.music.TrackInfo(ctx, platform, id)
	}
	results, err := r.music.Search(ctx, args, models.PlatformYouTube, 1)
	if err != nil {
		return models.Track{}, err
	}
	if len(results) == 0 {
		return models.Track{}, fmt.Errorf("no results for %q", args)
	}
	return results[0], nil
}

// cmdSearch lists the top matches without downloading anything.
func (r *Router) cmdSearch(ctx context.Context, chatID int64, args string) Render {
	if args == "" {
		return Text{Body: "Usage: /search <song name>"}
	}

	loadingID := sendNew(r.transport, chatID, "🔍 Searching...", nil)

	results, err := r.music.Search(ctx, args, models.PlatformYouTube, 5)
	if err != nil {
		log.Printf("bot: search %q: %v", args, err)
		sendOrEdit(r.transport, chatID, loadingID, "❌ Search failed. Please try again later.", nil)
		return Handled{}
	}
	if len(results) == 0 {
		sendOrEdit(r.transport, chatID, loadingID, "❌ No results found for <b>"+escapeHTML(args)+"</b>.", nil)
		return Handled{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 <b>Results for %s:</b>\n\n", escapeHTML(args))
	for i, track := range results {
		fmt.Fprintf(&b, "%d. <a href=\"%s\">%s</a> — %s (%s)\n",
			i+1, track.URL, escapeHTML(track.Title), escapeHTML(track.Artist), track.Duration)
	}
	b.WriteString("\nUse /play with a title or link to download one.")
	sendOrEdit(r.transport, chatID, loadingID, b.String(), nil)
	return Handled{}
}

// streamTrack downloads and sends the given track, honoring the
// per-chat admission ceiling. The slot is held until the upload
// finishes, so delivery happens here rather than in the caller.
func (r *Router) streamTrack(ctx context.Context, chatID int64, track models.Track) Render {
	adm := r.music.Admission()
	if err := adm.TryAcquire(chatID); errors.Is(err, music.ErrRateLimited) {
		return Text{Body: "⏳ Too many downloads running in this chat. Try again in a moment."}
	}
	defer adm.Release(chatID)

	audio, err := r.music.Audio(ctx, track)
	if err != nil {
		log.Printf("bot: download %s/%s: %v", track.Platform, track.ID, err)
		return Text{Body: "❌ Download failed for <b>" + escapeHTML(track.Title) + "</b>."}
	}
	r.player.SetPlaying(chatID, true)
	r.deliver(chatID, Media{Audio: audio, Caption: trackCaption(track)})
	return Handled{}
}

func (r *Router) cmdSkip(ctx context.Context, chatID int64) Render {
	track, ok := r.player.Advance(chatID)
	if !ok {
		return Text{Body: "📋 The queue is empty. Nothing to skip to."}
	}
	return r.streamTrack(ctx, chatID, track)
}

func (r *Router) cmdPrevious(ctx context.Context, chatID int64) Render {
	track, ok := r.player.Retreat(chatID)
	if !ok {
		return Text{Body: "📋 The queue is empty. Nothing to go back to."}
	}
	return r.streamTrack(ctx, chatID, track)
}

func (r *Router) cmdClear(chatID int64) Render {
	r.player.ClearQueue(chatID)
	return Text{Body: "🗑 Queue cleared."}
}

func (r *Router) cmdRepeat(chatID int64) Render {
	if on := r.player.ToggleRepeat(chatID); on {
		return Text{Body: "🔁 Repeat is now <b>on</b>. The current song will loop."}
	}
	return Text{Body: "🔁 Repeat is now <b>off</b>."}
}

func (r *Router) cmdShuffle(chatID int64) Render {
	if on := r.player.ToggleShuffle(chatID); on {
		return Text{Body: "🔀 Shuffle is now <b>on</b>. Songs will play in random order."}
	}
	return Text{Body: "🔀 Shuffle is now <b>off</b>."}
}

const playlistUsage = `📝 <b>Playlist commands:</b>
/playlist create &lt;name&gt;
/playlist list
/playlist show &lt;name&gt;
/playlist add &lt;name&gt; — save the current song
/playlist remove &lt;name&gt; &lt;number&gt;
/playlist play &lt;name&gt;
/playlist delete &lt;name&gt;`

// cmdPlaylist dispatches the /playlist subcommands. Playlists belong
// to the user, queues to the chat.
func (r *Router) cmdPlaylist(ctx context.Context, chatID, userID int64, args string) Render {
	sub, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(sub) {
	case "create":
		return r.playlistCreate(userID, rest)
	case "list":
		body, kb := r.playlistsMenu(userID)
		return Text{Body: body, Keyboard: kb}
	case "show":
		return r.playlistShow(userID, rest)
	case "add":
		return r.playlistAdd(chatID, userID, rest)
	case "remove":
		return r.playlistRemove(userID, rest)
	case "play":
		return r.playlistPlay(ctx, chatID, userID, rest)
	case "delete":
		return r.playlistDelete(userID, rest)
	default:
		return Text{Body: playlistUsage}
	}
}

func (r *Router) playlistCreate(userID int64, name string) Render {
	if name == "" {
		return Text{Body: "Usage: /playlist create <name>"}
	}
	if err := r.player.CreatePlaylist(userID, name); errors.Is(err, player.ErrAlreadyExists) {
		return Text{Body: "❌ You already have a playlist named <b>" + escapeHTML(name) + "</b>."}
	}
	return Text{Body: "✅ Playlist <b>" + escapeHTML(name) + "</b> created. Add songs with /playlist add " + escapeHTML(name) + "."}
}

func (r *Router) playlistShow(userID int64, name string) Render {
	if name == "" {
		return Text{Body: "Usage: /playlist show <name>"}
	}
	tracks, ok := r.player.Playlist(userID, name)
	if !ok {
		return Text{Body: "❌ No playlist named <b>" + escapeHTML(name) + "</b>."}
	}
	if len(tracks) == 0 {
		return Text{Body: "📝 <b>" + escapeHTML(name) + "</b> is empty. Add the current song with /playlist add " + escapeHTML(name) + "."}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📝 <b>%s</b> (%d songs)\n\n", escapeHTML(name), len(tracks))
	for i, track := range tracks {
		fmt.Fprintf(&b, "%d. <b>%s</b> — %s (%s)\n",
			i+1, escapeHTML(track.Title), escapeHTML(track.Artist), track.Duration)
	}
	return Text{Body: b.String()}
}

// playlistAdd saves the chat's current track into the named playlist.
func (r *Router) playlistAdd(chatID, userID int64, name string) Render {
	if name == "" {
		return Text{Body: "Usage: /playlist add <name>"}
	}
	track, ok := r.player.CurrentTrack(chatID)
	if !ok {
		return Text{Body: "❌ Nothing is playing. Use /play first, then save it."}
	}
	switch err := r.player.AddToPlaylist(userID, name, track); {
	case errors.Is(err, player.ErrNotFound):
		return Text{Body: "❌ No playlist named <b>" + escapeHTML(name) + "</b>. Create it with /playlist create " + escapeHTML(name) + "."}
	case errors.Is(err, player.ErrDuplicateTrack):
		return Text{Body: "ℹ️ <b>" + escapeHTML(track.Title) + "</b> is already in that playlist."}
	default:
		return Text{Body: "✅ Added <b>" + escapeHTML(track.Title) + "</b> to <b>" + escapeHTML(name) + "</b>."}
	}
}

func (r *Router) playlistRemove(userID int64, rest string) Render {
	name, numStr, _ := strings.Cut(rest, " ")
	num, err := strconv.Atoi(strings.TrimSpace(numStr))
	if name == "" || err != nil {
		return Text{Body: "Usage: /playlist remove <name> <number>"}
	}
	removed, err := r.player.RemoveFromPlaylist(userID, name, num-1)
	switch {
	case errors.Is(err, player.ErrNotFound):
		return Text{Body: "❌ No playlist named <b>" + escapeHTML(name) + "</b>."}
	case errors.Is(err, player.ErrIndexOutOfRange):
		return Text{Body: "❌ That playlist has no song number " + strconv.Itoa(num) + "."}
	default:
		return Text{Body: "✅ Removed <b>" + escapeHTML(removed.Title) + "</b> from <b>" + escapeHTML(name) + "</b>."}
	}
}

// playlistPlay replaces the chat queue with the playlist and streams
// the first track.
func (r *Router) playlistPlay(ctx context.Context, chatID, userID int64, name string) Render {
	if name == "" {
		return Text{Body: "Usage: /playlist play <name>"}
	}
	count, err := r.player.LoadPlaylist(chatID, userID, name, true)
	if errors.Is(err, player.ErrNotFound) {
		return Text{Body: "❌ No playlist named <b>" + escapeHTML(name) + "</b>."}
	}
	if count == 0 {
		return Text{Body: "📝 <b>" + escapeHTML(name) + "</b> is empty. Nothing to play."}
	}
	sendNew(r.transport, chatID, fmt.Sprintf(
		"📝 Loaded <b>%s</b>: %d songs queued.", escapeHTML(name), count), nil)

	track, ok := r.player.CurrentTrack(chatID)
	if !ok {
		return Handled{}
	}
	return r.streamTrack(ctx, chatID, track)
}

func (r *Router) playlistDelete(userID int64, name string) Render {
	if name == "" {
		return Text{Body: "Usage: /playlist delete <name>"}
	}
	if err := r.player.DeletePlaylist(userID, name); errors.Is(err, player.ErrNotFound) {
		return Text{Body: "❌ No playlist named <b>" + escapeHTML(name) + "</b>."}
	}
	return Text{Body: "🗑 Playlist <b>" + escapeHTML(name) + "</b> deleted."}
}

func (r *Router) cmdNowPlaying(chatID int64) Render {
	track, ok := r.player.CurrentTrack(chatID)
	if !ok {
		return Text{Body: "🔇 Nothing is playing right now. Start with /play."}
	}
	q := r.player.GetQueue(chatID)
	var flags []string
	if q.Repeat {
		flags = append(flags, "🔁 repeat")
	}
	if q.Shuffle {
		flags = append(flags, "🔀 shuffle")
	}
	body := "🎧 <b>Now Playing</b>\n\n" + trackCaption(track)
	body += fmt.Sprintf("\n📋 Position %d of %d", q.CurrentIndex+1, len(q.Songs))
	if len(flags) > 0 {
		body += "\n" + strings.Join(flags, " · ")
	}
	return Text{Body: body}
}

func (r *Router) cmdMusicStats() Render {
	stats := r.music.Stats()
	return Text{Body: fmt.Sprintf(`📊 <b>Music Stats</b>

<b>Active downloads:</b> %d
<b>Cached tracks:</b> %d
<b>Spotify:</b> %s`,
		stats.ActiveDownloads, stats.CachedTracks, enabledWord(stats.SpotifyEnabled))}
}
