package services

import (
	"net/url"
	"regexp"
	"strings"
)

// publicURLer is satisfied by *S3Helper
type publicURLer interface {
	PublicURL(key string) string
}

// MediaResolver turns stored media references into URLs the browser can load.
// References are either absolute URLs or object keys in the media bucket.
type MediaResolver struct {
	baseURL string
	bucket  publicURLer
}

// NewMediaResolver prefers baseURL (a CDN in front of the bucket) and falls
// back to the bucket's public URL. Either may be empty.
func NewMediaResolver(baseURL string, bucket publicURLer) *MediaResolver {
	r := &MediaResolver{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
	// a typed nil *S3Helper must not be stored in the interface
	if h, ok := bucket.(*S3Helper); !ok || h != nil {
		r.bucket = bucket
	}
	return r
}

func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (r *MediaResolver) Resolve(urlOrKey string) string {
	urlOrKey = strings.TrimSpace(urlOrKey)
	if urlOrKey == "" {
		return ""
	}
	if IsAbsoluteURL(urlOrKey) || strings.HasPrefix(urlOrKey, "//") || strings.HasPrefix(urlOrKey, "data:") {
		return urlOrKey
	}

	key := strings.TrimLeft(urlOrKey, "/")
	switch {
	case r == nil:
		return "/" + key
	case r.baseURL != "":
		return r.baseURL + "/" + key
	case r.bucket != nil:
		return r.bucket.PublicURL(key)
	default:
		return "/" + key
	}
}

// ResolvePtr is Resolve for optional columns; nil stays nil.
func (r *MediaResolver) ResolvePtr(urlOrKey *string) *string {
	if urlOrKey == nil {
		return nil
	}
	resolved := r.Resolve(*urlOrKey)
	return &resolved
}

// ContentThumbnail is the explicit thumbnail when one is set, otherwise one
// derived from the content URL.
func (r *MediaResolver) ContentThumbnail(contentURL string, thumbnail *string) string {
	if thumbnail != nil && strings.TrimSpace(*thumbnail) != "" {
		return r.Resolve(*thumbnail)
	}
	return Thumbnail(contentURL)
}

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeID extracts the video id from watch, share, shorts and embed URLs.
func YouTubeID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")

	var id string
	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) > 1 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live" || segments[0] == "v"):
			id = segments[1]
		}
	}

	if !youtubeID.MatchString(id) {
		return "", false
	}
	return id, true
}

// VimeoID extracts the numeric id from vimeo.com/<id> style URLs.
func VimeoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "vimeo.com" && host != "player.vimeo.com" {
		return "", false
	}
	for _, segment := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if segment != "" && strings.Trim(segment, "0123456789") == "" {
			return segment, true
		}
	}
	return "", false
}

func isSoundCloud(u *url.URL) bool {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	return host == "soundcloud.com" && strings.Trim(u.Path, "/") != ""
}

func isMixcloud(u *url.URL) bool {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	return host == "mixcloud.com" && strings.Trim(u.Path, "/") != ""
}

// EmbedURL converts a YouTube, Vimeo, SoundCloud or Mixcloud share link to
// the provider's embeddable player URL. Other URLs return "", false.
func EmbedURL(raw string) (string, bool) {
	if id, ok := YouTubeID(raw); ok {
		return "https://www.youtube.com/embed/" + id, true
	}
	if id, ok := VimeoID(raw); ok {
		return "https://player.vimeo.com/video/" + id, true
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !IsAbsoluteURL(raw) {
		return "", false
	}

	switch {
	case isSoundCloud(u):
		track := "https://soundcloud.com" + u.EscapedPath()
		q := url.Values{}
		q.Set("url", track)
		q.Set("color", "#000000")
		q.Set("visual", "true")
		return "https://w.soundcloud.com/player/?" + q.Encode(), true
	case isMixcloud(u):
		q := url.Values{}
		q.Set("feed", "/"+strings.Trim(u.Path, "/")+"/")
		q.Set("hide_cover", "1")
		return "https://player-widget.mixcloud.com/widget/iframe/?" + q.Encode(), true
	}
	return "", false
}

// Thumbnail derives a preview image for providers that expose one by id.
func Thumbnail(raw string) string {
	if id, ok := YouTubeID(raw); ok {
		return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
	}
	return ""
}

func firstSegment(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
