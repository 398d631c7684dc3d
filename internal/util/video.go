package util

import (
	"regexp"
	"strings"
)

var (
	youtubeWatchPattern  = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})`)
	youtubeShortPattern  = regexp.MustCompile(`^(?:https?://)?youtu\.be/([A-Za-z0-9_-]{11})`)
	youtubeShortsPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([A-Za-z0-9_-]{11})`)
	vimeoPattern         = regexp.MustCompile(`^(?:https?://)?(?:www\.)?vimeo\.com/(\d+)(?:[/?#]|$)`)
)

// EmbedVideoURL 将已知视频网站的观看链接改写为可嵌入的播放器链接，
// 无法识别时原样返回
func EmbedVideoURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return raw
	}

	for _, p := range []*regexp.Regexp{youtubeWatchPattern, youtubeShortPattern, youtubeShortsPattern} {
		if m := p.FindStringSubmatch(url); m != nil {
			return "https://www.youtube.com/embed/" + m[1]
		}
	}
	if m := vimeoPattern.FindStringSubmatch(url); m != nil {
		return "https://player.vimeo.com/video/" + m[1]
	}
	return raw
}
