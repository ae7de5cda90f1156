package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/j3rr7/MusicBotRewrite/internal/errors"
)

var (
	// URL patterns
	youtubePattern    = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)
	soundcloudPattern = regexp.MustCompile(`^https?://(www\.)?soundcloud\.com/.+$`)
	spotifyPattern    = regexp.MustCompile(`^https?://open\.spotify\.com/(track|album|playlist)/.+$`)
)

// ValidateURL validates if a string is a valid URL
func ValidateURL(input string) error {
	if input == "" {
		return fmt.Errorf("%w: URL cannot be empty", errors.ErrInvalidURL)
	}

	_, err := url.ParseRequestURI(input)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidURL, err)
	}

	return nil
}

// IsYouTubeURL checks if URL is a YouTube URL
func IsYouTubeURL(input string) bool {
	return youtubePattern.MatchString(input)
}

// IsSoundCloudURL checks if URL is a SoundCloud URL
func IsSoundCloudURL(input string) bool {
	return soundcloudPattern.MatchString(input)
}

// IsSpotifyURL checks if URL is a Spotify URL
func IsSpotifyURL(input string) bool {
	return spotifyPattern.MatchString(input)
}

// IsSupportedURL checks if URL is from a supported platform
func IsSupportedURL(input string) bool {
	return IsYouTubeURL(input) || IsSoundCloudURL(input) || IsSpotifyURL(input)
}

// ValidateVolume validates volume level (0-1000). Out-of-range values are
// rejected, never clamped.
func ValidateVolume(volume int) error {
	if volume < 0 || volume > 1000 {
		return errors.ErrInvalidVolume
	}
	return nil
}

// ValidatePlaylistName validates playlist name
func ValidatePlaylistName(name string) error {
	name = SanitizeInput(name)

	if name == "" {
		return errors.ErrEmptyPlaylistName
	}

	if len([]rune(name)) > 100 {
		return errors.ErrPlaylistNameTooLong
	}

	return nil
}

// ValidateTrack validates the user-supplied fields of a track. Artist and
// duration are optional; a duration that is present must be non-negative.
func ValidateTrack(trackURL, title string, duration *int64) error {
	if SanitizeInput(trackURL) == "" {
		return errors.ErrEmptyTrackURL
	}
	if SanitizeInput(title) == "" {
		return errors.ErrEmptyTrackTitle
	}
	if duration != nil && *duration < 0 {
		return errors.ErrNegativeDuration
	}
	return nil
}

// SanitizeInput sanitizes user input by removing potentially dangerous characters
func SanitizeInput(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	// Try to truncate at word boundary
	if maxLen > 3 {
		s = s[:maxLen-3]
		if idx := strings.LastIndexAny(s, " \t\n"); idx > 0 {
			s = s[:idx]
		}
		return s + "..."
	}

	return s[:maxLen]
}
