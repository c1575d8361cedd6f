package discordgateway

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// StatusCode returns the HTTP status of a failed REST call, or 0.
func StatusCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}

// IsPermanent reports whether retrying err cannot help: any 4xx except 429.
func IsPermanent(err error) bool {
	if errors.Is(err, discordgo.ErrUnauthorized) {
		return true
	}
	code := StatusCode(err)
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

// IsUnauthorized reports whether err means the bot token was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, discordgo.ErrUnauthorized) || StatusCode(err) == http.StatusUnauthorized
}
