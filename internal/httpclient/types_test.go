package httpclient_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/rust-tracker/internal/httpclient"
)

const rosterPageURL = "https://api.battlemetrics.com/players?filter[servers]=9565288&filter[online]=true&page[size]=100"

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		url           string
		message       string
		expectedError string
	}{
		{
			name:          "rate limited roster page",
			statusCode:    http.StatusTooManyRequests,
			url:           rosterPageURL,
			message:       http.StatusText(http.StatusTooManyRequests),
			expectedError: "HTTP 429 for URL " + rosterPageURL + ": Too Many Requests",
		},
		{
			name:          "unknown server id",
			statusCode:    http.StatusNotFound,
			url:           "https://api.battlemetrics.com/servers/0",
			message:       "Not Found",
			expectedError: "HTTP 404 for URL https://api.battlemetrics.com/servers/0: Not Found",
		},
		{
			name:          "upstream outage",
			statusCode:    http.StatusBadGateway,
			url:           "https://api.battlemetrics.com/players?page[key]=2",
			message:       "Bad Gateway",
			expectedError: "HTTP 502 for URL https://api.battlemetrics.com/players?page[key]=2: Bad Gateway",
		},
		{
			name:          "empty message keeps trailing separator",
			statusCode:    http.StatusServiceUnavailable,
			url:           "https://api.battlemetrics.com/players",
			expectedError: "HTTP 503 for URL https://api.battlemetrics.com/players: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)

			require.Error(t, err)
			assert.Equal(t, tt.expectedError, err.Error())

			var httpErr *httpclient.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, tt.url, httpErr.URL)
		})
	}
}

// Roster fetches wrap page errors with the page number, the status must
// still be reachable through the chain.
func TestHTTPError_SurvivesWrapping(t *testing.T) {
	t.Parallel()

	base := httpclient.NewHTTPError(http.StatusTooManyRequests, rosterPageURL, "Too Many Requests")
	wrapped := fmt.Errorf("roster page 3: %w", fmt.Errorf("fetch players: %w", base))

	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, wrapped, &httpErr)
	assert.Same(t, base, httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Contains(t, wrapped.Error(), "roster page 3")
	assert.Contains(t, wrapped.Error(), "HTTP 429")
}

func TestHTTPError_NotMatchedForTransportErrors(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to execute request: %w", errors.New("dial tcp: connection refused"))

	var httpErr *httpclient.HTTPError
	assert.False(t, errors.As(err, &httpErr))
}
