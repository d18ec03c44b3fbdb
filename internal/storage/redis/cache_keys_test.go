package redis

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchKey_OrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("search", "water")
	a.Set("page", "1")
	a.Set("status", "open,closed")

	b := url.Values{}
	b.Set("status", "open,closed")
	b.Set("page", "1")
	b.Set("search", "water")

	assert.Equal(t, SearchKey(a), SearchKey(b))
	assert.True(t, strings.HasPrefix(SearchKey(a), "search:"))
}

func TestSearchKey_DistinguishesParams(t *testing.T) {
	a := url.Values{"status": {"NONE"}}
	b := url.Values{}

	assert.NotEqual(t, SearchKey(a), SearchKey(b))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "filter:session:abc", FilterSessionKey("abc"))
	assert.Equal(t, "ratelimit:user:42", RateLimitKey(42))
	assert.Equal(t, "ratelimit:client:10.0.0.1", ClientRateLimitKey("10.0.0.1"))
	assert.Equal(t, "state:user:7", UserStateKey(7))
}
