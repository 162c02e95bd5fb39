package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("strips fragment", func(t *testing.T) {
		a, err := Normalize("https://x.com/p#a")
		require.NoError(t, err)
		b, err := Normalize("https://x.com/p#b")
		require.NoError(t, err)
		plain, err := Normalize("https://x.com/p")
		require.NoError(t, err)
		require.Equal(t, plain, a)
		require.Equal(t, plain, b)
	})

	t.Run("strips trailing slash on deep paths", func(t *testing.T) {
		got, err := Normalize("https://x.com/p/")
		require.NoError(t, err)
		require.Equal(t, "https://x.com/p", got)
	})

	t.Run("keeps root slash", func(t *testing.T) {
		got, err := Normalize("https://x.com/")
		require.NoError(t, err)
		require.Equal(t, "https://x.com/", got)
	})

	t.Run("lowercases scheme and host", func(t *testing.T) {
		got, err := Normalize("HTTPS://X.COM/Path")
		require.NoError(t, err)
		require.Equal(t, "https://x.com/Path", got)
	})

	t.Run("preserves query verbatim", func(t *testing.T) {
		got, err := Normalize("https://x.com/p?page=2&sort=asc")
		require.NoError(t, err)
		require.Equal(t, "https://x.com/p?page=2&sort=asc", got)
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, raw := range []string{
			"https://x.com/p/",
			"https://x.com/p#frag",
			"http://X.com/a/b?x=1",
			"https://x.com/",
		} {
			once, err := Normalize(raw)
			require.NoError(t, err)
			twice, err := Normalize(once)
			require.NoError(t, err)
			require.Equal(t, once, twice, "Normalize not idempotent for %q", raw)
		}
	})
}

func TestIsEligible(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want bool
	}{
		{"same domain page", "https://x.com/page", true},
		{"other domain", "https://other.com/x", false},
		{"login page", "https://x.com/login", false},
		{"signup page", "https://x.com/signup", false},
		{"cart", "https://x.com/cart", false},
		{"search endpoint", "https://x.com/page?q=term", false},
		{"pdf", "https://x.com/doc.pdf", false},
		{"image", "https://x.com/logo.png", false},
		{"anchor", "https://x.com/page#section", false},
		{"case-insensitive pattern", "https://x.com/LOGIN", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsEligible(tc.url, "x.com"))
		})
	}
}
