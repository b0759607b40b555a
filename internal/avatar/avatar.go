package avatar

import "net/url"

const baseURL = "https://api.dicebear.com/8.x/adventurer/svg"

// URL builds a deterministic avatar image URL for the given seed.
func URL(seed string) string {
	return baseURL + "?seed=" + url.QueryEscape(seed)
}
