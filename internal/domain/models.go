package domain

import "net/url"

// DefaultTargetFrame is the navigation target used when none is configured
const DefaultTargetFrame = "main"

// ResultIDPrefix prefixes the identifier of every rendered search result
const ResultIDPrefix = "result_"

// HostEntry is one monitored host as supplied by the host list
type HostEntry struct {
	Site string
	Name string
}

// SearchResult is a host that matched the current query
type SearchResult struct {
	ID   string
	Name string
	Site string
	URL  string
}

// NewSearchResult builds the result entry for a matched host
func NewSearchResult(h HostEntry) SearchResult {
	return SearchResult{
		ID:   ResultIDPrefix + h.Name,
		Name: h.Name,
		Site: h.Site,
		URL:  HostURL(h.Name, h.Site),
	}
}

// HostURL is the single host view of a host on a site
func HostURL(name, site string) string {
	return "view?view_name=host&host=" + url.QueryEscape(name) + "&site=" + url.QueryEscape(site)
}

// HostsURL is the host list view filtered by the given text
func HostsURL(query string) string {
	return "view?view_name=hosts&host=" + url.QueryEscape(query)
}
