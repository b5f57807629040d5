package acquire

import "time"

// Registry returns the full fetcher set in a stable order. Platform ids
// here are the snapshot key names; renaming one orphans its history.
func Registry(httpTimeout time.Duration) []Fetcher {
	c := newClient(httpTimeout)

	return []Fetcher{
		&weiboFetcher{c: c},
		&zhihuFetcher{c: c},
		&tiebaFetcher{c: c},
		&bilibiliFetcher{c: c},
		&juejinFetcher{c: c},
		&doubanFetcher{c: c},
		&v2exFetcher{c: c},
		NewRSS("sspai", "https://sspai.com/feed"),
		NewRSS("36kr", "https://36kr.com/feed"),
	}
}
