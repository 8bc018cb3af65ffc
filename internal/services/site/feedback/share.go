package feedback

import (
	"net/url"

	"github.com/louisbranch/notebook/internal/services/site/metadata"
)

const (
	twitterIntentURL = "https://twitter.com/intent/tweet"
	facebookShareURL = "https://www.facebook.com/sharer/sharer.php"
)

// TwitterLink builds a tweet intent for the content item.
func TwitterLink(meta metadata.Metadata) string {
	query := url.Values{}
	query.Set("text", meta.Title)
	query.Set("url", meta.AbsoluteURL())
	return twitterIntentURL + "?" + query.Encode()
}

// FacebookLink builds a Facebook share dialog link for the content item.
func FacebookLink(meta metadata.Metadata) string {
	query := url.Values{}
	query.Set("u", meta.AbsoluteURL())
	return facebookShareURL + "?" + query.Encode()
}
