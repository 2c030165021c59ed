package view

import "net/url"

type ShareLink struct {
	Name string
	Href string
}

// ShareLinks builds the social share targets for an absolute page URL.
func ShareLinks(pageURL, title string) []ShareLink {
	u := url.QueryEscape(pageURL)
	t := url.QueryEscape(title)
	return []ShareLink{
		{Name: "Facebook", Href: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Name: "Twitter", Href: "https://twitter.com/intent/tweet?url=" + u + "&text=" + t},
		{Name: "LinkedIn", Href: "https://www.linkedin.com/shareArticle?mini=true&url=" + u + "&title=" + t},
		{Name: "Email", Href: "mailto:?subject=" + url.PathEscape(title) + "&body=Check%20out%20this%20article:%20" + u},
	}
}
