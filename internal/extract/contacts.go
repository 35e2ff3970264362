package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	anchorSelectorConstant = "a[href]"
	hrefAttributeConstant  = "href"
)

var (
	emailPattern         = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	emailRejectPattern   = regexp.MustCompile(`\d+x\d+|\.(png|jpg|jpeg|gif|bmp|svg)$`)
	socialNetworkDomains = []string{"facebook.com", "twitter.com", "instagram.com", "linkedin.com", "youtube.com"}
)

// Emails returns the unique, sorted email-like strings found in the page source.
//
// Matches that look like image file names or carry dimension markers such as
// 200x100 are dropped.
func Emails(pageSource string) []string {
	uniqueEmails := make(map[string]struct{})
	for _, candidate := range emailPattern.FindAllString(pageSource, -1) {
		if emailRejectPattern.MatchString(candidate) {
			continue
		}
		uniqueEmails[candidate] = struct{}{}
	}

	emails := make([]string, 0, len(uniqueEmails))
	for email := range uniqueEmails {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

// SocialLinks returns the href of every anchor pointing at a known social network, in document order.
func SocialLinks(document *goquery.Document) []string {
	if document == nil {
		return nil
	}

	socialLinks := make([]string, 0)
	document.Find(anchorSelectorConstant).Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr(hrefAttributeConstant)
		if !containsSocialDomain(href) {
			return
		}
		socialLinks = append(socialLinks, resolveReference(document.Url, href))
	})
	return socialLinks
}

func containsSocialDomain(href string) bool {
	for _, domain := range socialNetworkDomains {
		if strings.Contains(href, domain) {
			return true
		}
	}
	return false
}

func resolveReference(baseURL *url.URL, href string) string {
	if baseURL == nil {
		return href
	}
	reference, parseError := url.Parse(strings.TrimSpace(href))
	if parseError != nil {
		return href
	}
	return baseURL.ResolveReference(reference).String()
}
