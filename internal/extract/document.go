package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const documentParseErrorTemplateConstant = "unable to parse page html: %w"

// ParseDocument parses page HTML; a parseable pageURL becomes the base for resolving relative links.
func ParseDocument(pageHTML string, pageURL string) (*goquery.Document, error) {
	document, parseError := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if parseError != nil {
		return nil, fmt.Errorf(documentParseErrorTemplateConstant, parseError)
	}
	if parsedURL, urlError := url.Parse(strings.TrimSpace(pageURL)); urlError == nil && parsedURL.IsAbs() {
		document.Url = parsedURL
	}
	return document, nil
}

// ResolveLink resolves href against the document URL, returning href unchanged when the document has no URL.
func ResolveLink(document *goquery.Document, href string) string {
	if document == nil {
		return href
	}
	return resolveReference(document.Url, href)
}
