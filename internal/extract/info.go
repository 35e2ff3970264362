package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	projectNameLineTemplateConstant = "Project Name: "
	websiteLineTemplateConstant     = "Website: "
	metaDescriptionLabelConstant    = "Meta Description: "
	pageTitleLabelConstant          = "Page Title: "
	headersLabelConstant            = "Headers:\n"
	mainContentLabelConstant        = "Main Content:\n"
	aboutSectionLabelConstant       = "About Section:\n"
	missionVisionLabelConstant      = "Mission/Vision:\n"
	metaDescriptionSelectorConstant = `meta[name="description"]`
	contentAttributeConstant        = "content"
	headerSelectorConstant          = "h1, h2, h3"
	mainContentSelectorConstant     = "p, ul, ol"
	aboutKeywordConstant            = "about"
	missionKeywordConstant          = "mission"
	visionKeywordConstant           = "vision"
	aboutSectionLimitConstant       = 3
	missionVisionLimitConstant      = 2
	lineSeparatorConstant           = "\n"
	sectionSeparatorConstant        = "\n\n"
)

// ProjectInfo renders the plain-text dump of a project page that feeds the summarizer.
//
// The dump lists the project name and website, the meta description when the
// page declares one, the page title, every non-blank h1/h2/h3, every non-blank
// paragraph or list, up to three elements whose own leading text mentions
// "about", and up to two mentioning "mission" or "vision".
func ProjectInfo(projectName string, website string, document *goquery.Document, pageTitle string) string {
	var builder strings.Builder
	builder.WriteString(projectNameLineTemplateConstant + projectName + lineSeparatorConstant)
	builder.WriteString(websiteLineTemplateConstant + website + sectionSeparatorConstant)

	if document == nil {
		document = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}

	if metaDescription := document.Find(metaDescriptionSelectorConstant).First(); metaDescription.Length() > 0 {
		content, _ := metaDescription.Attr(contentAttributeConstant)
		builder.WriteString(metaDescriptionLabelConstant + content + sectionSeparatorConstant)
	}

	builder.WriteString(pageTitleLabelConstant + pageTitle + sectionSeparatorConstant)

	builder.WriteString(headersLabelConstant + strings.Join(nonBlankTexts(document.Find(headerSelectorConstant)), lineSeparatorConstant) + sectionSeparatorConstant)
	builder.WriteString(mainContentLabelConstant + strings.Join(nonBlankTexts(document.Find(mainContentSelectorConstant)), lineSeparatorConstant) + sectionSeparatorConstant)

	aboutSections := elementsWithOwnTextContaining(document, aboutSectionLimitConstant, aboutKeywordConstant)
	if len(aboutSections) > 0 {
		builder.WriteString(aboutSectionLabelConstant)
		for _, sectionText := range aboutSections {
			builder.WriteString(sectionText + sectionSeparatorConstant)
		}
	}

	missionSections := elementsWithOwnTextContaining(document, missionVisionLimitConstant, missionKeywordConstant, visionKeywordConstant)
	if len(missionSections) > 0 {
		builder.WriteString(missionVisionLabelConstant)
		for _, sectionText := range missionSections {
			builder.WriteString(sectionText + sectionSeparatorConstant)
		}
	}

	return builder.String()
}

func nonBlankTexts(selection *goquery.Selection) []string {
	texts := make([]string, 0, selection.Length())
	selection.Each(func(_ int, element *goquery.Selection) {
		if hasHiddenAncestor(element.Get(0)) {
			return
		}
		elementText := visibleText(element)
		if len(strings.TrimSpace(elementText)) == 0 {
			return
		}
		texts = append(texts, elementText)
	})
	return texts
}

// elementsWithOwnTextContaining returns the visible text of the first limit
// elements whose first direct text node contains any keyword, case-insensitively.
func elementsWithOwnTextContaining(document *goquery.Document, limit int, keywords ...string) []string {
	matches := make([]string, 0, limit)
	document.Find("*").EachWithBreak(func(_ int, element *goquery.Selection) bool {
		node := element.Get(0)
		if isHidden(node) || hasHiddenAncestor(node) {
			return true
		}
		ownText, hasOwnText := firstOwnText(node)
		if !hasOwnText {
			return true
		}
		loweredText := strings.ToLower(ownText)
		for _, keyword := range keywords {
			if strings.Contains(loweredText, keyword) {
				matches = append(matches, visibleText(element))
				break
			}
		}
		return len(matches) < limit
	})
	return matches
}
