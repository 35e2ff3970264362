package directory

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/impacteval/harvest/internal/extract"
)

const (
	headingSelectorConstant      = "h1"
	rowSelectorConstant          = "tr"
	cellSelectorConstant         = "td"
	imageSelectorConstant        = "img"
	anchorSelectorConstant       = "a"
	websiteIconSelectorConstant  = "i.bi.bi-globe"
	sourceAttributeConstant      = "src"
	hrefAttributeConstant        = "href"
	minimumCellCountConstant     = 5
	imageCellIndexConstant       = 0
	nameCellIndexConstant        = 1
	descriptionCellIndexConstant = 2
)

var (
	projectCountPattern = regexp.MustCompile(`\((\d+)\)`)

	errListingImageMissing = errors.New("listing row has no image")
	errListingLinkMissing  = errors.New("listing row has no project link")
)

// listingRow is one directory table row before its website is resolved.
type listingRow struct {
	Image       string
	Name        string
	Link        string
	Description string
}

// TotalProjects reads the project count announced in the first h1, such as "Projects (42)".
func TotalProjects(document *goquery.Document) (int, bool) {
	if document == nil {
		return 0, false
	}
	heading := document.Find(headingSelectorConstant).First()
	if heading.Length() == 0 {
		return 0, false
	}
	match := projectCountPattern.FindStringSubmatch(heading.Text())
	if match == nil {
		return 0, false
	}
	count, parseError := strconv.Atoi(match[1])
	if parseError != nil {
		return 0, false
	}
	return count, true
}

// parseListingRows reads every table row after the header that carries at least five cells.
//
// Rows missing the image or the project anchor are reported as errors and skipped.
func parseListingRows(document *goquery.Document) ([]listingRow, []error) {
	listingRows := make([]listingRow, 0)
	var rowErrors []error

	document.Find(rowSelectorConstant).Each(func(rowIndex int, row *goquery.Selection) {
		if rowIndex == 0 {
			return
		}
		cells := row.Find(cellSelectorConstant)
		if cells.Length() < minimumCellCountConstant {
			return
		}

		image := cells.Eq(imageCellIndexConstant).Find(imageSelectorConstant).First()
		imageSource, imageFound := image.Attr(sourceAttributeConstant)
		if !imageFound {
			rowErrors = append(rowErrors, errListingImageMissing)
			return
		}

		anchor := cells.Eq(nameCellIndexConstant).Find(anchorSelectorConstant).First()
		link, linkFound := anchor.Attr(hrefAttributeConstant)
		if !linkFound {
			rowErrors = append(rowErrors, errListingLinkMissing)
			return
		}

		listingRows = append(listingRows, listingRow{
			Image:       extract.ResolveLink(document, imageSource),
			Name:        strings.TrimSpace(anchor.Text()),
			Link:        extract.ResolveLink(document, link),
			Description: strings.TrimSpace(cells.Eq(descriptionCellIndexConstant).Text()),
		})
	})

	return listingRows, rowErrors
}

// websiteFromDetail returns the href of the element wrapping the globe icon on a project detail page.
func websiteFromDetail(document *goquery.Document) (string, bool) {
	icon := document.Find(websiteIconSelectorConstant).First()
	if icon.Length() == 0 {
		return "", false
	}
	href, found := icon.Parent().Attr(hrefAttributeConstant)
	if !found {
		return "", false
	}
	return extract.ResolveLink(document, href), true
}
