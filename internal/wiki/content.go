package wiki

import (
	"fmt"

	"github.com/impacteval/harvest/internal/projects"
)

const (
	articleNamespacePrefixConstant = "Articles:"
	pageContentTemplateConstant    = "= %s =\n\n%s\n\n== External Links ==\n* [%s %s Website]\n"
)

// ArticleTitle returns the wiki title of a project's article.
func ArticleTitle(projectName string) string {
	return articleNamespacePrefixConstant + projects.SanitizeTitle(projectName)
}

// BuildPageContent renders the article wikitext for a project summary.
func BuildPageContent(projectName string, summary string, website string) string {
	sanitizedName := projects.SanitizeTitle(projectName)
	return fmt.Sprintf(pageContentTemplateConstant, sanitizedName, summary, website, sanitizedName)
}
