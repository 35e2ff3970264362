package projects

import "strings"

const (
	fileStemSpaceReplacementConstant = "_"
	reservedCharacterReplacement     = "_"
)

var reservedCharacterReplacer = strings.NewReplacer(
	"<", reservedCharacterReplacement,
	">", reservedCharacterReplacement,
	":", reservedCharacterReplacement,
	"\"", reservedCharacterReplacement,
	"/", reservedCharacterReplacement,
	"\\", reservedCharacterReplacement,
	"|", reservedCharacterReplacement,
	"?", reservedCharacterReplacement,
	"*", reservedCharacterReplacement,
)

// SanitizeTitle replaces characters that are unsafe in file names and page titles with underscores.
func SanitizeTitle(projectName string) string {
	return reservedCharacterReplacer.Replace(projectName)
}

// FileStem derives the per-project file name stem used by every step.
//
// Spaces become underscores first, then reserved characters are replaced.
func FileStem(projectName string) string {
	spacelessName := strings.ReplaceAll(projectName, " ", fileStemSpaceReplacementConstant)
	return SanitizeTitle(spacelessName)
}
