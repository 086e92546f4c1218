package freezer

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// checkMimeType compares the Content-Type declared by the application
// against the type a web server would infer from the output filename's
// extension. Most static servers guess by extension, so a mismatch
// means the frozen site would serve the file differently than the live
// application did.
//
// The comparison ignores parameters such as charset. A mismatch yields
// a warning, never an error: the file is written regardless.
func checkMimeType(filename, declared, defaultType string) *Warning {
	basename := filepath.Base(filename)
	guessed := mime.TypeByExtension(filepath.Ext(basename))
	if guessed == "" {
		// What most servers fall back to for unknown extensions.
		guessed = defaultType
	}

	if primaryType(guessed) == primaryType(declared) {
		return nil
	}
	return &Warning{
		Kind: WarnMimeTypeMismatch,
		Message: fmt.Sprintf(
			"filename extension of %q (type %s) does not match Content-Type: %s",
			basename, primaryType(guessed), declared),
	}
}

// primaryType strips parameters and whitespace from a MIME type,
// turning "text/html; charset=utf-8" into "text/html".
func primaryType(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
