/*
File    : file/file.go

Package file loads Bang source programs for the CLI. The interpreter's
only file concern is reading the program text; everything downstream
works on the in-memory string.
*/
package file

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Ext is the conventional Bang source extension. Load does not enforce
// it; IsBangFile lets callers warn about unexpected paths.
const Ext = ".bang"

func IsBangFile(path string) bool {
	return strings.HasSuffix(path, Ext)
}

// Load reads a source file and validates it is UTF-8, the only
// encoding the lexer's column math supports.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read file %q: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %q is not valid UTF-8", path)
	}
	return string(data), nil
}
