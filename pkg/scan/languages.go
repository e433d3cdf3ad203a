package scan

import (
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/java"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

// Supported languages, named as enry reports them.
const (
	LangJava = "Java"
	LangGo   = "Go"
)

// extractFunc turns a parsed syntax tree into source-model classes.
type extractFunc func(root sitter.Node, src []byte) []*model.Class

// languageFuncs maps language names to their tree-sitter GetLanguage functions.
var languageFuncs = map[string]func() unsafe.Pointer{
	LangJava: java.GetLanguage,
	LangGo:   golang.GetLanguage,
}

var extractors = map[string]extractFunc{
	LangJava: extractJava,
	LangGo:   extractGo,
}

var languageCache sync.Map

// getLanguage returns the tree-sitter Language for name, or nil if not supported.
func getLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// Languages returns the supported language names.
func Languages() []string {
	return []string{LangGo, LangJava}
}
