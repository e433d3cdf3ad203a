package scan

import "github.com/Sumatoshi-tech/codebridge/pkg/model"

// languageStamp records the source language on every class and signature
// reached by a walk, including nested type arguments.
type languageStamp struct {
	lang string
}

func stampLanguage(classes []*model.Class, lang string) {
	stamp := languageStamp{lang: lang}

	for _, cls := range classes {
		// The visitor never fails.
		_ = cls.Walk(stamp)
	}
}

func (s languageStamp) VisitClass(c *model.Class) error {
	c.Language = s.lang

	return nil
}

func (languageStamp) VisitField(*model.Field) error         { return nil }
func (languageStamp) VisitMethod(*model.Method) error       { return nil }
func (languageStamp) VisitParameter(*model.Parameter) error { return nil }

func (s languageStamp) VisitSignature(sig *model.Signature) error {
	sig.Language = s.lang

	for _, arg := range sig.Args {
		if arg != nil {
			_ = s.VisitSignature(arg)
		}
	}

	return nil
}
