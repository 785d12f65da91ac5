package citation

import (
	"strings"
)

// EncodeFragment maps an ordered subdivision chain to its ELI-style URL
// fragment: Article(n) encodes as "art_{n}", Paragraph(n) appends
// "/para_{n}", Letter(c) and Number(n) append "/lbl_{c|n}". A non-empty
// fragment carries a leading "#"; an empty chain encodes as the empty
// string, targeting the document root.
//
//	EncodeFragment([Article(41), Paragraph(2)])            == "#art_41/para_2"
//	EncodeFragment([Article(52), Paragraph(1), Letter(c)]) == "#art_52/para_1/lbl_c"
//
// The encoding is total over valid chains and injective: distinct chains
// never encode to the same fragment.
func EncodeFragment(selectors []Selector) string {
	if len(selectors) == 0 {
		return ""
	}

	var fragment strings.Builder
	fragment.WriteByte('#')
	for i, selector := range selectors {
		if i > 0 {
			fragment.WriteByte('/')
		}
		switch selector.Kind {
		case KindArticle:
			fragment.WriteString("art_")
		case KindParagraph:
			fragment.WriteString("para_")
		default:
			fragment.WriteString("lbl_")
		}
		fragment.WriteString(selector.Value())
	}
	return fragment.String()
}
