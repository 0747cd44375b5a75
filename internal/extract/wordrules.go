package extract

// wordAction is what the document walk does with an element.
type wordAction int

const (
	wordSkip    wordAction = iota // drop the element and its subtree
	wordDescend                   // walk the children
	wordText                      // collect the character data
)

// WordCategory names a class of WordprocessingML elements for the purpose of
// text inclusion.
type WordCategory string

const (
	WordContainer  WordCategory = "container"
	WordParagraph  WordCategory = "paragraph"
	WordRun        WordCategory = "run"
	WordInsertion  WordCategory = "insertion"
	WordTextNode   WordCategory = "text"
	WordTable      WordCategory = "table"
	WordBookmark   WordCategory = "bookmark"
	WordStructured WordCategory = "structured_tag"
	WordComment    WordCategory = "comment"
	WordField      WordCategory = "field"
	WordSymbol     WordCategory = "symbol"
	WordTab        WordCategory = "tab"
	WordBreak      WordCategory = "break"
	WordDrawing    WordCategory = "drawing"
	WordDeletion   WordCategory = "deletion"
	WordHyperlink  WordCategory = "hyperlink"
	WordProperties WordCategory = "properties"
	WordOther      WordCategory = "other"
)

type wordRule struct {
	action   wordAction
	category WordCategory
}

// wordRules is the inclusion table for word/document.xml, keyed by element
// local name. Only text reachable through descend rules ends up in the
// output. Elements missing from the table are skipped.
var wordRules = map[string]wordRule{
	"document": {wordDescend, WordContainer},
	"body":     {wordDescend, WordContainer},
	"p":        {wordDescend, WordParagraph},
	"r":        {wordDescend, WordRun},
	"t":        {wordText, WordTextNode},

	// Tracked changes: insertions are rendered, deletions are not.
	"ins":      {wordDescend, WordInsertion},
	"moveTo":   {wordDescend, WordInsertion},
	"del":      {wordSkip, WordDeletion},
	"delText":  {wordSkip, WordDeletion},
	"moveFrom": {wordSkip, WordDeletion},

	"tbl": {wordSkip, WordTable},

	"bookmarkStart": {wordSkip, WordBookmark},
	"bookmarkEnd":   {wordSkip, WordBookmark},

	// Structured tags include the sdt block Word uses for a table of
	// contents; TOC fields (fldSimple instr="TOC ...") are fields.
	"sdt":       {wordSkip, WordStructured},
	"customXml": {wordSkip, WordStructured},
	"smartTag":  {wordSkip, WordStructured},
	// Link text is dropped along with the link, matching field results.
	"hyperlink": {wordSkip, WordHyperlink},

	"fldSimple":    {wordSkip, WordField},
	"fldChar":      {wordSkip, WordField},
	"instrText":    {wordSkip, WordField},
	"delInstrText": {wordSkip, WordField},

	"commentRangeStart": {wordSkip, WordComment},
	"commentRangeEnd":   {wordSkip, WordComment},
	"commentReference":  {wordSkip, WordComment},

	"sym":  {wordSkip, WordSymbol},
	"tab":  {wordSkip, WordTab},
	"ptab": {wordSkip, WordTab},

	"br":                    {wordSkip, WordBreak},
	"cr":                    {wordSkip, WordBreak},
	"lastRenderedPageBreak": {wordSkip, WordBreak},

	"drawing":          {wordSkip, WordDrawing},
	"pict":             {wordSkip, WordDrawing},
	"object":           {wordSkip, WordDrawing},
	"AlternateContent": {wordSkip, WordDrawing},

	"pPr":    {wordSkip, WordProperties},
	"rPr":    {wordSkip, WordProperties},
	"sectPr": {wordSkip, WordProperties},
}

func lookupWordRule(local string) wordRule {
	if rule, ok := wordRules[local]; ok {
		return rule
	}
	return wordRule{wordSkip, WordOther}
}

// WordRuleFor returns the category of an element local name and whether its
// text is part of the extracted output.
func WordRuleFor(local string) (WordCategory, bool) {
	rule := lookupWordRule(local)
	return rule.category, rule.action != wordSkip
}
