package catalog

// Mark is one symbol of the closed inspection result set. The record layer does
// not enforce that a stored mark is allowed for its item.
type Mark = string

// The closed mark set, in legend order.
var Marks = []Mark{"✓", "×", "A", "C", "P", "○", "△", "T", "L", "/"}

// markMeanings are the editor glossary texts.
var markMeanings = map[Mark]string{
	"✓": "点検良好",
	"×": "交換",
	"A": "調整",
	"C": "清掃",
	"P": "省略",
	"○": "特定整備",
	"△": "修理",
	"T": "締付",
	"L": "給油(水)",
	"/": "該当なし",
}

// resultTexts are the short customer-facing texts.
var resultTexts = map[Mark]string{
	"✓": "良好",
	"×": "交換",
	"A": "調整",
	"C": "清掃",
	"P": "省略",
	"○": "特定整備",
	"△": "修理",
	"T": "締付",
	"L": "給油",
	"/": "該当なし",
}

// ResultClass is a display styling tag, not business logic.
type ResultClass string

const (
	ResultOK      ResultClass = "ok"
	ResultReplace ResultClass = "replace"
	ResultAdjust  ResultClass = "adjust"
	ResultNone    ResultClass = ""
)

// MarkMeaning returns the glossary text for a mark, or "" for unknown codes.
func MarkMeaning(code Mark) string {
	return markMeanings[code]
}

// ResultText returns the short display text for a mark. Unknown codes echo the
// code itself so the view never renders an empty result cell.
func ResultText(code Mark) string {
	if t, ok := resultTexts[code]; ok {
		return t
	}
	return code
}

// MarkResultClass returns the styling tag for a mark; unknown codes get ResultNone.
func MarkResultClass(code Mark) ResultClass {
	switch code {
	case "✓":
		return ResultOK
	case "×":
		return ResultReplace
	case "A":
		return ResultAdjust
	}
	return ResultNone
}

// Legend is the single-line mark legend used on exported reports.
const Legend = "✓:良好 ×:交換 A:調整 C:清掃 P:省略 ○:特定整備 △:修理 T:締付 L:給油(水) /:該当なし"
