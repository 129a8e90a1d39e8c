package model

// Tip はアクティビティ統計から導出されるヒントを表す。
// 描画用の情報はStyleタグのみを持ち、表示方法には関与しない。
type Tip struct {
	RuleID  string
	Title   string
	Body    string
	Style   string
	Premium bool
}

// Plan は料金プランを表す。
type Plan struct {
	Name        string
	DisplayName string
	PriceYen    int
	Period      string // month, year, 空文字は無料
	Features    []string
	Purchasable bool
}
