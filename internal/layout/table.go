package layout

// builtinTable is indexed [row][hand][shift][column]. The right half of the
// middle row carries a sixth key.
var builtinTable = [][][][]rune{
	{ // upper
		{
			[]rune("。なてせそ"),
			[]rune("ぺけよー　"),
			[]rune("ぱげでぜぞ"),
		},
		{
			[]rune("・おのに　"),
			[]rune("　びぎづ　"),
			[]rune("　ひきつ　"),
		},
	},
	{ // middle
		{
			[]rune("こたかるは"),
			[]rune("めやもさぅ"),
			[]rune("ごだがざば"),
		},
		{
			[]rune("ーんいしと　"),
			[]rune("ぃぁぐじどぴ"),
			[]rune("むれくりわね"),
		},
	},
	{ // lower
		{
			[]rune("ゆほまろ〜"),
			[]rune("ゅゃふょぉ"),
			[]rune("ぽぼぶぷゎ"),
		},
		{
			[]rune("っうすらへ"),
			[]rune("ぇヴずぢべ"),
			[]rune("みあえちぬ"),
		},
	},
}

var builtin = mustNew(builtinTable)

// Default returns the built-in layout. It is shared and must not be mutated.
func Default() *Layout {
	return builtin
}

func mustNew(table [][][][]rune) *Layout {
	l, err := New(table)
	if err != nil {
		panic(err)
	}
	return l
}
