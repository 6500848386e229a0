package models

// Variant is one product flavour exported from the same load.
type Variant struct {
	Extension string
	Label     string
	FileName  string
}

// DefaultVariants are the iOS and Android exports written side by side.
var DefaultVariants = []Variant{
	{Extension: "swift", Label: "iOS", FileName: "iOS_cursor_stats.csv"},
	{Extension: "kotlin", Label: "Android", FileName: "android_cursor_stats.csv"},
}

// ExportFile is everything a sink needs to persist one variant.
type ExportFile struct {
	Variant
	Domain    EmailDomain
	Rows      []*Row
	Columns   []string
	Records   [][]string
	Text      string
	Companies []CompanyStat
}

// Empty reports whether the variant produced no merged rows.
func (f ExportFile) Empty() bool { return len(f.Rows) == 0 }
