package param

// Int2D is the value of a 2D integer parameter.
type Int2D struct {
	X int `cty:"x"`
	Y int `cty:"y"`
}

// Int3D is the value of a 3D integer parameter.
type Int3D struct {
	X int `cty:"x"`
	Y int `cty:"y"`
	Z int `cty:"z"`
}

// Double2D is the value of a 2D double parameter.
type Double2D struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
}

// Double3D is the value of a 3D double parameter.
type Double3D struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
	Z float64 `cty:"z"`
}

// RGB is the value of a color parameter without alpha.
type RGB struct {
	R float64 `cty:"r"`
	G float64 `cty:"g"`
	B float64 `cty:"b"`
}

// RGBA is the value of a color parameter with alpha.
type RGBA struct {
	R float64 `cty:"r"`
	G float64 `cty:"g"`
	B float64 `cty:"b"`
	A float64 `cty:"a"`
}

// PageEntryKind distinguishes real children of a page from layout
// instructions.
type PageEntryKind int

const (
	EntryParam PageEntryKind = iota
	EntrySkipRow
	EntrySkipColumn
)

var pageEntryKindNames = [...]string{
	EntryParam:      "param",
	EntrySkipRow:    "skip_row",
	EntrySkipColumn: "skip_column",
}

func (k PageEntryKind) String() string {
	if k < 0 || int(k) >= len(pageEntryKindNames) {
		return "unknown"
	}
	return pageEntryKindNames[k]
}

// PageEntry is one element of a page's ordered child list. Name is empty for
// the skip entries.
type PageEntry struct {
	Kind string `cty:"kind"`
	Name string `cty:"name"`
}

// EntryKind decodes the Kind field.
func (e PageEntry) EntryKind() PageEntryKind {
	for i, name := range pageEntryKindNames {
		if name == e.Kind {
			return PageEntryKind(i)
		}
	}
	return EntryParam
}

// ParamEntry, SkipRow and SkipColumn build page entries.
func ParamEntry(name string) PageEntry { return PageEntry{Kind: EntryParam.String(), Name: name} }
func SkipRow() PageEntry               { return PageEntry{Kind: EntrySkipRow.String()} }
func SkipColumn() PageEntry            { return PageEntry{Kind: EntrySkipColumn.String()} }
