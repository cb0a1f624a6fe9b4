package builtins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dekarrin/floyd/value"
	"golang.org/x/text/unicode/norm"
)

func init() {
	register("atoi", 1, 0, biAtoi)
	register("atof", 1, 0, biAtof)
	register("atou", 1, 0, biAtou)
	register("btoa", 1, 0, biBtoa)
	register("cat", 1, 0, biCat)
	register("cdr", 1, 0, biCdr)
	register("colno", 0, 0, biColno)
	register("concat", 2, 0, biConcat)
	register("cons", 2, 0, biCons)
	register("dedent", 2, 1, biDedent)
	register("dict", 0, -1, biDict)
	register("encode_string", 1, 0, biEncodeString)
	register("equal", 2, 0, biEqual)
	register("ftoa", 1, 0, biFtoa)
	register("ftoi", 1, 0, biFtoi)
	register("get", 2, 1, biGet)
	register("has", 2, 0, biHas)
	register("in", 2, 0, biIn)
	register("is_atom", 1, 0, biIsAtom)
	register("is_bool", 1, 0, mkIsType(value.Bool))
	register("is_dict", 1, 0, mkIsType(value.Dict))
	register("is_float", 1, 0, mkIsType(value.Float))
	register("is_int", 1, 0, mkIsType(value.Int))
	register("is_list", 1, 0, mkIsType(value.List))
	register("is_null", 1, 0, mkIsType(value.Null))
	register("is_str", 1, 0, mkIsType(value.Str))
	register("item", 2, 0, biItem)
	register("itoa", 1, 0, biItoa)
	register("itof", 1, 0, biItof)
	register("itou", 1, 0, biItou)
	register("join", 2, 0, biJoin)
	register("keys", 1, 0, biKeys)
	register("len", 1, 0, biLen)
	register("list", 0, -1, biList)
	register("map", 2, 0, biMap)
	register("map_items", 2, 0, biMapItems)
	register("node", 1, -1, biNode)
	register("pairs", 1, 0, biPairs)
	register("pos", 0, 0, biPos)
	register("replace", 3, 0, biReplace)
	register("scat", 0, -1, biScat)
	register("scons", 2, 0, biScons)
	register("slice", 3, 0, biSlice)
	register("sort", 1, 0, biSort)
	register("split", 2, 0, biSplit)
	register("str2td", 1, 0, biStr2td)
	register("strcat", 1, 0, biStrcat)
	register("strin", 2, 0, biStrin)
	register("strlen", 1, 0, biStrlen)
	register("substr", 3, 0, biSubstr)
	register("td2str", 1, 0, biTd2str)
	register("throw", 1, 0, biThrow)
	register("ucategory", 1, 0, biUcategory)
	register("ulookup", 1, 0, biUlookup)
	register("uname", 1, 0, biUname)
	register("utoi", 1, 0, biUtoi)
	register("values", 1, 0, biValues)
	register("xtoi", 1, 0, biXtoi)
	register("xtou", 1, 0, biXtou)
}

func biAtoi(_ Context, a []value.Value) (value.Value, error) {
	n, err := strconv.Atoi(strings.TrimSpace(a[0].String()))
	if err != nil {
		return value.Value{}, fmt.Errorf("atoi: %w", err)
	}
	return value.NewInt(n), nil
}

func biAtof(_ Context, a []value.Value) (value.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(a[0].String()), 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("atof: %w", err)
	}
	return value.NewFloat(f), nil
}

// atou treats its argument as a decimal code-point number and returns the
// single-rune string it names (the decimal counterpart to xtou's hex form).
func biAtou(_ Context, a []value.Value) (value.Value, error) {
	n, err := strconv.Atoi(strings.TrimSpace(a[0].String()))
	if err != nil {
		return value.Value{}, fmt.Errorf("atou: %w", err)
	}
	return value.NewStr(string(rune(n))), nil
}

func biBtoa(_ Context, a []value.Value) (value.Value, error) {
	return value.NewStr(a[0].String()), nil
}

// cat concatenates a list[str]; a non-string element is a host error, unlike
// strcat which coerces.
func biCat(_ Context, a []value.Value) (value.Value, error) {
	items := a[0].Elements()
	if items == nil {
		return value.Value{}, fmt.Errorf("cat: argument is not a list")
	}
	var sb strings.Builder
	for _, it := range items {
		if it.Type() != value.Str {
			return value.Value{}, fmt.Errorf("cat: list element is not a str")
		}
		sb.WriteString(it.String())
	}
	return value.NewStr(sb.String()), nil
}

func biCdr(_ Context, a []value.Value) (value.Value, error) {
	items := a[0].Elements()
	if len(items) == 0 {
		return value.NewList(nil), nil
	}
	return value.NewList(items[1:]), nil
}

func biColno(ctx Context, _ []value.Value) (value.Value, error) {
	return value.NewInt(ctx.Colno()), nil
}

func biConcat(_ Context, a []value.Value) (value.Value, error) {
	xs, ys := a[0].Elements(), a[1].Elements()
	out := make([]value.Value, 0, len(xs)+len(ys))
	out = append(out, xs...)
	out = append(out, ys...)
	return value.NewList(out), nil
}

func biCons(_ Context, a []value.Value) (value.Value, error) {
	tail := a[1].Elements()
	out := make([]value.Value, 0, len(tail)+1)
	out = append(out, a[0])
	out = append(out, tail...)
	return value.NewList(out), nil
}

// dedent(s, colno, min_indent) removes up to min_indent columns of leading
// whitespace from every line of s, treating a tab as advancing to the next
// multiple of 8 columns (Open Question (b), resolved in SPEC_FULL.md §C.3).
// A line's indentation measurement stops at the first tab that interrupts an
// otherwise-space indentation run; no further columns are credited for that
// line. colno is the column s itself starts at in its original source (a
// captured multi-line block rarely starts at column 0), and seeds the tab-stop
// count for s's first line only; every subsequent line starts its own count
// at column 0, since a newline always resets to the left margin. When only
// two arguments are given, colno defaults to 0 and the second argument is
// min_indent.
func biDedent(_ Context, a []value.Value) (value.Value, error) {
	s := a[0].String()
	colno := 0
	minIndent := a[1].Int()
	if len(a) > 2 {
		colno = a[1].Int()
		minIndent = a[2].Int()
	}

	lines := strings.Split(s, "\n")
	for li, line := range lines {
		col := 0
		if li == 0 {
			col = colno
		}
		cut := 0
		sawSpace := false
		for _, r := range line {
			if col >= minIndent {
				break
			}
			if r == ' ' {
				col++
				cut++
				sawSpace = true
				continue
			}
			if r == '\t' {
				if sawSpace {
					break
				}
				next := (col/8 + 1) * 8
				if next > minIndent {
					break
				}
				col = next
				cut++
				continue
			}
			break
		}
		lines[li] = line[cut:]
	}
	return value.NewStr(strings.Join(lines, "\n")), nil
}

func biDict(_ Context, a []value.Value) (value.Value, error) {
	if len(a)%2 != 0 {
		return value.Value{}, fmt.Errorf("dict: expected an even number of key/value arguments")
	}
	m := map[string]value.Value{}
	order := make([]string, 0, len(a)/2)
	for i := 0; i < len(a); i += 2 {
		k := a[i].String()
		if _, exists := m[k]; !exists {
			order = append(order, k)
		}
		m[k] = a[i+1]
	}
	return value.NewDict(m, order), nil
}

func biEncodeString(_ Context, a []value.Value) (value.Value, error) {
	s := a[0].String()
	replacer := strings.NewReplacer(
		`\`, `\\`, "\n", `\n`, "\t", `\t`, `"`, `\"`,
	)
	return value.NewStr(replacer.Replace(s)), nil
}

func biEqual(_ Context, a []value.Value) (value.Value, error) {
	return value.NewBool(a[0].Equal(a[1])), nil
}

func biFtoa(_ Context, a []value.Value) (value.Value, error) {
	return value.NewStr(a[0].String()), nil
}

func biFtoi(_ Context, a []value.Value) (value.Value, error) {
	return value.NewInt(int(a[0].Float())), nil
}

func biGet(_ Context, a []value.Value) (value.Value, error) {
	v, ok := a[0].Get(a[1].String())
	if !ok {
		if len(a) > 2 {
			return a[2], nil
		}
		return value.NewNull(), nil
	}
	return v, nil
}

func biHas(_ Context, a []value.Value) (value.Value, error) {
	_, ok := a[0].Get(a[1].String())
	return value.NewBool(ok), nil
}

func biIn(_ Context, a []value.Value) (value.Value, error) {
	needle := a[0]
	haystack := a[1]
	if haystack.Type() == value.Str {
		return value.NewBool(strings.Contains(haystack.String(), needle.String())), nil
	}
	for _, e := range haystack.Elements() {
		if e.Equal(needle) {
			return value.NewBool(true), nil
		}
	}
	return value.NewBool(false), nil
}

func biIsAtom(_ Context, a []value.Value) (value.Value, error) {
	t := a[0].Type()
	return value.NewBool(t != value.List && t != value.Dict), nil
}

func mkIsType(t value.Type) Impl {
	return func(_ Context, a []value.Value) (value.Value, error) {
		return value.NewBool(a[0].Type() == t), nil
	}
}

func biItem(_ Context, a []value.Value) (value.Value, error) {
	v, ok := a[0].Index(a[1].Int())
	if !ok {
		return value.Value{}, fmt.Errorf("item: index out of range")
	}
	return v, nil
}

func biItoa(_ Context, a []value.Value) (value.Value, error) {
	return value.NewStr(strconv.Itoa(a[0].Int())), nil
}

func biItof(_ Context, a []value.Value) (value.Value, error) {
	return value.NewFloat(float64(a[0].Int())), nil
}

func biItou(_ Context, a []value.Value) (value.Value, error) {
	return value.NewStr(string(rune(a[0].Int()))), nil
}

func biJoin(_ Context, a []value.Value) (value.Value, error) {
	items := a[0].Elements()
	sep := a[1].String()
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return value.NewStr(strings.Join(parts, sep)), nil
}

func biKeys(_ Context, a []value.Value) (value.Value, error) {
	ks := a[0].Keys()
	out := make([]value.Value, len(ks))
	for i, k := range ks {
		out[i] = value.NewStr(k)
	}
	return value.NewList(out), nil
}

func biLen(_ Context, a []value.Value) (value.Value, error) {
	switch a[0].Type() {
	case value.Str:
		return value.NewInt(len([]rune(a[0].String()))), nil
	case value.List:
		return value.NewInt(len(a[0].Elements())), nil
	case value.Dict:
		return value.NewInt(len(a[0].Keys())), nil
	default:
		return value.Value{}, fmt.Errorf("len: unsupported type %s", a[0].Type())
	}
}

func biList(_ Context, a []value.Value) (value.Value, error) {
	return value.NewList(a), nil
}

func biMap(ctx Context, a []value.Value) (value.Value, error) {
	items := a[0].Elements()
	fname := a[1].String()
	out := make([]value.Value, len(items))
	for i, it := range items {
		v, err := ctx.Call(fname, []value.Value{it})
		if err != nil {
			return value.Value{}, err
		}
		out[i] = v
	}
	return value.NewList(out), nil
}

func biMapItems(ctx Context, a []value.Value) (value.Value, error) {
	keys := a[0].Keys()
	fname := a[1].String()
	m := map[string]value.Value{}
	for _, k := range keys {
		v, _ := a[0].Get(k)
		nv, err := ctx.Call(fname, []value.Value{v})
		if err != nil {
			return value.Value{}, err
		}
		m[k] = nv
	}
	return value.NewDict(m, keys), nil
}

// node builds a generic tagged-dict value ({kind: ..., args: [...]}) usable
// from semantic actions that want to hand back a synthetic tree shape
// without the host language having first-class struct types.
func biNode(_ Context, a []value.Value) (value.Value, error) {
	m := map[string]value.Value{
		"kind": value.NewStr(a[0].String()),
		"args": value.NewList(a[1:]),
	}
	return value.NewDict(m, []string{"kind", "args"}), nil
}

func biPairs(_ Context, a []value.Value) (value.Value, error) {
	keys := a[0].Keys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		v, _ := a[0].Get(k)
		out[i] = value.NewList([]value.Value{value.NewStr(k), v})
	}
	return value.NewList(out), nil
}

func biPos(ctx Context, _ []value.Value) (value.Value, error) {
	return value.NewInt(ctx.Pos()), nil
}

func biReplace(_ Context, a []value.Value) (value.Value, error) {
	return value.NewStr(strings.ReplaceAll(a[0].String(), a[1].String(), a[2].String())), nil
}

func biScat(_ Context, a []value.Value) (value.Value, error) {
	var sb strings.Builder
	for _, v := range a {
		sb.WriteString(v.String())
	}
	return value.NewStr(sb.String()), nil
}

func biScons(_ Context, a []value.Value) (value.Value, error) {
	return value.NewStr(a[0].String() + a[1].String()), nil
}

func biSlice(_ Context, a []value.Value) (value.Value, error) {
	start, end := a[1].Int(), a[2].Int()
	if a[0].Type() == value.Str {
		runes := []rune(a[0].String())
		start, end = clampRange(start, end, len(runes))
		return value.NewStr(string(runes[start:end])), nil
	}
	items := a[0].Elements()
	start, end = clampRange(start, end, len(items))
	return value.NewList(items[start:end]), nil
}

func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

func biSort(_ Context, a []value.Value) (value.Value, error) {
	items := a[0].Elements()
	out := make([]value.Value, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsNumber() && out[j].IsNumber() {
			return out[i].Float() < out[j].Float()
		}
		return out[i].String() < out[j].String()
	})
	return value.NewList(out), nil
}

func biSplit(_ Context, a []value.Value) (value.Value, error) {
	parts := strings.Split(a[0].String(), a[1].String())
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.NewStr(p)
	}
	return value.NewList(out), nil
}

// str2td parses a flat "key=value;key2=value2" typed-data string into a
// dict, the inverse of td2str.
func biStr2td(_ Context, a []value.Value) (value.Value, error) {
	m := map[string]value.Value{}
	var order []string
	for _, field := range strings.Split(a[0].String(), ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		kv := strings.SplitN(field, "=", 2)
		k := strings.TrimSpace(kv[0])
		v := ""
		if len(kv) == 2 {
			v = strings.TrimSpace(kv[1])
		}
		if _, exists := m[k]; !exists {
			order = append(order, k)
		}
		m[k] = value.NewStr(v)
	}
	return value.NewDict(m, order), nil
}

func biTd2str(_ Context, a []value.Value) (value.Value, error) {
	keys := a[0].Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := a[0].Get(k)
		parts[i] = fmt.Sprintf("%s=%s", k, v.String())
	}
	return value.NewStr(strings.Join(parts, ";")), nil
}

// throw never returns a value; the evaluator treats its error as a host
// error that aborts the parse (spec §4.1.9, §7).
func biThrow(_ Context, a []value.Value) (value.Value, error) {
	msg := "thrown"
	if len(a) > 0 {
		msg = a[0].String()
	}
	return value.Value{}, &ThrownError{Message: msg}
}

// ThrownError wraps an explicit throw("msg") call so the interpreter can
// distinguish it from other Go errors when composing Result.err.
type ThrownError struct {
	Message string
}

func (e *ThrownError) Error() string { return e.Message }

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func biUcategory(_ Context, a []value.Value) (value.Value, error) {
	r, ok := firstRune(a[0].String())
	if !ok {
		return value.Value{}, fmt.Errorf("ucategory: empty string")
	}
	return value.NewStr(unicodeCategoryOf(r)), nil
}

// ulookup resolves a Unicode character name to its single-rune string. The
// name table is partial (neither the standard library nor any pack
// dependency ships the full Unicode character-name database): it covers
// NULL, TAB, LINE FEED, CARRIAGE RETURN, SPACE and the ASCII punctuation
// characters only; letters, digits and every other name are unknown.
func biUlookup(_ Context, a []value.Value) (value.Value, error) {
	name := strings.ToUpper(strings.TrimSpace(a[0].String()))
	r, ok := nameToRune[name]
	if !ok {
		return value.Value{}, fmt.Errorf("ulookup: unknown character name %q", name)
	}
	return value.NewStr(string(r)), nil
}

func biUname(_ Context, a []value.Value) (value.Value, error) {
	r, ok := firstRune(a[0].String())
	if !ok {
		return value.Value{}, fmt.Errorf("uname: empty string")
	}
	if name, ok := runeToName[r]; ok {
		return value.NewStr(name), nil
	}
	return value.NewStr(fmt.Sprintf("U+%04X", r)), nil
}

func biUtoi(_ Context, a []value.Value) (value.Value, error) {
	r, ok := firstRune(a[0].String())
	if !ok {
		return value.Value{}, fmt.Errorf("utoi: empty string")
	}
	return value.NewInt(int(r)), nil
}

func biValues(_ Context, a []value.Value) (value.Value, error) {
	keys := a[0].Keys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		out[i], _ = a[0].Get(k)
	}
	return value.NewList(out), nil
}

func biXtoi(_ Context, a []value.Value) (value.Value, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(a[0].String(), "0x"), 16, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("xtoi: %w", err)
	}
	return value.NewInt(int(n)), nil
}

func biXtou(_ Context, a []value.Value) (value.Value, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(a[0].String(), "0x"), 16, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("xtou: %w", err)
	}
	return value.NewStr(string(rune(n))), nil
}

// unicodeCategoryOf classifies r into a two-letter Unicode general category
// abbreviation using the standard library's unicode.Categories table, the
// same classification x/text itself defers to internally.
func unicodeCategoryOf(r rune) string {
	for _, name := range categoryOrder {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return "Cn"
}

// categoryOrder lists the two-letter category abbreviations in the order
// Unicode documents them; order matters because some ranges (e.g. Lo vs L)
// overlap in the umbrella tables and we want the most specific match first.
var categoryOrder = []string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Sm", "Sc", "Sk", "So",
	"Zs", "Zl", "Zp",
	"Cc", "Cf", "Co", "Cs",
}

var nameToRune = map[string]rune{
	"NULL": 0, "TAB": '\t', "LINE FEED": '\n', "CARRIAGE RETURN": '\r',
	"SPACE": ' ', "EXCLAMATION MARK": '!', "QUOTATION MARK": '"',
	"NUMBER SIGN": '#', "DOLLAR SIGN": '$', "PERCENT SIGN": '%',
	"AMPERSAND": '&', "APOSTROPHE": '\'', "LEFT PARENTHESIS": '(',
	"RIGHT PARENTHESIS": ')', "ASTERISK": '*', "PLUS SIGN": '+',
	"COMMA": ',', "HYPHEN-MINUS": '-', "FULL STOP": '.', "SOLIDUS": '/',
	"COLON": ':', "SEMICOLON": ';', "LESS-THAN SIGN": '<',
	"EQUALS SIGN": '=', "GREATER-THAN SIGN": '>', "QUESTION MARK": '?',
	"COMMERCIAL AT": '@', "LEFT SQUARE BRACKET": '[', "REVERSE SOLIDUS": '\\',
	"RIGHT SQUARE BRACKET": ']', "CIRCUMFLEX ACCENT": '^', "LOW LINE": '_',
	"GRAVE ACCENT": '`', "LEFT CURLY BRACKET": '{', "VERTICAL LINE": '|',
	"RIGHT CURLY BRACKET": '}', "TILDE": '~',
}

var runeToName = func() map[rune]string {
	m := make(map[rune]string, len(nameToRune))
	for name, r := range nameToRune {
		m[r] = name
	}
	return m
}()

// normalize puts s into NFC before strlen/substr count and slice it by
// runes, so a base letter and a combining mark that have a precomposed form
// count as one rune. No grapheme segmentation is done; combining marks with
// no precomposed form still count as runes of their own.
func normalize(s string) string {
	return norm.NFC.String(s)
}

func biStrcat(_ Context, a []value.Value) (value.Value, error) {
	items := a[0].Elements()
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(it.String())
	}
	return value.NewStr(sb.String()), nil
}

func biStrin(_ Context, a []value.Value) (value.Value, error) {
	return value.NewBool(strings.Contains(a[1].String(), a[0].String())), nil
}

func biStrlen(_ Context, a []value.Value) (value.Value, error) {
	return value.NewInt(len([]rune(normalize(a[0].String())))), nil
}

func biSubstr(_ Context, a []value.Value) (value.Value, error) {
	runes := []rune(normalize(a[0].String()))
	start, end := clampRange(a[1].Int(), a[2].Int(), len(runes))
	return value.NewStr(string(runes[start:end])), nil
}
