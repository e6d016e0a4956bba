package gen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NamingStrategy converts catalog identifiers into Go identifiers and back.
// Implementations must be deterministic and total: every input maps to some
// valid identifier.
type NamingStrategy interface {
	// ClassName returns the type name for a table.
	ClassName(table, prefix string) string
	// PropertyName returns the field name for a column.
	PropertyName(column string) string
	// TableName returns the default table name for a class name.
	TableName(className, prefix string) string
	// ForeignKeyName returns the accessor name for a foreign key.
	ForeignKeyName(constraint string, columns []string) string
	// Disambiguate returns the attempt-th alternative for a name that is
	// already taken. It reports false once no alternatives are left.
	Disambiguate(name string, attempt int) (string, bool)
}

// InverseNamer is implemented by naming strategies that name the
// accessors of foreign keys on their referenced type.
type InverseNamer interface {
	InverseForeignKeyName(constraint, table string, columns []string) string
}

// DefaultMaxSuffix is the highest numeric suffix tried by Disambiguate.
const DefaultMaxSuffix = 99

// DefaultNamingStrategy splits identifiers into words on separators and
// case humps and joins them in PascalCase, keeping Go initialisms upper-cased.
type DefaultNamingStrategy struct {
	// MaxSuffix bounds disambiguation. Zero means DefaultMaxSuffix.
	MaxSuffix int
	// Singular singularizes the last word of class names.
	Singular bool
}

// NewNamingStrategy returns the default naming strategy.
func NewNamingStrategy() *DefaultNamingStrategy {
	return &DefaultNamingStrategy{MaxSuffix: DefaultMaxSuffix}
}

// ClassName implements NamingStrategy.
func (s *DefaultNamingStrategy) ClassName(table, prefix string) string {
	ws := words(table)
	if s.Singular && len(ws) > 0 {
		ws[len(ws)-1] = rules.Singularize(ws[len(ws)-1])
	}
	name := pascalWords(ws)
	if prefix == "" && !startsWithLetter(name) {
		name = "T" + name
	}
	return prefix + name
}

// PropertyName implements NamingStrategy.
func (s *DefaultNamingStrategy) PropertyName(column string) string {
	name := pascal(column)
	if !startsWithLetter(name) {
		name = "C" + name
	}
	if _, ok := reservedMembers[name]; ok {
		name += "_"
	}
	return name
}

// TableName implements NamingStrategy.
func (s *DefaultNamingStrategy) TableName(className, prefix string) string {
	return snake(strings.TrimPrefix(className, prefix))
}

// ForeignKeyName implements NamingStrategy. Named constraints keep their
// name without an "fk_" prefix. Generated constraint names fall back to
// the local column names.
func (s *DefaultNamingStrategy) ForeignKeyName(constraint string, columns []string) string {
	lower := strings.ToLower(constraint)
	switch {
	case constraint == "" || strings.HasSuffix(lower, "_fkey") || strings.Contains(lower, "_ibfk_"):
		return "FK" + pascal(strings.Join(columns, "_"))
	case strings.HasPrefix(lower, "fk_"):
		return "FK" + pascal(constraint[3:])
	default:
		return "FK" + pascal(constraint)
	}
}

// InverseForeignKeyName implements InverseNamer. The accessor on the
// referenced type is the plural of the referencing table followed by the
// foreign key name, e.g. EmployeesBySuperiorID.
func (s *DefaultNamingStrategy) InverseForeignKeyName(constraint, table string, columns []string) string {
	return plural(pascal(table)) + "By" + strings.TrimPrefix(s.ForeignKeyName(constraint, columns), "FK")
}

// Disambiguate implements NamingStrategy. It yields name2, name3, ...
// up to MaxSuffix. Names ending in a digit get an underscore before the suffix.
func (s *DefaultNamingStrategy) Disambiguate(name string, attempt int) (string, bool) {
	limit := s.MaxSuffix
	if limit == 0 {
		limit = DefaultMaxSuffix
	}
	n := attempt + 1
	if attempt < 1 || n > limit {
		return "", false
	}
	if name != "" && unicode.IsDigit(rune(name[len(name)-1])) {
		name += "_"
	}
	return name + strconv.Itoa(n), true
}

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})

	// members of the embedded runtime entity and the generated key accessors.
	reservedMembers = names(
		"Alias",
		"Column",
		"Columns",
		"Entity",
		"ForeignKeys",
		"Paths",
		"PK",
		"PrimaryKey",
		"QualifiedName",
		"Schema",
		"String",
		"Table",
	)

	// package names imported by generated files.
	importPkg = names("json", "qgen", "time", "uuid")
	// defaultReceiver is used when no identifier can be derived from a type name.
	defaultReceiver = "t"
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds a new acronym to the naming rules. Not safe for
// concurrent use with running exports.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isAcronym(w string) bool {
	_, ok := acronyms[w]
	return ok
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// isSeparator reports whether r separates words in a catalog identifier.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r) || !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// words splits s on separators and case humps.
func words(s string) []string {
	var ws []string
	for _, part := range strings.FieldsFunc(s, isSeparator) {
		ws = append(ws, strings.FieldsFunc(snake(part), isSeparator)...)
	}
	return ws
}

func pascalWords(words []string) string {
	var (
		b     strings.Builder
		title = cases.Title(language.Und)
	)
	for _, w := range words {
		upper := strings.ToUpper(w)
		switch r, _ := utf8.DecodeRuneInString(w); {
		case isAcronym(upper):
			b.WriteString(upper)
		case unicode.IsLetter(r):
			b.WriteString(title.String(w))
		default:
			b.WriteString(w)
		}
	}
	return b.String()
}

// pascal converts the given name into a PascalCase.
//
//	user_info 	=> UserInfo
//	full_name 	=> FullName
//	user_id   	=> UserID
//	full-admin	=> FullAdmin
func pascal(s string) string {
	return pascalWords(words(s))
}

// camel converts the given name into a camelCase.
//
//	user_info  => userInfo
//	full_name  => fullName
//	user_id    => userID
//	full-admin => fullAdmin
func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	return cases.Lower(language.Und).String(ws[0]) + pascalWords(ws[1:])
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j  int
		b  strings.Builder
		rs = []rune(s)
	)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rs[i-1]) ||
				j != i-1 && unicode.IsLower(rs[i+1]) && unicode.IsLetter(rs[i-1]) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// receiver returns the receiver name of the given type.
//
//	[]T       => t
//	[1]T      => t
//	User      => u
//	UserQuery => uq
//	2024      => t
func receiver(s string) string {
	// Trim invalid tokens for identifier prefix.
	s = strings.Trim(s, "[]*&0123456789")
	parts := strings.Split(snake(s), "_")
	words := make([][]rune, len(parts))
	for i, w := range parts {
		words[i] = []rune(w)
	}
	min := len(words[0])
	for _, w := range words[1:] {
		if len(w) < min {
			min = len(w)
		}
	}
	for i := 1; i < min; i++ {
		var r []rune
		for _, w := range words {
			r = append(r, w[:i]...)
		}
		if _, ok := importPkg[string(r)]; !ok {
			s = string(r)
			break
		}
	}
	name := strings.ToLower(s)
	if token.Lookup(name).IsKeyword() {
		name = "_" + name
	}
	if _, ok := importPkg[name]; ok || name == "alias" || !token.IsIdentifier(name) {
		return defaultReceiver
	}
	return name
}

// plural a name.
func plural(name string) string {
	p := rules.Pluralize(name)
	if p == name {
		p += "Slice"
	}
	return p
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}
