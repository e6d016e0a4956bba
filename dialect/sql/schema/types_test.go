package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/qgen/dialect"
)

func TestTypeCodeOf(t *testing.T) {
	tests := []struct {
		name string
		want TypeCode
	}{
		{"integer", TypeInteger},
		{"INT", TypeInteger},
		{"int(11) unsigned", TypeInteger},
		{"character varying", TypeVarChar},
		{"VARCHAR(50)", TypeVarChar},
		{"DECIMAL(10,2)", TypeDecimal},
		{"timestamp with time zone", TypeTimestampWithTimezone},
		{"timestamp(3) with time zone", TypeTimestampWithTimezone},
		{"datetime", TypeTimestamp},
		{"bytea", TypeBinary},
		{"boolean", TypeBoolean},
		{"_int4", TypeArray},
		{"text[]", TypeArray},
		{"uuid", TypeOther},
		{"geometry", TypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeCodeOf(tt.name))
		})
	}
}

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		in          string
		base        string
		size, scale int64
	}{
		{"DECIMAL(10, 2)", "decimal", 10, 2},
		{"varchar(30)", "varchar", 30, 0},
		{"int", "int", 0, 0},
		{" Double Precision ", "double precision", 0, 0},
		{"tinyint(1) unsigned", "tinyint", 1, 0},
		{"enum('a','b')", "enum", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, size, scale := ParseTypeName(tt.in)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.size, size)
			assert.Equal(t, tt.scale, scale)
		})
	}
}

func TestTypeCode_String(t *testing.T) {
	assert.Equal(t, "VARCHAR", TypeVarChar.String())
	assert.Equal(t, "TIMESTAMP_WITH_TIMEZONE", TypeTimestampWithTimezone.String())
	assert.Equal(t, "TypeCode(42)", TypeCode(42).String())
}

func TestSQLiteTypeCode(t *testing.T) {
	tests := map[string]TypeCode{
		"":                      TypeBlob,
		"INT":                   TypeInteger,
		"UNSIGNED BIG INT":      TypeInteger,
		"NATIVE CHARACTER":      TypeVarChar,
		"VARYING CHARACTER(70)": TypeVarChar,
		"DECIMAL(10,2)":         TypeDecimal,
		"FLOATING POINT":        TypeInteger,
		"DOUBLE PRECISION":      TypeDouble,
		"REALNUM":               TypeDouble,
		"STRINGS":               TypeNumeric,
		"jsonb":                 TypeOther,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, sqliteTypeCode(in))
		})
	}
}

func TestLike(t *testing.T) {
	tests := []struct {
		pattern, s string
		want       bool
	}{
		{"", "anything", true},
		{"%", "", true},
		{"emp%", "employee", true},
		{"emp%", "survey", false},
		{"%_test", "date_test", true},
		{"date\\_test", "date_test", true},
		{"date\\_test", "dateXtest", false},
		{"date_test", "dateXtest", true},
		{"s_rvey", "survey", true},
		{"s_rvey", "srvey", false},
		{"%time%", "date_time_test", true},
		{"EMP%", "employee", false},
		{"%%emp", "emp", true},
		{"emp\\", "emp\\", true},
		{"%a%b%c", "xaybzc", true},
		{"%a%b%c", "xaybzcd", false},
		{"用_", "用户", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, Like(tt.pattern, tt.s))
		})
	}
}

func TestLikeFold(t *testing.T) {
	assert.True(t, LikeFold("EMP%", "employee"))
	assert.True(t, LikeFold("emp_oyee", "EMPLOYEE"))
	assert.False(t, LikeFold("ÄPFEL", "äpfel"), "only ASCII letters fold")
	assert.False(t, LikeFold("emp%", "survey"))

	assert.True(t, Matcher(dialect.SQLite)("EMP%", "employee"))
	assert.True(t, Matcher(dialect.MySQL)("EMP%", "employee"))
	assert.False(t, Matcher(dialect.Postgres)("EMP%", "employee"))
	assert.False(t, Matcher("")("EMP%", "employee"))
}

func TestLike_ManyWildcards(t *testing.T) {
	pattern := strings.Repeat("%a", 30) + "%b"
	s := strings.Repeat("a", 200)
	done := make(chan bool)
	go func() { done <- Like(pattern, s) }()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("matching did not finish")
	}
}
