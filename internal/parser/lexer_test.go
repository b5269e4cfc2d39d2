package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLex_Operators(t *testing.T) {
	lexemes := Lex("a&&b||c;d|e 2>>log <<<x")

	var kinds []Kind
	var raws []string
	for _, lx := range lexemes {
		kinds = append(kinds, lx.Kind)
		raws = append(raws, lx.Raw)
	}

	assert.Equal(t, []string{"a", "&&", "b", "||", "c", ";", "d", "|", "e", "2", ">>", "log", "<<<", "x"}, raws)
	assert.Equal(t, KindWord, kinds[0])
	assert.Equal(t, KindOperator, kinds[1])
	assert.Equal(t, KindOperator, kinds[10])
	assert.Equal(t, KindOperator, kinds[12])
}

func TestLex_Offsets(t *testing.T) {
	lexemes := Lex("é 'ü x'")
	if assert.Len(t, lexemes, 2) {
		assert.Equal(t, 0, lexemes[0].Start)
		assert.Equal(t, 1, lexemes[0].End)
		assert.Equal(t, 2, lexemes[1].Start)
		assert.Equal(t, 7, lexemes[1].End)
		assert.Equal(t, "ü x", lexemes[1].Value)
		assert.False(t, lexemes[1].Open)
	}
}

func TestLex_OpenConstructs(t *testing.T) {
	tests := []struct {
		line string
		open bool
	}{
		{`"abc`, true},
		{`'abc`, true},
		{`$(abc`, true},
		{"`abc", true},
		{`${abc`, true},
		{`$'abc`, true},
		{`"abc"`, false},
		{`$(a "b)" c)`, false},
		{`$(a $(b) c`, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			lexemes := Lex(tt.line)
			if assert.Len(t, lexemes, 1) {
				assert.Equal(t, tt.open, lexemes[0].Open)
				assert.Equal(t, tt.line, lexemes[0].Raw)
			}
		})
	}
}

func TestLex_Subshell(t *testing.T) {
	lexemes := Lex("(cd x) | wc")
	var raws []string
	for _, lx := range lexemes {
		raws = append(raws, lx.Raw)
	}
	assert.Equal(t, []string{"(", "cd", "x", ")", "|", "wc"}, raws)
	assert.Equal(t, KindOperator, lexemes[0].Kind)
	assert.Equal(t, KindOperator, lexemes[3].Kind)
}

func TestLex_Extglob(t *testing.T) {
	lexemes := Lex("ls !(a|b).c")
	if assert.Len(t, lexemes, 2) {
		assert.Equal(t, "!(a|b).c", lexemes[1].Value)
	}
}

func TestIsControlOperator(t *testing.T) {
	assert.True(t, IsControlOperator("|"))
	assert.True(t, IsControlOperator("&&"))
	assert.True(t, IsControlOperator(";"))
	assert.False(t, IsControlOperator(">"))
	assert.False(t, IsControlOperator("<<"))
	assert.True(t, IsPipe("|&"))
	assert.False(t, IsPipe("||"))
}
