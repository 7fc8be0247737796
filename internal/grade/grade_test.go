package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint(t *testing.T) {
	tests := []struct {
		token string
		want  float64
		ok    bool
	}{
		{"A+", 4.5, true},
		{"a", 4.5, true},
		{" a0 ", 4.0, true},
		{"B0", 3.0, true},
		{"d+", 1.5, true},
		{"FA", 0.0, true},
		{"P", PassPoint, true},
		{"np", NonPassPoint, true},
		{"A-", 0, false},
		{"", 0, false},
		{"PASS", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Point(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCounts(t *testing.T) {
	assert.True(t, Counts("F"))
	assert.True(t, Counts("c+"))
	assert.False(t, Counts("P"))
	assert.False(t, Counts("NP"))
	assert.False(t, Counts("X"))
}

func TestCoercePassNonPass(t *testing.T) {
	assert.Equal(t, Pass, CoercePassNonPass(""))
	assert.Equal(t, Pass, CoercePassNonPass("pass"))
	assert.Equal(t, Pass, CoercePassNonPass(" P "))
	assert.Equal(t, NonPass, CoercePassNonPass("fail"))
	assert.Equal(t, NonPass, CoercePassNonPass("Non-Pass"))
	assert.Equal(t, NonPass, CoercePassNonPass("np"))
	assert.Equal(t, "A0", CoercePassNonPass("a0"))
}

func TestIsPassNonPassScheme(t *testing.T) {
	assert.True(t, IsPassNonPassScheme("P/NP"))
	assert.True(t, IsPassNonPassScheme(" p/np "))
	assert.False(t, IsPassNonPassScheme("상대평가"))
	assert.False(t, IsPassNonPassScheme(""))
}

func TestIsMajor(t *testing.T) {
	assert.True(t, IsMajor("전공필수"))
	assert.True(t, IsMajor("전필"))
	assert.True(t, IsMajor("복수전선"))
	assert.True(t, IsMajor("학필(학과)"))
	assert.False(t, IsMajor("교양필수"))
	assert.False(t, IsMajor("일반선택"))
	assert.False(t, IsMajor(""))
}

func TestTokensCoverTable(t *testing.T) {
	tokens := Tokens()
	assert.Len(t, tokens, 16)
	for _, tok := range tokens {
		assert.True(t, IsValid(tok), tok)
	}
	assert.Equal(t, []string{"A", "A+"}, tokens[:2])
	assert.Equal(t, "NP", tokens[len(tokens)-1])
}
