package synparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// repeatedXRule matches zero or more "x" keywords via ZeroToMany, wrapped so
// the grammar overall still requires at least the wrapping rule to run once
// per Parse.
var gtKwX = NewKeyword("x")

type repeatedXRule struct{}

func (repeatedXRule) RuleName() string { return "repeated" }

func (repeatedXRule) Expand(start, end GrammarElement, ctx *Context) error {
	Sequence(start, ZeroToMany(TokenNode(gtKwX, "x")), end)
	return nil
}

func TestZeroToManyMatchesAnyCount(t *testing.T) {
	g := NewGrammar(repeatedXRule{}, gtKwX)
	p := NewParser(g)

	for _, src := range []string{"", "x", "x x", "x x x x"} {
		ast, err := p.ParseString(src)
		assert.NoErrorf(t, err, "input %q", src)
		assert.Equal(t, "repeated", ast.Name())
	}
}

// repeatSameWordRule matches two words in a row, the first through an
// EnvChangingTokenNode whose hook records the word into the rule-scoped
// environment. The second word is not compared against the first.
var gtWordAny = NewWord(`[A-Za-z]+`)

type repeatSameWordRule struct{}

func (repeatSameWordRule) RuleName() string { return "repeatSame" }

func (repeatSameWordRule) Expand(start, end GrammarElement, ctx *Context) error {
	first := EnvChangingTokenNode(gtWordAny, "first", func(env map[string]interface{}, tok Token) {
		env["first"] = tok.Text
	})
	second := TokenNode(gtWordAny, "second")
	Sequence(start, first, second, end)
	return nil
}

func TestEnvChangingTokenNodeMatchesLikeTokenNode(t *testing.T) {
	g := NewGrammar(repeatSameWordRule{}, gtWordAny)
	p := NewParser(g)

	ast, err := p.ParseString("foo bar")
	assert.NoError(t, err)
	assert.Equal(t, "foo", ast.ChildById("first").Text())
	assert.Equal(t, "bar", ast.ChildById("second").Text())
}

// rejectedRule always contextually rejects itself via SuccessorError, the way
// a rule might when ctx reveals its alternative doesn't apply here (e.g. a
// keyword only valid in a given environment). acceptedRule is its sibling
// alternative, wired to run instead.
type rejectedRule struct{}

func (rejectedRule) RuleName() string { return "rejected" }

func (rejectedRule) Expand(start, end GrammarElement, ctx *Context) error {
	return &SuccessorError{Reason: "rejected unconditionally for this test"}
}

var gtWordOk = NewKeyword("ok")

type acceptedRule struct{}

func (acceptedRule) RuleName() string { return "accepted" }

func (acceptedRule) Expand(start, end GrammarElement, ctx *Context) error {
	Sequence(start, TokenNode(gtWordOk, "word"), end)
	return nil
}

type choiceRule struct{}

func (choiceRule) RuleName() string { return "choice" }

func (choiceRule) Expand(start, end GrammarElement, ctx *Context) error {
	rejected := RuleRef(rejectedRule{})
	accepted := RuleRef(acceptedRule{})

	start.plug().successors = append(start.plug().successors, rejected.socket(), accepted.socket())
	rejected.plug().successors = append(rejected.plug().successors, end.socket())
	accepted.plug().successors = append(accepted.plug().successors, end.socket())
	return nil
}

// TestSuccessorErrorPrunesBranchAndFallsThroughToSibling checks that a
// *SuccessorError returned from Expand is treated as an ordinary failed
// alternative rather than a fatal error: the parser abandons rejectedRule and
// falls through to try acceptedRule next, succeeding overall.
func TestSuccessorErrorPrunesBranchAndFallsThroughToSibling(t *testing.T) {
	g := NewGrammar(choiceRule{}, gtWordOk)
	p := NewParser(g)

	ast, err := p.ParseString("ok")
	assert.NoError(t, err)
	assert.Equal(t, "choice", ast.Name())
	assert.Nil(t, ast.Child("rejected"))
	assert.NotNil(t, ast.Child("accepted"))
}

func TestConnectWiresPlugToSocket(t *testing.T) {
	a := Connector()
	b := Connector()
	combined := Connect(a, b)

	assert.Same(t, a.socket(), combined.socket())
	assert.Same(t, b.plug(), combined.plug())
	assert.Contains(t, a.plug().successors, b.socket())
}
