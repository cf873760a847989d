package synparse

// Context is a read-only view of the current path exposed to a Rule's
// Expand callback. It lets grammar code make contextual decisions — reject
// a branch with a SuccessorError, look up an environment variable recorded
// by an ancestor rule, or inspect the keyword type of the token currently
// being matched.
type Context struct {
	path  *path
	token *Token
}

// GetEnvVar looks up name in the nearest enclosing rule scope that declared
// it, searching innermost-first. ok is false if no open scope has it.
func (c *Context) GetEnvVar(name string) (interface{}, bool) {
	return c.path.getEnvVar(name)
}

// CurKeyword returns the Keyword TokenType among the current token's
// matched types, if any. It returns nil outside of a token-matching
// traversal, or when the current token did not match a Keyword.
func (c *Context) CurKeyword() *Keyword {
	if c.token == nil {
		return nil
	}
	return c.token.Keyword()
}
