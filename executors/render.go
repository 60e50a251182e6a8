package executors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/botweave/chatflow/engine"
)

// tokenPattern matches {{token}} placeholders. The substitution contract
// is intentionally minimal and non-Turing-complete: fixed builtin tokens
// plus the variables map, no conditionals, loops, or nesting.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// Render substitutes {{token}} placeholders in a template against the
// execution context. Builtin tokens: input / user_message, session_id,
// workspace_id. Every other token is looked up in the variables map;
// unknown tokens are left verbatim so template mistakes stay visible.
func Render(template string, ec *engine.ExecutionContext) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))
		switch token {
		case "input", "user_message":
			return ec.UserMessage
		case "session_id":
			return ec.SessionID
		case "workspace_id":
			return ec.WorkspaceID
		}
		if v, ok := ec.Variable(token); ok {
			if s, isString := v.(string); isString {
				return s
			}
			return fmt.Sprint(v)
		}
		return match
	})
}
