package command

import "strings"

// Invocation is a parsed command line.
type Invocation struct {
	Name string
	Args []string
}

// Parse splits a prefixed command message into name and arguments. Command
// names are case-insensitive. ok is false when the content does not start
// with the prefix or carries no command name.
func Parse(prefix, content string) (inv Invocation, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return Invocation{}, false
	}

	parts := strings.Fields(content[len(prefix):])
	if len(parts) == 0 {
		return Invocation{}, false
	}

	return Invocation{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}, true
}

// parseUserArg turns a user argument into a bare user ID, stripping the
// platform's mention wrappers (<@123>, <@!123>).
func parseUserArg(arg string) string {
	arg = strings.TrimSpace(arg)
	arg = strings.TrimPrefix(arg, "<@!")
	arg = strings.TrimPrefix(arg, "<@")
	arg = strings.TrimSuffix(arg, ">")
	return arg
}
