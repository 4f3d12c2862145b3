package abbr

import "strings"

// CommandName is the primary command and tool name.
const CommandName = "abbr"

// Aliases lists every trigger word for the lookup, primary name first.
// Both the command router and the passive keyword listener consult it.
var Aliases = []string{CommandName, "缩写", "nbnhhsh", "hhsh"}

var aliasSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Aliases))
	for _, a := range Aliases {
		set[a] = struct{}{}
	}
	return set
}()

// IsAlias reports whether token is one of the trigger words, ignoring case.
func IsAlias(token string) bool {
	_, ok := aliasSet[strings.ToLower(token)]
	return ok
}
