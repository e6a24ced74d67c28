// Package action defines the set of lifecycle actions a single devstack
// invocation can request, parses command-line tokens into that set, and
// resolves conflicts between actions requested together.
//
// The package is pure: it never prints and never touches the environment,
// so the token grammar and the conflict rules are testable in isolation.
package action

import "fmt"

// Set holds the lifecycle actions requested by one invocation.
// It is populated by Parse, rewritten in place by Resolve, and read-only
// after that.
type Set struct {
	Build      bool
	Start      bool
	Detached   bool
	Halt       bool
	Tidy       bool
	Clean      bool
	Armageddon bool

	// Usage is set when the usage token appears anywhere in the input.
	// It takes precedence over every other token.
	Usage bool
}

// Any reports whether at least one lifecycle action was requested.
// Usage does not count: it is a request for help, not for work.
func (s *Set) Any() bool {
	return s.Build || s.Start || s.Detached || s.Halt || s.Tidy || s.Clean || s.Armageddon
}

// UnknownTokenError is returned by Parse for the first token that does not
// match the action vocabulary.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Token)
}

// Parse converts an ordered token sequence into a Set. Each token must match
// the fixed vocabulary (long form or single-letter alias); parsing stops at
// the first unknown token. Repeating a token is harmless.
func Parse(tokens []string) (*Set, error) {
	set := &Set{}

	// usage outranks every other token, including unknown ones, so it is
	// honored before the vocabulary check can fail.
	for _, tok := range tokens {
		if tok == "usage" || tok == "u" {
			set.Usage = true
			return set, nil
		}
	}

	for _, tok := range tokens {
		switch tok {
		case "build", "b":
			set.Build = true
		case "start", "s":
			set.Start = true
		case "detached", "d":
			set.Detached = true
		case "halt", "stop", "h":
			set.Halt = true
		case "tidy", "t":
			set.Tidy = true
		case "clean", "c":
			set.Clean = true
		case "armageddon", "a":
			set.Armageddon = true
		default:
			return nil, &UnknownTokenError{Token: tok}
		}
	}

	return set, nil
}
