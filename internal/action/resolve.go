package action

import (
	"errors"
	"fmt"
)

// ErrNothingRequested is returned by Resolve when the invocation named no
// action at all. Callers branch on it to print usage alongside the error.
var ErrNothingRequested = errors.New("no valid option specified")

// Resolve applies the conflict rules to a parsed Set, rewriting it in place.
// Severity downgrades are returned as warnings and execution continues;
// contradictory combinations return an error. The rules run in a fixed order:
//
//  1. detached without start is invalid input
//  2. an empty set is invalid input
//  3. start cannot be combined with any teardown action
//  4. tidy wins over clean and armageddon (least severe action wins)
//  5. clean wins over armageddon
//
// After a successful Resolve at most one of tidy/clean/armageddon remains set.
func Resolve(set *Set) (warnings []string, err error) {
	if set.Detached && !set.Start {
		return nil, errors.New("detached requires start")
	}

	if !set.Any() {
		return nil, ErrNothingRequested
	}

	if set.Start {
		// Report only the first conflict, most severe first.
		switch {
		case set.Clean:
			return nil, errors.New("start conflicts with clean")
		case set.Armageddon:
			return nil, errors.New("start conflicts with armageddon")
		case set.Tidy:
			return nil, errors.New("start conflicts with tidy")
		case set.Halt:
			return nil, errors.New("start conflicts with halt")
		}
	}

	if set.Tidy && (set.Clean || set.Armageddon) {
		if set.Clean {
			warnings = append(warnings, downgraded("clean", "tidy"))
			set.Clean = false
		}
		if set.Armageddon {
			warnings = append(warnings, downgraded("armageddon", "tidy"))
			set.Armageddon = false
		}
		return warnings, nil
	}

	if set.Clean && set.Armageddon {
		warnings = append(warnings, downgraded("armageddon", "clean"))
		set.Armageddon = false
	}

	return warnings, nil
}

func downgraded(from, to string) string {
	return fmt.Sprintf("%s requested together with %s; running %s only", from, to, to)
}
