package client

const (
	// FirstChar lowest character of guessed domains
	FirstChar = '0'

	// LastChar highest character of guessed domains
	LastChar = 'z'
)

// NextDomain returns a domain sorting after s: the last character is incremented,
// a trailing LastChar gets FirstChar appended
func NextDomain(s string) string {
	if s == "" {
		return string(FirstChar)
	}

	b := []byte(s)
	last := len(b) - 1

	if b[last] < LastChar {
		b[last]++

		return string(b)
	}

	return s + string(FirstChar)
}

// PreviousDomain returns a domain sorting before s: the last character is decremented,
// a trailing FirstChar is dropped. A single FirstChar stays unchanged.
func PreviousDomain(s string) string {
	if s == "" {
		return string(FirstChar)
	}

	b := []byte(s)
	last := len(b) - 1

	switch {
	case b[last] > FirstChar:
		b[last]--
	case len(b) > 1:
		b = b[:last]
	default:
		b[0] = FirstChar
	}

	return string(b)
}
