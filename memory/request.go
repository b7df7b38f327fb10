package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIDs converts the raw identifiers of a check request into card ids.
// Missing or non-integer values yield an error wrapping ErrInvalidRequest.
func ParseIDs(raw1, raw2 string) (int, int, error) {
	id1, err := parseID("id1", raw1)
	if err != nil {
		return 0, 0, err
	}

	id2, err := parseID("id2", raw2)
	if err != nil {
		return 0, 0, err
	}

	return id1, id2, nil
}

func parseID(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidRequest, name)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer: %q", ErrInvalidRequest, name, raw)
	}

	return id, nil
}

// RequireIDs is ParseIDs for transports that decode ids as optional integers.
func RequireIDs(id1, id2 *int) (int, int, error) {
	if id1 == nil {
		return 0, 0, fmt.Errorf("%w: missing id1", ErrInvalidRequest)
	}
	if id2 == nil {
		return 0, 0, fmt.Errorf("%w: missing id2", ErrInvalidRequest)
	}

	return *id1, *id2, nil
}
