package g50a

import "errors"

var (
	// ErrConnection covers transport failures: refused connections,
	// DNS, and request timeouts. The library never retries; callers
	// decide whether the gateway being away is fatal.
	ErrConnection = errors.New("could not reach the gateway")

	// ErrProtocol means the gateway answered with something that is
	// not parseable XML.
	ErrProtocol = errors.New("could not parse the gateway response")

	// ErrZoneNotFound means a command named a zone id that was never
	// discovered.
	ErrZoneNotFound = errors.New("zone not found")
)
