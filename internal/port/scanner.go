package port

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrPortInUse is returned by Check when the port is bound by another process.
var ErrPortInUse = errors.New("port already in use")

// Scanner checks port availability by attempting to bind it.
//
// Binding through net.Listen asks the OS directly, which needs no elevated
// permissions and no parsing of /proc or lsof output.
type Scanner struct {
	// host is the address to bind. Empty binds all interfaces, which is
	// where dev servers such as `ng serve --host 0.0.0.0` listen.
	host string
}

// NewScanner creates a Scanner that binds all interfaces.
func NewScanner() *Scanner {
	return NewHostScanner("")
}

// NewHostScanner creates a Scanner that binds a specific host address.
func NewHostScanner(host string) *Scanner {
	return &Scanner{host: host}
}

// IsPortAvailable reports whether a TCP listener can be opened on port.
// Out-of-range ports are reported as unavailable.
func (s *Scanner) IsPortAvailable(port int) bool {
	if port < 1 || port > 65535 {
		return false
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// Check returns an error wrapping ErrPortInUse if port is not available.
func (s *Scanner) Check(port int) error {
	if !s.IsPortAvailable(port) {
		return fmt.Errorf("%w: %d", ErrPortInUse, port)
	}
	return nil
}
