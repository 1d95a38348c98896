package utils

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// PingAddress opens and closes a TCP connection to address
func PingAddress(ctx context.Context, address string, timeout time.Duration) error {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingSMTP checks if the SMTP relay accepts connections
func PingSMTP(ctx context.Context, host string, port int) error {
	return PingAddress(ctx, net.JoinHostPort(host, strconv.Itoa(port)), 1500*time.Millisecond)
}
