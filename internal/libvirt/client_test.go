package libvirt

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestConnect tests basic connection functionality.
// This is an integration test that requires libvirt to be running.
func TestConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Try to connect with defaults
	c, err := Connect("", 0)
	if err != nil {
		t.Skipf("libvirt not available: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	// Verify connection works
	if err := c.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

// TestConnect_CustomSocket tests connection with a custom socket path.
func TestConnect_CustomSocket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Try explicit socket path
	c, err := Connect("/var/run/libvirt/libvirt-sock", 5*time.Second)
	if err != nil {
		t.Skipf("libvirt not available: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if err := c.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

// TestConnect_InvalidSocket tests connection failure with invalid socket.
func TestConnect_InvalidSocket(t *testing.T) {
	_, err := Connect("/nonexistent/socket", 100*time.Millisecond)
	if err == nil {
		t.Fatal("expected error connecting to nonexistent socket, got nil")
	}
}

// TestConnectWithContext_Cancellation tests context cancellation.
func TestConnectWithContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Cancel immediately
	cancel()

	_, err := ConnectWithContext(ctx, "", 0)
	if err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// TestConnectWithContext_Success tests successful connection with context.
func TestConnectWithContext_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := ConnectWithContext(ctx, "", 0)
	if err != nil {
		t.Skipf("libvirt not available: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if err := c.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

// TestClose_Idempotent tests that Close can be called multiple times safely.
func TestClose_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	c, err := Connect("", 0)
	if err != nil {
		t.Skipf("libvirt not available: %v", err)
	}

	// Close multiple times
	if err := c.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

// TestPing_Disconnected tests Ping on a disconnected client.
func TestPing_Disconnected(t *testing.T) {
	c := &Client{}

	err := c.Ping()
	if err == nil {
		t.Fatal("expected error from Ping on nil client, got nil")
	}
}

// TestLibVersion_Live checks the version against a running daemon.
func TestLibVersion_Live(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	c, err := Connect("", 0)
	if err != nil {
		t.Skipf("libvirt not available: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	version, err := c.LibVersion()
	if err != nil {
		t.Fatalf("LibVersion failed: %v", err)
	}
	if version == "0.0.0" {
		t.Fatal("got version 0.0.0, expected non-zero")
	}
}

func TestLibVersion(t *testing.T) {
	api := newMockAPI()
	api.libVersion = 10008000
	c := NewClient(api)

	version, err := c.LibVersion()
	if err != nil {
		t.Fatalf("LibVersion failed: %v", err)
	}
	if version != "10.8.0" {
		t.Errorf("LibVersion = %q, want %q", version, "10.8.0")
	}
}

func TestPing_Error(t *testing.T) {
	api := newMockAPI()
	api.libVersionErr = errors.New("connection reset by peer")
	c := NewClient(api)

	if err := c.Ping(); err == nil {
		t.Fatal("expected error from Ping, got nil")
	}
}

func TestClose_DisconnectsOnce(t *testing.T) {
	api := newMockAPI()
	c := NewClient(api)

	if err := c.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if api.disconnectCalls != 1 {
		t.Errorf("Disconnect called %d times, want 1", api.disconnectCalls)
	}
	if err := c.Ping(); err == nil {
		t.Error("expected Ping to fail after Close")
	}
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0.0.0"},
		{1002003, "1.2.3"},
		{9000000, "9.0.0"},
		{10010001, "10.10.1"},
	}
	for _, tt := range tests {
		if got := FormatVersion(tt.in); got != tt.want {
			t.Errorf("FormatVersion(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
