package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// ErrCommandFailed is returned when an external command exits with a non-zero status.
var ErrCommandFailed = errors.New("command failed")

// DefaultP4Binary is the executable used when none is configured.
const DefaultP4Binary = "p4"

var (
	serverIDRe      = regexp.MustCompile(`(?m)^\.\.\. serverID (\S+)`)
	serverAddressRe = regexp.MustCompile(`(?m)^\.\.\. serverAddress (\S+)`)
)

// LocalP4Client implements the P4Client interface by executing the
// local 'p4' binary installed on the machine.
type LocalP4Client struct {
	binary string
	port   string
	user   string
	client string

	keyOnce sync.Once
	key     string
}

var _ P4Client = &LocalP4Client{} // Compile-time check

// NewLocalP4Client creates a new instance of the local Perforce client.
// Empty port, user and client fall back to the p4 environment (P4PORT, P4USER, P4CLIENT).
func NewLocalP4Client(binary, port, user, client string) *LocalP4Client {
	if binary == "" {
		binary = DefaultP4Binary
	}
	return &LocalP4Client{binary: binary, port: port, user: user, client: client}
}

// NewLocalP4ClientFromConfig creates a Perforce client from the validated config.
func NewLocalP4ClientFromConfig(cfg *Config) *LocalP4Client {
	return NewLocalP4Client(cfg.P4Binary, cfg.P4Port, cfg.P4User, cfg.P4Client)
}

// globalArgs returns the connection options placed before every p4 command.
func (c *LocalP4Client) globalArgs() []string {
	var args []string
	if c.port != "" {
		args = append(args, "-p", c.port)
	}
	if c.user != "" {
		args = append(args, "-u", c.user)
	}
	if c.client != "" {
		args = append(args, "-c", c.client)
	}
	return args
}

// CommandLine renders the full command line for the given p4 arguments.
func (c *LocalP4Client) CommandLine(args ...string) string {
	full := append([]string{c.binary}, c.globalArgs()...)
	return strings.Join(append(full, args...), " ")
}

// Run executes a p4 command and returns its combined stdout/stderr output.
func (c *LocalP4Client) Run(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append(c.globalArgs(), args...)
	cmd := exec.CommandContext(ctx, c.binary, fullArgs...)
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := strings.TrimSpace(string(out))
		return nil, fmt.Errorf("%w: %q exited with status %d: %s", ErrCommandFailed, c.CommandLine(args...), exitErr.ExitCode(), detail)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %q: %v. Ensure p4 is installed and available on your PATH", ErrCommandFailed, c.CommandLine(args...), err)
	}
	return out, nil
}

// Annotate implements the P4Client interface.
func (c *LocalP4Client) Annotate(ctx context.Context, path string) ([]byte, error) {
	return c.Run(ctx, "-s", "annotate", "-a", "-i", "-I", path)
}

// Describe implements the P4Client interface.
func (c *LocalP4Client) Describe(ctx context.Context, change int) ([]byte, error) {
	return c.Run(ctx, "describe", "-s", strconv.Itoa(change))
}

// ServerKey implements the P4Client interface.
// It is resolved once per client: the configured port, then the server
// identity reported by `p4 -ztag info`, then P4PORT. An empty key means
// the server could not be identified.
func (c *LocalP4Client) ServerKey() string {
	c.keyOnce.Do(func() {
		c.key = c.resolveServerKey(context.Background())
	})
	return c.key
}

func (c *LocalP4Client) resolveServerKey(ctx context.Context) string {
	if c.port != "" {
		return c.port
	}
	if out, err := c.Run(ctx, "-ztag", "info"); err == nil {
		if match := serverIDRe.FindSubmatch(out); match != nil {
			return string(match[1])
		}
		if match := serverAddressRe.FindSubmatch(out); match != nil {
			return string(match[1])
		}
	}
	return os.Getenv("P4PORT")
}
