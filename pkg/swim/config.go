package swim

import (
	"fmt"
	"strings"
	"time"
)

// Config contains configurations for running swim server.
type Config struct {
	// Address is a combination of host:port string of the local UDP
	// endpoint. It forms the identity of the local member.
	Address NodeAddress

	// Peers are the seed members inserted as alive at construction.
	Peers []NodeAddress

	// PingPeriod is the time interval of generates ping message.
	// Swim server will sends ping periodically with this interval.
	PingPeriod time.Duration

	// PingExpire is the wait before a silent direct probe is escalated
	// to indirect probing. Must be shorter than PingPeriod.
	PingExpire time.Duration

	// PingRequestGroupSize is the number of helpers asked to probe a
	// silent member indirectly.
	PingRequestGroupSize int

	// SuspectExpire is the delay from suspecting a member to declaring
	// it faulty, absent a refutation.
	SuspectExpire time.Duration

	// DisseminationLimit bounds the gossip event queue.
	DisseminationLimit int

	// PiggybackLimit is the maximum number of gossip events attached
	// to a single outgoing packet.
	PiggybackLimit int
}

// DefaultConfig returns a config with the default protocol settings.
func DefaultConfig() *Config {
	return &Config{
		PingPeriod:           2000 * time.Millisecond,
		PingExpire:           300 * time.Millisecond,
		PingRequestGroupSize: 3,
		SuspectExpire:        10 * time.Second,
		DisseminationLimit:   64,
		PiggybackLimit:       8,
	}
}

func validateConfig(config *Config) error {
	if config.PingPeriod <= 0*time.Second {
		return fmt.Errorf("ping period is too short")
	}

	if config.PingExpire <= 0*time.Second {
		return fmt.Errorf("ping expire time is too short")
	}

	if config.SuspectExpire <= 0*time.Second {
		return fmt.Errorf("suspect expire time is too short")
	}

	if config.PingRequestGroupSize < 0 {
		return fmt.Errorf("negative ping request group size")
	}

	if config.DisseminationLimit <= 0 {
		return fmt.Errorf("dissemination limit is too small")
	}

	if config.PiggybackLimit < 0 {
		return fmt.Errorf("negative piggyback limit")
	}

	if len(strings.Split(string(config.Address), ":")) != 2 {
		return fmt.Errorf("invalid address format")
	}

	return nil
}
