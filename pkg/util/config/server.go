package config

// Server includes info required to run a membership server.
type Server struct {
	// ID is a unique string identifying one server run. It is
	// generated at bootstrap and only used for logging.
	ID string

	// Addr and Port form the UDP bind address of this node. The
	// combination is also the node's identity in the cluster.
	Addr string
	Port string

	// Peers is a comma separated list of seed member addresses.
	Peers string

	// AdminAddr is the bind address of the admin http endpoint.
	AdminAddr string

	// ConfigFile is the path the configuration was loaded from.
	// When set, the server watches it and re-applies the log level
	// on changes.
	ConfigFile string

	LogLocation string
	LogLevel    string

	Swim Swim
}

// Swim includes the protocol timing settings. All values are duration
// or integer strings so they can come verbatim from the config file;
// unparsable values fall back to the protocol defaults.
type Swim struct {
	// Period is an interval time of pinging.
	Period string

	// Expire is an expire time of pinging.
	Expire string

	// SuspectExpire is the delay from suspecting a member to
	// declaring it faulty.
	SuspectExpire string

	// PingRequestGroupSize is the number of indirect probe helpers.
	PingRequestGroupSize string
}
