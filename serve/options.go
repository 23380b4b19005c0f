package serve

// Option configures the parameter server module.
type Option func(*Config)

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(cfg *Config) {
		cfg.Address = addr
	}
}

// WithGzip enables response compression.
func WithGzip() Option {
	return func(cfg *Config) {
		cfg.Gzip = true
	}
}
