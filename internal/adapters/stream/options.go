package stream

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithBufferSize sets the scanner's initial buffer size in bytes.
func WithBufferSize(size int) Option {
	return func(s *Source) {
		if size > 0 {
			s.bufferSize = size
		}
	}
}

// WithMaxLineSize caps the length of a single input line in bytes.
func WithMaxLineSize(size int) Option {
	return func(s *Source) {
		if size > 0 {
			s.maxLineSize = size
		}
	}
}

// WithChannelSize sets the delivery channel's buffer.
func WithChannelSize(size int) Option {
	return func(s *Source) {
		if size > 0 {
			s.channelSize = size
		}
	}
}
