package config

import "time"

// SnifferConfig tunes the structured-vs-plaintext decision for streams
type SnifferConfig struct {
	// Minimum buffered characters before a streaming decision is attempted
	MinDecisionChars int
	// Characters after which a non-JSON-looking prefix is declared plain text
	ShortCircuitChars int
}

// AccumulatorConfig tunes streaming tool-call assembly
type AccumulatorConfig struct {
	// Emit advisory partial tool-call snapshots while arguments accumulate
	EmitPartialCalls bool
	// At end of stream, emit incomplete slots whose buffer is valid JSON
	// instead of dropping them
	FlushValidIncomplete bool
}

// StreamConfig tunes the streaming entry point
type StreamConfig struct {
	// Idle budget while awaiting the next chunk; 0 disables the watchdog
	IdleTimeout time.Duration
}

// TokenizerConfig selects the token counting encoding
type TokenizerConfig struct {
	Encoding string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Config holds all parser configuration
type Config struct {
	// Provider label stamped on trees produced by this parser
	Provider string

	Sniffer     SnifferConfig
	Accumulator AccumulatorConfig
	Stream      StreamConfig
	Tokenizer   TokenizerConfig
	Log         LogConfig
}

// Default returns the configuration used when no file is provided
func Default() Config {
	return Config{
		Provider: "hybrid",
		Sniffer: SnifferConfig{
			MinDecisionChars:  50,
			ShortCircuitChars: 20,
		},
		Accumulator: AccumulatorConfig{
			EmitPartialCalls:     true,
			FlushValidIncomplete: true,
		},
		Stream: StreamConfig{
			IdleTimeout: 0,
		},
		Tokenizer: TokenizerConfig{
			Encoding: "cl100k_base",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
