package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgsm-ai/response-parser/internal/config"
	"github.com/zgsm-ai/response-parser/internal/logger"
	"github.com/zgsm-ai/response-parser/internal/metrics"
	"github.com/zgsm-ai/response-parser/internal/parser"
	"go.uber.org/zap"
)

// main reads one model response from a file or stdin, parses it into the
// canonical node tree and prints the tree as JSON.
func main() {
	var configFile string
	var inputFile string
	flag.StringVar(&configFile, "f", "", "the config file")
	flag.StringVar(&inputFile, "i", "", "input file (defaults to stdin)")
	flag.Parse()
	defer logger.Sync()

	c := config.Default()
	if configFile != "" {
		c = config.MustLoadConfig(configFile)
	}
	if err := logger.SetLevel(c.Log.Level); err != nil {
		logger.Warn("invalid log level, keeping default",
			zap.String("level", c.Log.Level),
		)
	}

	input, err := readInput(inputFile)
	if err != nil {
		logger.Error("failed to read input", zap.Error(err))
		os.Exit(1)
	}

	m := metrics.New()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Warn("failed to register metrics", zap.Error(err))
	}

	p := parser.New(c, parser.WithMetrics(m))
	tree := p.Parse(input)

	if result := p.Validate(tree); !result.IsValid {
		for _, issue := range result.Issues {
			logger.Warn("validation issue",
				zap.String("severity", string(issue.Severity)),
				zap.String("message", issue.Message),
			)
		}
	}

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		logger.Error("failed to marshal tree", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
