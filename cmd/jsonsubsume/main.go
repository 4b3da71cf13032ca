// Command jsonsubsume decides whether every document accepted by a
// producer JSON Schema is also accepted by a consumer JSON Schema, and
// prints a counterexample when it isn't.
//
// Usage:
//
//	jsonsubsume [flags] producer.json consumer.json
//
// Flags:
//
//	-timeout N                     solver wall-clock budget in seconds (default 30)
//	-max-array-length N            bound on symbolic array length (default 8)
//	-ref-resolution-strategy NAME  "unfold" (only supported value)
//	-output-format NAME            pretty|json|minimal (default "pretty")
//	-counterexample-file PATH      write the counterexample JSON to PATH
//	-batch FILE                    newline-delimited producer\tconsumer file pairs
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonsubsume"
)

var (
	timeout        = flag.Int("timeout", 30, "solver wall-clock budget in seconds")
	maxArrayLength = flag.Int("max-array-length", 8, "bound on symbolic array length")
	refStrategy    = flag.String("ref-resolution-strategy", "unfold", "reference resolution strategy (unfold|simulation)")
	outputFormat   = flag.String("output-format", "pretty", "report format: pretty|json|minimal")
	cexFile        = flag.String("counterexample-file", "", "write the counterexample JSON to this path")
	batchFile      = flag.String("batch", "", "newline-delimited producer<TAB>consumer file pairs")
)

func main() {
	flag.Parse()

	cfg := jsonsubsume.Config{
		TimeoutSeconds:        *timeout,
		MaxArrayLength:        *maxArrayLength,
		RefResolutionStrategy: *refStrategy,
	}

	if *batchFile != "" {
		os.Exit(runBatch(*batchFile, cfg))
	}

	args := flag.Args()
	if len(args) != 2 {
		log.Fatal("usage: jsonsubsume [flags] producer.json consumer.json")
	}
	os.Exit(runOne(args[0], args[1], cfg))
}

func runOne(producerPath, consumerPath string, cfg jsonsubsume.Config) int {
	producer, err := readSchemaFile(producerPath)
	if err != nil {
		log.Printf("reading %s: %v", producerPath, err)
		return 2
	}
	consumer, err := readSchemaFile(consumerPath)
	if err != nil {
		log.Printf("reading %s: %v", consumerPath, err)
		return 2
	}

	result := jsonsubsume.Check(producer, consumer, cfg)
	report(result)

	if *cexFile != "" && result.Counterexample != nil {
		data, err := json.MarshalIndent(result.Counterexample, "", "  ")
		if err != nil {
			log.Printf("marshaling counterexample: %v", err)
			return 2
		}
		if err := os.WriteFile(*cexFile, data, 0o644); err != nil {
			log.Printf("writing %s: %v", *cexFile, err)
			return 2
		}
	}

	switch {
	case result.ErrorKind != jsonsubsume.ErrorKindNone:
		return 2
	case result.Compatible:
		return 0
	default:
		return 1
	}
}

// runBatch checks many schema pairs in one invocation, each through an
// independent engine call (§5: "no cross-instance state is shared"), and
// emits a combined JSON array report.
func runBatch(path string, cfg jsonsubsume.Config) int {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("opening batch file %s: %v", path, err)
		return 2
	}
	defer f.Close()

	type batchEntry struct {
		Producer string             `json:"producer"`
		Consumer string             `json:"consumer"`
		Result   jsonsubsume.Result `json:"result"`
	}
	var entries []batchEntry
	worstExit := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			log.Printf("skipping malformed batch line: %q", line)
			continue
		}
		producerPath, consumerPath := parts[0], parts[1]
		producer, err := readSchemaFile(producerPath)
		if err != nil {
			log.Printf("reading %s: %v", producerPath, err)
			worstExit = 2
			continue
		}
		consumer, err := readSchemaFile(consumerPath)
		if err != nil {
			log.Printf("reading %s: %v", consumerPath, err)
			worstExit = 2
			continue
		}
		result := jsonsubsume.Check(producer, consumer, cfg)
		entries = append(entries, batchEntry{Producer: producerPath, Consumer: consumerPath, Result: result})
		switch {
		case result.ErrorKind != jsonsubsume.ErrorKindNone:
			worstExit = 2
		case !result.Compatible && worstExit < 1:
			worstExit = 1
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("reading batch file: %v", err)
		return 2
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("marshaling batch report: %v", err)
		return 2
	}
	fmt.Println(string(data))
	return worstExit
}

// readSchemaFile reads a producer/consumer file and normalizes it to JSON
// bytes, accepting either JSON or YAML schema documents (§E.1's supplement).
func readSchemaFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jsonsubsume.ToJSONBytes(data)
}

func report(result jsonsubsume.Result) {
	switch *outputFormat {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Printf("marshaling result: %v", err)
			return
		}
		fmt.Println(string(data))
	case "minimal":
		if result.Compatible {
			fmt.Println("compatible")
		} else {
			fmt.Println("incompatible")
		}
	default:
		reportPretty(result)
	}
}

func reportPretty(result jsonsubsume.Result) {
	if result.ErrorKind != jsonsubsume.ErrorKindNone {
		fmt.Printf("⚠️  could not decide: %s (%s)\n", result.ErrorMessage, result.ErrorKind)
		return
	}
	if result.Compatible {
		fmt.Println("✅ producer is subsumed by consumer")
		return
	}
	fmt.Println("❌ producer is not subsumed by consumer")
	if result.Counterexample != nil {
		data, err := json.MarshalIndent(result.Counterexample, "", "  ")
		if err == nil {
			fmt.Printf("counterexample:\n%s\n", string(data))
		}
	}
	if result.ReasonCode != "" {
		fmt.Printf("reason: %s\n", result.ReasonCode)
	}
	fmt.Printf("solver time: %dms\n", result.SolverTimeMs)
}
