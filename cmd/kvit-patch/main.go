package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kvit-s/kvit-patch/internal/checkpoint"
	"github.com/kvit-s/kvit-patch/internal/config"
	"github.com/kvit-s/kvit-patch/internal/logging"
	"github.com/kvit-s/kvit-patch/internal/patch"
	"github.com/kvit-s/kvit-patch/internal/stats"
	"github.com/kvit-s/kvit-patch/internal/ui"
	"github.com/kvit-s/kvit-patch/internal/workspace"
)

// Version info set by ldflags at build time
var (
	version    = "dev"
	commitHash = "dev"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "document to validate edits against")
	editsPath := flag.String("edits", "", "YAML or JSON file with edit requests")
	apply := flag.Bool("apply", false, "write the modified document when validation succeeds")
	jsonOutput := flag.Bool("json", false, "emit the validation result as JSON")
	verbose := flag.Bool("verbose", false, "show the per-strategy attempt log")
	showStats := flag.Bool("stats", false, "print per-strategy matching statistics")
	backup := flag.Bool("backup", true, "snapshot the document before applying")
	restore := flag.Bool("restore", false, "restore the document from its latest backup and exit")
	logFile := flag.String("log", "", "log file path (overrides config)")
	showVersion := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s-%s\n", version, commitHash)
		return
	}

	if *restore {
		if *filePath == "" {
			fmt.Fprintln(os.Stderr, "usage: kvit-patch -restore -file <document>")
			os.Exit(2)
		}
		mgr, err := checkpoint.NewManager(*filePath)
		if err != nil {
			log.Fatalf("Failed to create backup manager: %v", err)
		}
		if err := mgr.RestoreLatest(); err != nil {
			log.Fatalf("Failed to restore document: %v", err)
		}
		fmt.Printf("restored %s from latest backup\n", *filePath)
		return
	}

	if *filePath == "" || *editsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: kvit-patch -file <document> -edits <requests> [-apply] [-json] [-verbose]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *logFile != "" {
		cfg.Log.Path = *logFile
	}

	logger, err := logging.NewLogger(cfg.Log.Path, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	doc, exists, err := readDocument(*filePath)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	requests, err := readRequests(*editsPath)
	if err != nil {
		log.Fatalf("Failed to read edit requests: %v", err)
	}

	validator := patch.NewValidator(cfg.MatcherOptions(), logger.Zap())
	validator.Matcher.MaxScanCost = cfg.Matching.MaxScanCost

	result, err := validator.Validate(doc, requests)
	if err != nil {
		// Malformed request: fail fast, before any matching.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(data))
	} else {
		printer := &ui.Printer{Out: os.Stdout, Verbose: *verbose}
		printer.Render(doc, result, *filePath)
	}

	if *showStats {
		stats.Collect(result).Print()
	}

	if !result.Valid {
		os.Exit(1)
	}

	if *apply {
		lock, err := workspace.AcquireLock(*filePath)
		if err != nil {
			log.Fatalf("Failed to lock document: %v", err)
		}
		defer lock.Release()

		newDoc, err := patch.Apply(doc, result.Edits, result.Matches)
		if err != nil {
			logger.Error("apply failed", err)
			log.Fatalf("Failed to apply edits: %v", err)
		}
		if *backup && exists {
			mgr, err := checkpoint.NewManager(*filePath)
			if err != nil {
				log.Fatalf("Failed to create backup manager: %v", err)
			}
			if _, err := mgr.Save(); err != nil {
				log.Fatalf("Failed to back up document: %v", err)
			}
		}
		if err := writeFileAtomic(*filePath, strings.Join(newDoc, "\n"), !exists); err != nil {
			log.Fatalf("Failed to write document: %v", err)
		}
		logger.DocumentApplied(*filePath, len(requests), len(newDoc))
		if !*jsonOutput {
			fmt.Printf("applied %d edits to %s\n", len(requests), *filePath)
		}
	}
}

// readDocument reads the target document as a line sequence. A missing file
// is an empty document (the new-document insertion case).
func readDocument(path string) (lines []string, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(content, "\n"), true, nil
}

// readRequests parses the edit request file. YAML is a superset of JSON, so
// both formats decode here.
func readRequests(path string) ([]patch.EditRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var requests []patch.EditRequest
	if err := yaml.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("parse edit requests: %w", err)
	}
	return requests, nil
}

// writeFileAtomic writes content to a file atomically using temp file + rename
func writeFileAtomic(fullPath, content string, isNewFile bool) error {
	if isNewFile {
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(fullPath), ".patch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up temp file in case of error

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Preserve original file permissions
	if info, statErr := os.Stat(fullPath); statErr == nil {
		_ = os.Chmod(tempPath, info.Mode())
	} else {
		_ = os.Chmod(tempPath, 0644)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		return fmt.Errorf("atomic rename failed: %w", err)
	}
	return nil
}
