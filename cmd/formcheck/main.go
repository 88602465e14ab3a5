package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/openapi"
	"github.com/goliatone/go-formcheck/pkg/prompt"
	"github.com/goliatone/go-formcheck/pkg/report"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

type config struct {
	schemaPath   string
	openapiPath  string
	operation    string
	dataPath     string
	serverErrors string
	locale       string
	format       string
	interactive  bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("formcheck: ")
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, log.Default()))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, logger *log.Logger) int {
	flags := flag.NewFlagSet("formcheck", flag.ContinueOnError)
	flags.SetOutput(logger.Writer())

	var cfg config
	flags.StringVar(&cfg.schemaPath, "schema", "", "form schema document (JSON or YAML)")
	flags.StringVar(&cfg.openapiPath, "openapi", "", "OpenAPI document to derive the schema from")
	flags.StringVar(&cfg.operation, "operation", "", "operation ID whose request body defines the form (with -openapi)")
	flags.StringVar(&cfg.dataPath, "data", "", "data record to validate (JSON or YAML, - for stdin)")
	flags.StringVar(&cfg.serverErrors, "server-errors", "", "server error payload to merge (JSON map of path to messages)")
	flags.StringVar(&cfg.locale, "locale", "", "message catalog: ru or en")
	flags.StringVar(&cfg.format, "format", "text", "output format: text, json or html")
	flags.BoolVar(&cfg.interactive, "interactive", false, "prompt for every field instead of reading -data")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		logger.Printf("load schema: %v", err)
		return exitUsage
	}

	validator, err := doc.Validator(cfg.locale)
	if err != nil {
		logger.Printf("compile schema: %v", err)
		return exitUsage
	}

	data := map[string]any{}
	if cfg.dataPath != "" {
		data, err = loadData(cfg.dataPath, stdin)
		if err != nil {
			logger.Printf("load data: %v", err)
			return exitUsage
		}
	}

	record := validation.NewRecord(data)
	form, err := validation.Bind(validator, record)
	if err != nil {
		logger.Printf("bind form: %v", err)
		return exitUsage
	}
	defer form.Close()

	if cfg.interactive {
		filler, err := prompt.NewFiller(form)
		if err != nil {
			logger.Printf("prompt: %v", err)
			return exitUsage
		}
		if _, err := filler.Fill(ctx); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				logger.Printf("aborted")
			} else {
				logger.Printf("prompt: %v", err)
			}
			return exitUsage
		}
	}

	merged := report.Merged{Result: form.Result()}
	if cfg.serverErrors != "" {
		payload, err := loadServerErrors(cfg.serverErrors)
		if err != nil {
			logger.Printf("load server errors: %v", err)
			return exitUsage
		}
		merged = report.MergeServerErrors(doc.Schema, merged.Result, payload)
	}

	if err := write(stdout, cfg.format, doc.Schema, merged); err != nil {
		logger.Printf("write report: %v", err)
		return exitUsage
	}

	if !merged.Result.Valid {
		return exitInvalid
	}
	return exitValid
}

func loadDocument(ctx context.Context, cfg config) (schema.Document, error) {
	switch {
	case cfg.schemaPath != "" && cfg.openapiPath != "":
		return schema.Document{}, errors.New("use either -schema or -openapi, not both")
	case cfg.schemaPath != "":
		return schema.LoadFile(cfg.schemaPath)
	case cfg.openapiPath != "":
		if strings.TrimSpace(cfg.operation) == "" {
			return schema.Document{}, errors.New("-operation is required with -openapi")
		}
		raw, err := os.ReadFile(cfg.openapiPath)
		if err != nil {
			return schema.Document{}, err
		}
		form, err := openapi.FromOperation(ctx, raw, cfg.operation)
		if err != nil {
			return schema.Document{}, err
		}
		return documentFromSchema(cfg.openapiPath, form)
	default:
		return schema.Document{}, errors.New("one of -schema or -openapi is required")
	}
}

func documentFromSchema(location string, form model.Schema) (schema.Document, error) {
	raw, err := json.Marshal(form)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.Parse(schema.SourceFromBytes(location), raw)
}

func loadData(path string, stdin io.Reader) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err == nil {
		return data, nil
	}
	data = nil
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: invalid JSON or YAML: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func loadServerErrors(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string][]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return payload, nil
}

func write(w io.Writer, format string, form model.Schema, merged report.Merged) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return report.WriteText(w, report.Summarize(form, merged))
	case "json":
		return report.WriteJSON(w, form.ID, merged)
	case "html":
		out, err := report.HTML(report.Summarize(form, merged), report.HTMLOptions{})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
