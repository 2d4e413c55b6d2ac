// Package cli provides the command-line interface for the Bruno to Postman converter.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/bru2postman/internal/adapters/renderers"
	"github.com/GabrielNunesIT/bru2postman/internal/config"
	"github.com/GabrielNunesIT/bru2postman/internal/domain"
	"github.com/GabrielNunesIT/bru2postman/internal/mapper"
	"github.com/GabrielNunesIT/bru2postman/internal/server"
	"github.com/GabrielNunesIT/bru2postman/internal/validate"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log     logger.ILogger
	rootCmd *cobra.Command
	cfg     *config.Config
	out     io.Writer

	inputFile  string
	outputFile string
	format     string
	addr       string
	maxDepth   int
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
		out: os.Stdout,
	}

	cli.rootCmd = &cobra.Command{
		Use:               "bru2postman",
		Short:             "Convert Bruno collections to Postman collections",
		Long:              "A CLI tool that converts Bruno collection exports to Postman Collection v2.1.0 files, validates them and renders their documentation.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.loadConfig,
	}

	cli.rootCmd.PersistentFlags().IntVar(&cli.maxDepth, "max-depth", 0, "Maximum folder nesting depth (0 = unlimited, overrides config)")

	cli.rootCmd.AddCommand(
		cli.convertCmd(),
		cli.validateCmd(),
		cli.documentCmd(),
		cli.serveCmd(),
	)

	return cli
}

func (c *CLI) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a Bruno collection to a Postman collection",
		RunE:  c.runConvert,
	}

	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the Bruno collection file (required)")
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the Postman collection (default: <input>.postman_collection.json)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Inspect a Bruno collection without converting it",
		RunE:  c.runValidate,
	}

	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the Bruno collection file (required)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) documentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Render documentation for a Bruno collection",
		RunE:  c.runDocument,
	}

	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the Bruno collection file (required)")
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file (required)")
	cmd.Flags().StringVarP(&c.format, "format", "f", "pdf", "Output format: pdf, docx, confluence, postman")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		RunE:  c.runServe,
	}

	cmd.Flags().StringVar(&c.addr, "addr", "", "Listen address (overrides config)")

	return cmd
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with ctx passed to every command.
func (c *CLI) ExecuteContext(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if c.maxDepth > 0 {
		cfg.Convert.MaxDepth = c.maxDepth
	}

	if c.addr != "" {
		cfg.Server.Addr = c.addr
	}

	c.cfg = cfg

	return nil
}

func (c *CLI) newConverter() *mapper.Converter {
	return mapper.New(
		mapper.WithLogger(c.log),
		mapper.WithMaxDepth(c.cfg.Convert.MaxDepth),
	)
}

func (c *CLI) runConvert(_ *cobra.Command, _ []string) error {
	postman, err := c.convertFile()
	if err != nil {
		return err
	}

	outputPath := c.outputFile
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(c.inputFile), renderers.PostmanFileName(c.inputFile))
	}

	if err := c.writeOutput(outputPath, renderers.NewPostmanRenderer(), postman); err != nil {
		return err
	}

	c.log.Infof("Successfully created: %s", outputPath)

	return nil
}

func (c *CLI) runValidate(_ *cobra.Command, _ []string) error {
	collection, err := c.loadBruno(c.inputFile)
	if err != nil {
		return err
	}

	report := validate.Validate(collection)

	encoder := json.NewEncoder(c.out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !report.IsValid {
		return fmt.Errorf("collection is invalid: %s", strings.Join(report.Errors, "; "))
	}

	return nil
}

func (c *CLI) runDocument(_ *cobra.Command, _ []string) error {
	renderer, err := c.getRenderer()
	if err != nil {
		return err
	}

	postman, err := c.convertFile()
	if err != nil {
		return err
	}

	c.log.Infof("Rendering %s format...", renderer.Format())

	if err := c.writeOutput(c.outputFile, renderer, postman); err != nil {
		return err
	}

	c.log.Infof("Successfully created: %s", c.outputFile)

	return nil
}

func (c *CLI) runServe(cmd *cobra.Command, _ []string) error {
	srv := server.New(c.log, c.cfg.Server, c.newConverter())

	return srv.ListenAndServe(cmd.Context())
}

func (c *CLI) getRenderer() (domain.Renderer, error) {
	format := strings.ToLower(c.format)

	switch format {
	case "pdf":
		return renderers.NewPDFRenderer(), nil
	case "docx", "word":
		return renderers.NewDocxRenderer(), nil
	case "confluence", "adf":
		return renderers.NewADFRenderer(), nil
	case "postman", "json":
		return renderers.NewPostmanRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: pdf, docx, confluence, postman)", c.format)
	}
}

func (c *CLI) convertFile() (*domain.PostmanCollection, error) {
	collection, err := c.loadBruno(c.inputFile)
	if err != nil {
		return nil, err
	}

	postman, err := c.newConverter().Convert(collection)
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	return postman, nil
}

func (c *CLI) loadBruno(path string) (*domain.BrunoCollection, error) {
	c.log.Infof("Loading Bruno collection from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	collection, err := domain.ParseBrunoCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load Bruno collection: %w", err)
	}

	return collection, nil
}

func (c *CLI) writeOutput(path string, renderer domain.Renderer, postman *domain.PostmanCollection) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	if err := renderer.Render(postman, outputFile); err != nil {
		return fmt.Errorf("failed to render %s: %w", renderer.Format(), err)
	}

	return nil
}
