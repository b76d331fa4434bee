package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-reasoner/pkg/classifier"
	"github.com/dd0wney/cluso-reasoner/pkg/config"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/export"
	"github.com/dd0wney/cluso-reasoner/pkg/logging"
	"github.com/dd0wney/cluso-reasoner/pkg/metrics"
	"github.com/dd0wney/cluso-reasoner/pkg/reasoner"
	"github.com/dd0wney/cluso-reasoner/pkg/translate"
)

// classifyFlags override configuration values when set on the command line.
type classifyFlags struct {
	configPath string
	out        string
	mode       string
	logLevel   string
	metricsOut string
	workers    int
	compress   bool
	indent     bool
	progress   bool
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "EL ontology classifier",
		Long: `elclassify computes the class and role hierarchies of ontologies written
as YAML documents, along with the direct types of their individuals.

Results are written as JSON snapshots, optionally snappy compressed.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(classifyCmd(), inspectCmd(), configCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	return cmd
}

func classifyCmd() *cobra.Command {
	var f classifyFlags

	cmd := &cobra.Command{
		Use:   "classify DOCUMENT...",
		Short: "Classify one or more ontology documents",
		Long: `Classify reads each document, classifies it and writes a snapshot.

With one document the snapshot goes to --out, or to standard output when --out is
empty. With several documents --out names a directory that receives one snapshot per
document; the documents are classified in parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return classifyOne(cmd, cfg, &f, args[0])
			}
			return classifyMany(cmd, cfg, &f, args)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Snapshot file, or directory for several documents")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Engine mode (concurrent, sequential)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel classifications for several documents")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "Snappy-compress snapshots")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "Indent uncompressed snapshots")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "Report progress on standard error")
	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f *classifyFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Engine.Mode = f.mode
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = f.workers
	}
	if flags.Changed("compress") {
		cfg.Export.Compress = f.compress
	}
	if flags.Changed("indent") {
		cfg.Export.Indent = f.indent
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// job is one translated document ready for classification.
type job struct {
	doc   *translate.Document
	names *translate.Translator
	input reasoner.Input
}

func prepare(path string) (*job, error) {
	doc, err := translate.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tr := translate.New(entity.NewManager())
	axioms, err := tr.Translate(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &job{
		doc:   doc,
		names: tr,
		input: reasoner.Input{
			Manager:         tr.Manager(),
			Axioms:          axioms,
			ExpectedClasses: len(doc.Classes),
			ExpectedRoles:   len(doc.Roles),
		},
	}, nil
}

// session holds what one invocation shares across its runs.
type session struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	started time.Time
}

func newSession(cmd *cobra.Command, cfg *config.Config) *session {
	return &session{
		cfg:     cfg,
		logger:  logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level)),
		metrics: metrics.NewRegistry(),
		started: time.Now(),
	}
}

func (s *session) options(monitor reasoner.Monitor) (reasoner.Options, error) {
	cache, err := reasoner.NewCache(s.cfg.Cache.Size)
	if err != nil {
		return reasoner.Options{}, err
	}
	return reasoner.Options{
		Mode:               classifier.Mode(s.cfg.Engine.Mode),
		CheckpointInterval: s.cfg.Engine.CheckpointInterval,
		Timeout:            s.cfg.Engine.Timeout,
		Logger:             s.logger,
		Metrics:            s.metrics,
		Monitor:            monitor,
		Cache:              cache,
	}, nil
}

func (s *session) exportOptions() export.Options {
	return export.Options{Compress: s.cfg.Export.Compress, Indent: s.cfg.Export.Indent}
}

func (s *session) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	s.metrics.UpdateProcessMetrics(s.started)
	if err := s.metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func classifyOne(cmd *cobra.Command, cfg *config.Config, f *classifyFlags, path string) error {
	j, err := prepare(path)
	if err != nil {
		return err
	}
	s := newSession(cmd, cfg)

	var monitor reasoner.Monitor
	if f.progress {
		monitor = &progressPrinter{w: cmd.ErrOrStderr()}
	}
	opts, err := s.options(monitor)
	if err != nil {
		return err
	}

	r := reasoner.New(opts)
	if err := r.Classify(cmd.Context(), j.input); err != nil {
		return errors.Join(fmt.Errorf("classify %s: %w", path, err), s.writeMetrics(f.metricsOut))
	}
	res, err := r.Result()
	if err != nil {
		return err
	}
	snap, err := snapshot(j, res)
	if err != nil {
		return err
	}

	if f.out == "" {
		if err := export.Write(cmd.OutOrStdout(), snap, s.exportOptions()); err != nil {
			return err
		}
	} else if err := export.WriteFile(f.out, snap, s.exportOptions()); err != nil {
		return err
	}
	return s.writeMetrics(f.metricsOut)
}

func classifyMany(cmd *cobra.Command, cfg *config.Config, f *classifyFlags, paths []string) error {
	if f.out == "" {
		return errors.New("--out must name a directory when classifying several documents")
	}
	jobs := make([]*job, len(paths))
	inputs := make([]reasoner.Input, len(paths))
	for i, p := range paths {
		j, err := prepare(p)
		if err != nil {
			return err
		}
		jobs[i] = j
		inputs[i] = j.input
	}

	s := newSession(cmd, cfg)
	opts, err := s.options(nil)
	if err != nil {
		return err
	}
	results, batchErr := reasoner.ClassifyBatch(cmd.Context(), inputs, cfg.Batch.Workers, opts)

	ext := ".json"
	if cfg.Export.Compress {
		ext = ".json.sz"
	}
	for i, res := range results {
		if res == nil {
			continue
		}
		snap, err := snapshot(jobs[i], res)
		if err != nil {
			return err
		}
		path := filepath.Join(f.out, jobs[i].doc.Name+ext)
		if err := export.WriteFile(path, snap, s.exportOptions()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", paths[i], path)
	}
	if err := s.writeMetrics(f.metricsOut); err != nil {
		return err
	}
	return batchErr
}

func snapshot(j *job, res *reasoner.Result) (*export.Snapshot, error) {
	return export.Build(export.Source{
		Name:            j.doc.Name,
		RunID:           res.RunID,
		Classes:         res.Classes,
		Roles:           res.Roles,
		DirectTypes:     res.DirectTypes,
		SameIndividuals: res.SameIndividuals,
	}, j.names)
}

// progressPrinter reports phase changes and engine progress in steps of ten percent.
// Interrupts reach the reasoner through the command context, so it never cancels.
type progressPrinter struct {
	w     io.Writer
	phase string
	last  int
}

func (p *progressPrinter) Progress(phase string, percent int) {
	if phase == p.phase && (percent == p.last || (percent < p.last+10 && percent != 100)) {
		return
	}
	p.phase, p.last = phase, percent
	fmt.Fprintf(p.w, "%-10s %3d%%\n", phase, percent)
}

func (p *progressPrinter) Cancelled() bool { return false }

func inspectCmd() *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "inspect SNAPSHOT",
		Short: "Summarize a snapshot or show one class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := export.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if class != "" {
				n, ok := snap.Class(class)
				if !ok {
					return fmt.Errorf("class %q not in snapshot", class)
				}
				fmt.Fprintf(out, "class:       %s\n", n.Name)
				fmt.Fprintf(out, "equivalents: %s\n", strings.Join(n.Equivalents, ", "))
				fmt.Fprintf(out, "parents:     %s\n", strings.Join(n.Parents, ", "))
				return nil
			}
			fmt.Fprintf(out, "name:          %s\n", snap.Name)
			fmt.Fprintf(out, "run:           %s\n", snap.RunID)
			fmt.Fprintf(out, "consistent:    %t\n", snap.Consistent)
			fmt.Fprintf(out, "classes:       %d\n", len(snap.Classes))
			fmt.Fprintf(out, "roles:         %d\n", len(snap.Roles))
			fmt.Fprintf(out, "unsatisfiable: %s\n", strings.Join(snap.Unsatisfiable, ", "))
			fmt.Fprintf(out, "individuals:   %d\n", len(snap.Individuals))
			return nil
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "Show the parents and equivalents of this class")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init PATH",
		Short: "Write the default configuration to PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			return config.DefaultConfig().SaveToFile(args[0])
		},
	})

	var path string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVarP(&path, "config", "c", "", "Config file path (YAML)")
	cmd.AddCommand(show)
	return cmd
}
