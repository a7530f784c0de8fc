// Package main provides the soylem CLI entry point.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"soylem/cmd/soylem/chat"
	"soylem/internal/config"
	"soylem/internal/logging"
	"soylem/internal/pipeline"
)

var (
	// Global flags
	cfgPath string
	preset  string
	dataDir string

	// once flags
	showTrace  bool
	maxRetries int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "soylem",
	Short: "soylem - dusunceden Turkce konusmaya",
	Long: `soylem is a deterministic thought-to-speech pipeline for Turkish.

Each utterance runs through situation modeling, dialogue act selection,
message planning, a risk gate, a layered construction grammar and
self-critique before a single reply comes out. No language model is
involved at any stage.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws, err := os.Getwd()
		if err != nil {
			return err
		}
		return logging.Initialize(ws)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return chat.Run(cfg, cfgPath)
	},
}

// onceCmd processes a single utterance and exits
var onceCmd = &cobra.Command{
	Use:   "once <mesaj>",
	Short: "Tek bir mesaji isle ve cik",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pipe, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		defer pipe.Close()

		message := strings.Join(args, " ")
		result := pipe.ProcessWithRetry(cmd.Context(), message, nil, maxRetries)

		fmt.Println(result.Output)
		if showTrace {
			fmt.Fprintln(os.Stderr, renderTrace(pipe.DebugInfo(result)))
		}
		if !result.Success {
			return fmt.Errorf("%s", result.Error)
		}
		return nil
	},
}

// infoCmd describes the active pipeline setup
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Hat kurulumunu goster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pipe, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		defer pipe.Close()

		fmt.Println(renderTrace(pipe.Info()))
		return nil
	},
}

// configInitCmd writes a default config file
var configInitCmd = &cobra.Command{
	Use:   "init [yol]",
	Short: "Varsayilan yapilandirma dosyasi olustur",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "soylem.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("Yapilandirma yazildi: %s\n", path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Yapilandirma islemleri",
}

func loadConfig() (*config.PipelineConfig, error) {
	var cfg *config.PipelineConfig
	var err error

	switch {
	case preset != "":
		cfg, err = config.Preset(preset)
	case cfgPath != "":
		cfg, err = config.Load(cfgPath)
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func renderTrace(info map[string]interface{}) string {
	var sb strings.Builder
	writeMap(&sb, info, "")
	return strings.TrimRight(sb.String(), "\n")
}

func writeMap(sb *strings.Builder, m map[string]interface{}, prefix string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if nested, ok := m[k].(map[string]interface{}); ok {
			fmt.Fprintf(sb, "%s%s:\n", prefix, k)
			writeMap(sb, nested, prefix+"  ")
			continue
		}
		fmt.Fprintf(sb, "%s%s: %v\n", prefix, k, m[k])
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "yapilandirma dosyasi yolu")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "hazir mod: minimal, strict, balanced")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "geri bildirim verisi dizini")

	onceCmd.Flags().BoolVar(&showTrace, "trace", false, "asama dokumunu stderr'e yaz")
	onceCmd.Flags().IntVar(&maxRetries, "retries", 0, "basarisiz elestiri sonrasi deneme sayisi")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(onceCmd, infoCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
