package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/execpad/execpad/config"
	"github.com/execpad/execpad/sandbox"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their container images",
	RunE:  runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

// languageEntry is the YAML shape printed per language
type languageEntry struct {
	Language string `yaml:"language"`
	Image    string `yaml:"image"`
}

func runLanguages(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newCLILogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	registry, err := sandbox.NewRegistry(log, cfg)
	if err != nil {
		return fmt.Errorf("building sandbox registry: %w", err)
	}

	images := registry.Images()
	entries := make([]languageEntry, 0, len(images))
	for _, lang := range registry.Languages() {
		entries = append(entries, languageEntry{
			Language: string(lang),
			Image:    images[lang],
		})
	}

	out, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("rendering languages: %w", err)
	}

	fmt.Fprint(os.Stdout, string(out))
	return nil
}
