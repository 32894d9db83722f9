package sandbox

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/execpad/execpad/config"
)

// Registry resolves languages to ready-to-use executors. It is built once at
// startup and never mutated, so lookups need no locking.
type Registry struct {
	logger    *zap.Logger
	executors map[Language]Executor
}

// NewRegistry builds one executor per supported language from the
// application configuration
func NewRegistry(logger *zap.Logger, cfg *config.Config) (*Registry, error) {
	return NewRegistryWith(logger, cfg)
}

// NewRegistryWith is NewRegistry with executor options applied to every
// language, used by tests to substitute the command runner and file system
func NewRegistryWith(logger *zap.Logger, cfg *config.Config, opts ...ContainerExecutorOption) (*Registry, error) {
	for name := range cfg.Languages {
		if !IsSupported(Language(name)) {
			return nil, fmt.Errorf("unsupported language in config: %s", name)
		}
	}

	execConfig := &Config{
		Runtime:      cfg.Sandbox.Runtime,
		WorkspaceDir: cfg.Sandbox.WorkspaceDir,
		CPUTimeSec:   cfg.Sandbox.CPUTimeSec,
		MemoryMB:     cfg.Sandbox.MemoryMB,
		WallTimeSec:  cfg.Sandbox.WallTimeSec,
		MaxOutputKB:  cfg.Sandbox.MaxOutputKB,
	}

	executors := make(map[Language]Executor, len(supportedOrder))
	for _, lang := range SupportedLanguages() {
		langOpts := append([]ContainerExecutorOption{}, opts...)
		if langCfg, exists := cfg.Languages[string(lang)]; exists {
			if langCfg.Image != "" {
				langOpts = append(langOpts, WithImage(langCfg.Image))
			}
			if len(langCfg.Environment) > 0 {
				langOpts = append(langOpts, WithEnvironment(langCfg.Environment))
			}
		}

		executor, err := NewContainerExecutor(logger, execConfig, lang, langOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build executor for %s: %w", lang, err)
		}
		executors[lang] = executor
	}

	logger.Info("sandbox registry built",
		zap.String("runtime", execConfig.Runtime),
		zap.Int("languages", len(executors)))

	return &Registry{
		logger:    logger,
		executors: executors,
	}, nil
}

// Resolve returns the executor for a language. Callers validate the language
// before dispatch; an unknown one here is a bug upstream, not user error.
func (r *Registry) Resolve(lang Language) (Executor, error) {
	executor, exists := r.executors[lang]
	if !exists {
		return nil, fmt.Errorf("no executor registered for language: %s", lang)
	}
	return executor, nil
}

// Languages returns the registered languages in stable order
func (r *Registry) Languages() []Language {
	return SupportedLanguages()
}

// Images returns the effective container image per language, with config
// overrides applied
func (r *Registry) Images() map[Language]string {
	images := make(map[Language]string, len(r.executors))
	for lang, executor := range r.executors {
		if containerExec, ok := executor.(*ContainerExecutor); ok {
			images[lang] = containerExec.Image()
		}
	}
	return images
}
