package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/AntoineDubuc/wingman-ai/internal/config"
	"github.com/AntoineDubuc/wingman-ai/internal/provider"
	"github.com/AntoineDubuc/wingman-ai/internal/usage"
)

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	workspace := fs.String("workspace", ".", "workspace path")
	force := fs.Bool("force", false, "overwrite an existing config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 0 {
		return errors.New("init does not accept positional arguments")
	}

	abs, err := filepath.Abs(*workspace)
	if err != nil {
		return err
	}
	path := filepath.Join(abs, config.RootConfigFile)
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return err
	}

	if err := config.Save(abs, config.Default()); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	workspace := fs.String("workspace", ".", "workspace path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	abs, err := filepath.Abs(*workspace)
	if err != nil {
		return err
	}
	root, err := config.Load(abs)
	if err != nil {
		return err
	}

	verr := config.Validate(root)
	if verr == nil {
		fmt.Println("ok")
		return nil
	}
	for _, issue := range verr.Issues {
		fmt.Println(issue.String())
	}
	if verr.HasErrors() {
		return errors.New("configuration has errors")
	}
	fmt.Println("ok (with warnings)")
	return nil
}

func cmdProvider(args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return errors.New("provider requires the list subcommand")
	}

	for _, name := range provider.Names() {
		info, err := provider.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-8s family=%-7s model=%-28s cooldown=%s key=%s\n",
			info.Name, info.Family, info.DefaultModel, info.DefaultCooldown, info.DefaultKeyEnv)
	}
	return nil
}

func cmdUsage(args []string) error {
	fs := flag.NewFlagSet("usage", flag.ContinueOnError)
	workspace := fs.String("workspace", ".", "workspace path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	abs, err := filepath.Abs(*workspace)
	if err != nil {
		return err
	}
	root, err := config.Load(abs)
	if err != nil {
		return err
	}

	tracker := usage.NewTracker(filepath.Join(abs, root.Usage.Path))
	stats := tracker.Stats()

	fmt.Printf("total: %d in / %d out / $%.4f\n", stats.Total.Input, stats.Total.Output, stats.Total.Cost)
	printCounts("by provider", stats.ByProvider)
	printCounts("by model", stats.ByModel)
	printCounts("by operation", stats.ByOperation)
	return nil
}

func printCounts(label string, m map[string]usage.TokenCounts) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println(label + ":")
	for _, k := range keys {
		c := m[k]
		fmt.Printf("  %-28s %d in / %d out / $%.4f\n", k, c.Input, c.Output, c.Cost)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
